package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/event"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

const (
	tenantA = "tenant-a"
	tenantB = "tenant-b"
)

// tickingClock devuelve un reloj que avanza un segundo por lectura, para que
// el orden por created_at sea determinista.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// captureNotifier acumula los eventos publicados.
type captureNotifier struct {
	mu     sync.Mutex
	events []event.Event
}

func (n *captureNotifier) Publish(_ context.Context, e event.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *captureNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.EventType())
	}
	return out
}

func newLedgerUC() (*ledger.UseCase, *memory.Store, *captureNotifier) {
	store := memory.NewStore()
	notifier := &captureNotifier{}
	uc := ledger.NewUseCase(store, store.Movements(), notifier).WithClock(tickingClock())
	return uc, store, notifier
}

func receiptRequest() dto.CreateMovementRequest {
	cost := decimal.RequireFromString("2.50")
	return dto.CreateMovementRequest{
		Type:          entity.MovementTypeReceipt,
		Reason:        entity.ReasonPurchase,
		WarehouseID:   "wh-1",
		WarehouseName: "Bodega Central",
		ToLocationID:  "loc-1",
		ItemID:        "item-1",
		ItemCode:      "SKU-001",
		ItemName:      "Tornillo",
		Quantity:      decimal.RequireFromString("100"),
		UnitOfMeasure: "unidad",
		UnitCost:      &cost,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateMovement_QuedaPendingConNumero(t *testing.T) {
	uc, _, notifier := newLedgerUC()

	m, err := uc.CreateMovement(context.Background(), tenantA, receiptRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.MovementStatusPending, m.Status, "nace pending, sin efectos aún")
	assert.Equal(t, "MOV-2025-00000001", m.MovementNumber)
	require.NotNil(t, m.TotalCost)
	assert.True(t, m.TotalCost.Equal(decimal.RequireFromString("250")), "TotalCost = UnitCost * Quantity")
	assert.Nil(t, m.PerformedAt, "PerformedAt solo se marca al completar")
	assert.Equal(t, []string{event.MovementCreated}, notifier.types())
}

func TestCreateMovement_NumeracionConsecutiva(t *testing.T) {
	uc, _, _ := newLedgerUC()

	for i, want := range []string{"MOV-2025-00000001", "MOV-2025-00000002", "MOV-2025-00000003"} {
		m, err := uc.CreateMovement(context.Background(), tenantA, receiptRequest())
		require.NoError(t, err, "movimiento %d", i+1)
		assert.Equal(t, want, m.MovementNumber)
	}

	// Otro tenant arranca su propio contador.
	m, err := uc.CreateMovement(context.Background(), tenantB, receiptRequest())
	require.NoError(t, err)
	assert.Equal(t, "MOV-2025-00000001", m.MovementNumber)
}

func TestCreateMovement_Validaciones(t *testing.T) {
	uc, _, _ := newLedgerUC()
	ctx := context.Background()

	req := receiptRequest()
	req.Type = "teleport"
	_, err := uc.CreateMovement(ctx, tenantA, req)
	assert.ErrorIs(t, err, domain.ErrValidation, "tipo desconocido")

	req = receiptRequest()
	req.WarehouseID = ""
	_, err = uc.CreateMovement(ctx, tenantA, req)
	assert.ErrorIs(t, err, domain.ErrValidation, "bodega requerida")

	req = receiptRequest()
	req.ItemID = ""
	_, err = uc.CreateMovement(ctx, tenantA, req)
	assert.ErrorIs(t, err, domain.ErrValidation, "ítem requerido")
}

// ──────────────────────────────────────────────────────────────────────────────
// ExecuteMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestExecuteMovement_CompletaYMarcaPerformedAt(t *testing.T) {
	uc, _, _ := newLedgerUC()
	ctx := context.Background()

	m, err := uc.CreateMovement(ctx, tenantA, receiptRequest())
	require.NoError(t, err)

	executed, err := uc.ExecuteMovement(ctx, tenantA, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCompleted, executed.Status)
	require.NotNil(t, executed.PerformedAt)

	// Un movimiento completado no se ejecuta dos veces.
	_, err = uc.ExecuteMovement(ctx, tenantA, m.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestExecuteMovement_ValidaUbicacionesPorTipo(t *testing.T) {
	uc, _, _ := newLedgerUC()
	ctx := context.Background()

	// receipt sin ubicación destino: se crea bien pero no se puede ejecutar.
	req := receiptRequest()
	req.ToLocationID = ""
	m, err := uc.CreateMovement(ctx, tenantA, req)
	require.NoError(t, err, "las ubicaciones no se validan al crear")

	_, err = uc.ExecuteMovement(ctx, tenantA, m.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Sigue pending: la validación fallida no muta nada.
	got, err := uc.GetMovement(ctx, tenantA, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusPending, got.Status)
}

func TestExecuteMovement_TenantAjenoEsNotFound(t *testing.T) {
	uc, _, _ := newLedgerUC()
	ctx := context.Background()

	m, err := uc.CreateMovement(ctx, tenantA, receiptRequest())
	require.NoError(t, err)

	// El mismatch de tenant se reporta igual que un no-encontrado.
	_, err = uc.ExecuteMovement(ctx, tenantB, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetMovement(ctx, tenantB, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// CancelMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelMovement_GuardaRazonEnMetadata(t *testing.T) {
	uc, _, _ := newLedgerUC()
	ctx := context.Background()

	m, err := uc.CreateMovement(ctx, tenantA, receiptRequest())
	require.NoError(t, err)

	cancelled, err := uc.CancelMovement(ctx, tenantA, m.ID, "pedido duplicado")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCancelled, cancelled.Status)
	assert.Equal(t, "pedido duplicado", cancelled.Metadata[ledger.MetadataCancellationReason])

	// El registro permanece en el ledger, nunca se borra.
	got, err := uc.GetMovement(ctx, tenantA, m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCancelled, got.Status)
}

func TestCancelMovement_CompletadoNoSeCancela(t *testing.T) {
	uc, _, _ := newLedgerUC()
	ctx := context.Background()

	m, err := uc.CreateMovement(ctx, tenantA, receiptRequest())
	require.NoError(t, err)
	_, err = uc.ExecuteMovement(ctx, tenantA, m.ID)
	require.NoError(t, err)

	// Un hecho histórico solo se revierte con un movimiento compensatorio.
	_, err = uc.CancelMovement(ctx, tenantA, m.ID, "me arrepentí")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Search e historial
// ──────────────────────────────────────────────────────────────────────────────

func TestSearchMovements_FiltraYPagina(t *testing.T) {
	uc, _, _ := newLedgerUC()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m, err := uc.CreateMovement(ctx, tenantA, receiptRequest())
		require.NoError(t, err)
		if i < 2 {
			_, err = uc.ExecuteMovement(ctx, tenantA, m.ID)
			require.NoError(t, err)
		}
	}

	list, total, err := uc.SearchMovements(ctx, tenantA, dto.MovementSearchRequest{
		Status: entity.MovementStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	// Paginación: página de 1 con offset.
	list, total, err = uc.SearchMovements(ctx, tenantA, dto.MovementSearchRequest{
		PageRequest: dto.PageRequest{Limit: 1, Offset: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total, "el total refleja todo el conjunto filtrado")
	assert.Len(t, list, 1)

	// El tenant B no ve nada.
	list, total, err = uc.SearchMovements(ctx, tenantB, dto.MovementSearchRequest{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestGetItemHistory_SoloCompletadosMasRecientesPrimero(t *testing.T) {
	uc, _, _ := newLedgerUC()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		m, err := uc.CreateMovement(ctx, tenantA, receiptRequest())
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	// Solo se completan los tres primeros.
	for _, id := range ids[:3] {
		_, err := uc.ExecuteMovement(ctx, tenantA, id)
		require.NoError(t, err)
	}

	history, err := uc.GetItemHistory(ctx, tenantA, "item-1", "", 0)
	require.NoError(t, err)
	require.Len(t, history, 3, "los pending no aparecen en el historial")
	for _, m := range history {
		assert.Equal(t, entity.MovementStatusCompleted, m.Status)
	}
	assert.True(t, history[0].CreatedAt.After(history[2].CreatedAt), "más recientes primero")

	// Límite explícito.
	history, err = uc.GetItemHistory(ctx, tenantA, "item-1", "", 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Analytics
// ──────────────────────────────────────────────────────────────────────────────

func TestGetMovementAnalytics_AgregaPorTipoYDireccion(t *testing.T) {
	uc, _, _ := newLedgerUC()
	ctx := context.Background()

	// Dos entradas de 100 y una salida de 40.
	for i := 0; i < 2; i++ {
		m, err := uc.CreateMovement(ctx, tenantA, receiptRequest())
		require.NoError(t, err)
		_, err = uc.ExecuteMovement(ctx, tenantA, m.ID)
		require.NoError(t, err)
	}
	issue := receiptRequest()
	issue.Type = entity.MovementTypeIssue
	issue.ToLocationID = ""
	issue.FromLocationID = "loc-1"
	issue.Quantity = decimal.RequireFromString("-40")
	m, err := uc.CreateMovement(ctx, tenantA, issue)
	require.NoError(t, err)
	_, err = uc.ExecuteMovement(ctx, tenantA, m.ID)
	require.NoError(t, err)

	from := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	analytics, err := uc.GetMovementAnalytics(ctx, tenantA, "wh-1", from, to)
	require.NoError(t, err)

	assert.Equal(t, 3, analytics.TotalMovements)
	assert.Equal(t, 2, analytics.ByType[entity.MovementTypeReceipt])
	assert.Equal(t, 1, analytics.ByType[entity.MovementTypeIssue])
	assert.True(t, analytics.TotalInbound.Equal(decimal.RequireFromString("200")))
	assert.True(t, analytics.TotalOutbound.Equal(decimal.RequireFromString("40")))
}
