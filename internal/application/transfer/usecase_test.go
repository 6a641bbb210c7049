package transfer_test

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
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/event"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

const (
	tenantA  = "tenant-a"
	tenantB  = "tenant-b"
	userID   = "user-1"
	userName = "Usuario Uno"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

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

func (n *captureNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

// fixture arma el orquestador sobre el almacén en memoria.
type fixture struct {
	store    *memory.Store
	ledger   *ledger.UseCase
	uc       *transfer.UseCase
	notifier *captureNotifier
}

func newFixture() *fixture {
	store := memory.NewStore()
	notifier := &captureNotifier{}
	clock := tickingClock()
	ledgerUC := ledger.NewUseCase(store, store.Movements(), notifier).WithClock(clock)
	uc := transfer.NewUseCase(store, store.Transfers(), ledgerUC, notifier).WithClock(clock)
	return &fixture{store: store, ledger: ledgerUC, uc: uc, notifier: notifier}
}

// transferRequest traslado de dos líneas: 100 tornillos y 20 tuercas.
func transferRequest(requiresApproval bool) dto.CreateTransferRequest {
	cost := d("2.50")
	return dto.CreateTransferRequest{
		FromWarehouseID:   "wh-origen",
		FromWarehouseName: "Bodega Origen",
		ToWarehouseID:     "wh-destino",
		ToWarehouseName:   "Bodega Destino",
		RequiresApproval:  requiresApproval,
		Lines: []dto.CreateTransferLine{
			{
				ItemID:            "item-1",
				ItemCode:          "SKU-001",
				ItemName:          "Tornillo",
				FromLocationID:    "loc-a",
				RequestedQuantity: d("100"),
				UnitOfMeasure:     "unidad",
				UnitCost:          &cost,
			},
			{
				ItemID:            "item-2",
				ItemCode:          "SKU-002",
				ItemName:          "Tuerca",
				FromLocationID:    "loc-b",
				RequestedQuantity: d("20"),
				UnitOfMeasure:     "unidad",
			},
		},
	}
}

// approvedTransfer crea y aprueba un traslado sin flujo de aprobación.
func (f *fixture) approvedTransfer(t *testing.T) *entity.StockTransfer {
	t.Helper()
	ctx := context.Background()
	tr, err := f.uc.CreateTransfer(ctx, tenantA, userID, userName, transferRequest(false))
	require.NoError(t, err)
	tr, err = f.uc.SubmitTransfer(ctx, tenantA, tr.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TransferStatusApproved, tr.Status)
	return tr
}

// shipAll despacha 50 tornillos y 20 tuercas.
func (f *fixture) shipAll(t *testing.T, transferID string) *entity.StockTransfer {
	t.Helper()
	tr, err := f.uc.GetTransfer(context.Background(), tenantA, transferID)
	require.NoError(t, err)
	shipped, err := f.uc.ShipTransfer(context.Background(), tenantA, transferID, userID, dto.ShipTransferRequest{
		CarrierName:    "Transportes XYZ",
		TrackingNumber: "TRK-123",
		Lines: []dto.ShipTransferLine{
			{LineID: tr.Lines[0].ID, ShippedQuantity: d("50"), ToLocationID: "loc-dest"},
			{LineID: tr.Lines[1].ID, ShippedQuantity: d("20"), ToLocationID: "loc-dest"},
		},
	})
	require.NoError(t, err)
	return shipped
}

// ledgerForTransfer devuelve los movimientos del ledger referenciando el traslado.
func (f *fixture) ledgerForTransfer(t *testing.T, transferID string) []*entity.StockMovement {
	t.Helper()
	list, _, err := f.store.Movements().Search(tenantA, repository.MovementFilter{
		ReferenceType: "transfer",
		ReferenceID:   transferID,
	}, 100, 0)
	require.NoError(t, err)
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTransfer_BorradorConAgregados(t *testing.T) {
	f := newFixture()

	tr, err := f.uc.CreateTransfer(context.Background(), tenantA, userID, userName, transferRequest(false))
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusDraft, tr.Status)
	assert.Equal(t, "XFER-2025-000001", tr.TransferNumber)
	assert.Equal(t, 2, tr.TotalItems)
	assert.True(t, tr.TotalQuantity.Equal(d("120")))
	assert.True(t, tr.EstimatedValue.Equal(d("250")), "solo la línea con costo aporta valor")
	for _, l := range tr.Lines {
		assert.Equal(t, entity.LineStatusPending, l.Status)
		assert.NotEmpty(t, l.ID)
	}
	assert.Equal(t, []string{event.TransferCreated}, f.notifier.types())

	// Ningún movimiento en el ledger: crear un traslado no mueve stock.
	assert.Empty(t, f.ledgerForTransfer(t, tr.ID))
}

func TestCreateTransfer_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := transferRequest(false)
	req.ToWarehouseID = req.FromWarehouseID
	_, err := f.uc.CreateTransfer(ctx, tenantA, userID, userName, req)
	assert.ErrorIs(t, err, domain.ErrValidation, "misma bodega origen y destino")

	req = transferRequest(false)
	req.Lines[0].RequestedQuantity = d("0")
	_, err = f.uc.CreateTransfer(ctx, tenantA, userID, userName, req)
	assert.ErrorIs(t, err, domain.ErrValidation, "cantidad solicitada no positiva")
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit y aprobación
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: sin flujo de aprobación el submit aprueba directo.
func TestSubmitTransfer_SinAprobacionQuedaApproved(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr, err := f.uc.CreateTransfer(ctx, tenantA, userID, userName, transferRequest(false))
	require.NoError(t, err)

	tr, err = f.uc.SubmitTransfer(ctx, tenantA, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, tr.Status)
	assert.NotNil(t, tr.ApprovedAt)
	assert.NotNil(t, tr.RequestedDate)

	// No se puede re-enviar.
	_, err = f.uc.SubmitTransfer(ctx, tenantA, tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSubmitTransfer_ConAprobacionPasaPorPendingApproval(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr, err := f.uc.CreateTransfer(ctx, tenantA, userID, userName, transferRequest(true))
	require.NoError(t, err)

	tr, err = f.uc.SubmitTransfer(ctx, tenantA, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPendingApproval, tr.Status)
	assert.Nil(t, tr.ApprovedAt)

	// Despachar sin aprobar es estado inválido.
	_, err = f.uc.ShipTransfer(ctx, tenantA, tr.ID, userID, dto.ShipTransferRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	tr, err = f.uc.ApproveTransfer(ctx, tenantA, tr.ID, "approver-9")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, tr.Status)
	assert.Equal(t, "approver-9", tr.ApprovedBy)
	assert.NotNil(t, tr.ApprovedAt)

	// Aprobar dos veces falla.
	_, err = f.uc.ApproveTransfer(ctx, tenantA, tr.ID, "approver-9")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSubmitTransfer_SinLineasEsValidacion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := transferRequest(false)
	req.Lines = nil
	tr, err := f.uc.CreateTransfer(ctx, tenantA, userID, userName, req)
	require.NoError(t, err, "el borrador vacío se puede crear")

	_, err = f.uc.SubmitTransfer(ctx, tenantA, tr.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Despacho
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: despachar 50 de 100 deja el traslado en tránsito y registra la
// salida en el ledger.
func TestShipTransfer_CreaSalidasEnElLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.approvedTransfer(t)
	f.notifier.reset()

	shipped, err := f.uc.ShipTransfer(ctx, tenantA, tr.ID, userID, dto.ShipTransferRequest{
		CarrierName:    "Transportes XYZ",
		TrackingNumber: "TRK-123",
		Lines: []dto.ShipTransferLine{
			{LineID: tr.Lines[0].ID, ShippedQuantity: d("50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusInTransit, shipped.Status)
	assert.Equal(t, "Transportes XYZ", shipped.CarrierName)
	assert.NotNil(t, shipped.ActualShipDate)
	assert.Equal(t, entity.LineStatusShipped, shipped.Lines[0].Status)
	assert.True(t, shipped.Lines[0].ShippedQuantity.Equal(d("50")))

	movements := f.ledgerForTransfer(t, tr.ID)
	require.Len(t, movements, 1, "una salida por línea despachada")
	m := movements[0]
	assert.Equal(t, entity.MovementStatusCompleted, m.Status, "nace completado, sin paso pending")
	assert.True(t, m.Quantity.Equal(d("-50")), "salida = cantidad negativa")
	assert.Equal(t, "wh-origen", m.WarehouseID, "la salida ocurre en la bodega origen")
	assert.Equal(t, tr.TransferNumber, m.ReferenceNumber)
	assert.NotEmpty(t, m.MovementNumber)

	// Eventos: el movimiento y el despacho, después del commit.
	assert.Equal(t, []string{event.MovementCreated, event.TransferShipped}, f.notifier.types())
}

// Todo-o-nada: si una línea excede lo solicitado, ninguna se despacha.
func TestShipTransfer_ExcesoNoMutaNada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.approvedTransfer(t)
	_, err := f.uc.ShipTransfer(ctx, tenantA, tr.ID, userID, dto.ShipTransferRequest{
		Lines: []dto.ShipTransferLine{
			{LineID: tr.Lines[0].ID, ShippedQuantity: d("50")},
			{LineID: tr.Lines[1].ID, ShippedQuantity: d("21")}, // solicitadas: 20
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.uc.GetTransfer(ctx, tenantA, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, got.Status, "el traslado no avanzó")
	for _, l := range got.Lines {
		assert.True(t, l.ShippedQuantity.IsZero(), "ninguna línea quedó despachada")
	}
	assert.Empty(t, f.ledgerForTransfer(t, tr.ID), "el ledger no registró nada")
}

func TestShipTransfer_LineaDesconocidaEsNotFound(t *testing.T) {
	f := newFixture()

	tr := f.approvedTransfer(t)
	_, err := f.uc.ShipTransfer(context.Background(), tenantA, tr.ID, userID, dto.ShipTransferRequest{
		Lines: []dto.ShipTransferLine{{LineID: "no-existe", ShippedQuantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: recepción parcial de 30 sobre 50 despachados.
func TestReceiveTransfer_ParcialQuedaPartiallyReceived(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.approvedTransfer(t)
	f.shipAll(t, tr.ID)
	f.notifier.reset()

	received, err := f.uc.ReceiveTransfer(ctx, tenantA, tr.ID, userID, dto.ReceiveTransferRequest{
		Lines: []dto.ReceiveTransferLine{
			{LineID: tr.Lines[0].ID, ReceivedQuantity: d("30")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusPartiallyReceived, received.Status)
	assert.Nil(t, received.ActualDeliveryDate, "la entrega solo se marca al cerrar")
	line := received.Line(tr.Lines[0].ID)
	assert.True(t, line.ReceivedQuantity.Equal(d("30")))
	assert.Equal(t, entity.LineStatusPartiallyReceived, line.Status)

	// Ledger: la entrada de 30 en la bodega destino (más las 2 salidas del despacho).
	movements := f.ledgerForTransfer(t, tr.ID)
	require.Len(t, movements, 3)
	var inbound *entity.StockMovement
	for _, m := range movements {
		if m.Inbound() {
			inbound = m
		}
	}
	require.NotNil(t, inbound)
	assert.True(t, inbound.Quantity.Equal(d("30")))
	assert.Equal(t, "wh-destino", inbound.WarehouseID, "la entrada ocurre en la bodega destino")

	assert.Equal(t, []string{event.MovementCreated, event.TransferReceived}, f.notifier.types())
}

// Escenario: completar la recepción cierra el traslado.
func TestReceiveTransfer_TotalCierraElTraslado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.approvedTransfer(t)
	f.shipAll(t, tr.ID)

	_, err := f.uc.ReceiveTransfer(ctx, tenantA, tr.ID, userID, dto.ReceiveTransferRequest{
		Lines: []dto.ReceiveTransferLine{
			{LineID: tr.Lines[0].ID, ReceivedQuantity: d("30")},
			{LineID: tr.Lines[1].ID, ReceivedQuantity: d("20")},
		},
	})
	require.NoError(t, err)

	received, err := f.uc.ReceiveTransfer(ctx, tenantA, tr.ID, userID, dto.ReceiveTransferRequest{
		Lines: []dto.ReceiveTransferLine{
			{LineID: tr.Lines[0].ID, ReceivedQuantity: d("20")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusReceived, received.Status)
	assert.NotNil(t, received.ActualDeliveryDate)
	for _, l := range received.Lines {
		assert.Equal(t, entity.LineStatusReceived, l.Status)
	}

	// Recibir sobre un traslado cerrado es estado inválido.
	_, err = f.uc.ReceiveTransfer(ctx, tenantA, tr.ID, userID, dto.ReceiveTransferRequest{
		Lines: []dto.ReceiveTransferLine{{LineID: tr.Lines[0].ID, ReceivedQuantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Escenario: acreditar más de lo despachado es un error de validación.
func TestReceiveTransfer_ExcesoEsValidacion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.approvedTransfer(t)
	f.shipAll(t, tr.ID)

	_, err := f.uc.ReceiveTransfer(ctx, tenantA, tr.ID, userID, dto.ReceiveTransferRequest{
		Lines: []dto.ReceiveTransferLine{
			{LineID: tr.Lines[0].ID, ReceivedQuantity: d("30")},
		},
	})
	require.NoError(t, err)

	// Quedan 20 pendientes; 25 excede el saldo acumulado.
	_, err = f.uc.ReceiveTransfer(ctx, tenantA, tr.ID, userID, dto.ReceiveTransferRequest{
		Lines: []dto.ReceiveTransferLine{
			{LineID: tr.Lines[0].ID, ReceivedQuantity: d("25")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Y nada mutó: el acumulado sigue en 30.
	got, err := f.uc.GetTransfer(ctx, tenantA, tr.ID)
	require.NoError(t, err)
	assert.True(t, got.Line(tr.Lines[0].ID).ReceivedQuantity.Equal(d("30")))
}

// Duplicar la misma línea dentro de una petición también valida el acumulado.
func TestReceiveTransfer_DuplicadosEnLaMismaPeticion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.approvedTransfer(t)
	f.shipAll(t, tr.ID)

	// 30 + 25 = 55 > 50 despachadas: falla aunque cada entrada por separado quepa.
	_, err := f.uc.ReceiveTransfer(ctx, tenantA, tr.ID, userID, dto.ReceiveTransferRequest{
		Lines: []dto.ReceiveTransferLine{
			{LineID: tr.Lines[0].ID, ReceivedQuantity: d("30")},
			{LineID: tr.Lines[0].ID, ReceivedQuantity: d("25")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, f.ledgerForTransfer(t, tr.ID), 2, "solo las salidas del despacho")
}

// Dos recepciones totales concurrentes sobre el mismo despacho: exactamente
// una acredita; la otra ve el traslado ya cerrado. Sin serialización por
// traslado ambas validarían sobre copias desactualizadas y el destino quedaría
// acreditado al doble de lo despachado.
func TestReceiveTransfer_ConcurrentesNoAcreditanDoble(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.approvedTransfer(t)
	f.shipAll(t, tr.ID)

	fullReceive := dto.ReceiveTransferRequest{
		Lines: []dto.ReceiveTransferLine{
			{LineID: tr.Lines[0].ID, ReceivedQuantity: d("50")},
			{LineID: tr.Lines[1].ID, ReceivedQuantity: d("20")},
		},
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.ReceiveTransfer(ctx, tenantA, tr.ID, userID, fullReceive)
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidState, "la recepción perdedora ve el traslado cerrado")
		}
	}
	assert.Equal(t, 1, okCount, "solo una recepción total puede tener éxito")

	// El acumulado nunca supera lo despachado y el ledger conserva cantidades.
	got, err := f.uc.GetTransfer(ctx, tenantA, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, got.Status)
	assert.True(t, got.Line(tr.Lines[0].ID).ReceivedQuantity.Equal(d("50")))
	assert.True(t, got.Line(tr.Lines[1].ID).ReceivedQuantity.Equal(d("20")))

	var inboundTotal decimal.Decimal
	for _, m := range f.ledgerForTransfer(t, tr.ID) {
		if m.Inbound() {
			inboundTotal = inboundTotal.Add(m.Quantity)
		}
	}
	assert.True(t, inboundTotal.Equal(d("70")), "las entradas igualan lo despachado, sin doble acreditación")
}

// Lo dañado acredita contra lo despachado pero no ingresa al destino.
func TestReceiveTransfer_DanadoNoEntraAlStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.approvedTransfer(t)
	f.shipAll(t, tr.ID)

	received, err := f.uc.ReceiveTransfer(ctx, tenantA, tr.ID, userID, dto.ReceiveTransferRequest{
		Lines: []dto.ReceiveTransferLine{
			{LineID: tr.Lines[0].ID, ReceivedQuantity: d("45"), DamagedQuantity: d("5")},
			{LineID: tr.Lines[1].ID, ReceivedQuantity: d("20")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, received.Status,
		"recibido + dañado cubre lo despachado en ambas líneas")

	// Conservación: salidas -50 y -20; entradas +45 y +20. Los 5 dañados no entran.
	var inboundTotal, outboundTotal decimal.Decimal
	for _, m := range f.ledgerForTransfer(t, tr.ID) {
		if m.Inbound() {
			inboundTotal = inboundTotal.Add(m.Quantity)
		} else {
			outboundTotal = outboundTotal.Add(m.Quantity)
		}
	}
	assert.True(t, outboundTotal.Equal(d("-70")))
	assert.True(t, inboundTotal.Equal(d("65")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: cancelar un borrador no deja rastro en el ledger.
func TestCancelTransfer_BorradorSinEfectosEnLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr, err := f.uc.CreateTransfer(ctx, tenantA, userID, userName, transferRequest(false))
	require.NoError(t, err)

	cancelled, err := f.uc.CancelTransfer(ctx, tenantA, tr.ID, "ya no se necesita")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)
	assert.Equal(t, "ya no se necesita", cancelled.Metadata[transfer.MetadataCancellationReason])
	for _, l := range cancelled.Lines {
		assert.Equal(t, entity.LineStatusCancelled, l.Status)
	}
	assert.Empty(t, f.ledgerForTransfer(t, tr.ID))

	// La segunda cancelación falla sin mutar nada.
	_, err = f.uc.CancelTransfer(ctx, tenantA, tr.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// Un traslado en tránsito no se cancela: el stock ya salió del origen.
func TestCancelTransfer_EnTransitoNoSeCancela(t *testing.T) {
	f := newFixture()

	tr := f.approvedTransfer(t)
	f.shipAll(t, tr.ID)

	_, err := f.uc.CancelTransfer(context.Background(), tenantA, tr.ID, "cambio de planes")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento por tenant y búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_TenantAjenoEsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tr := f.approvedTransfer(t)

	_, err := f.uc.GetTransfer(ctx, tenantB, tr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.ShipTransfer(ctx, tenantB, tr.ID, userID, dto.ShipTransferRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.CancelTransfer(ctx, tenantB, tr.ID, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchTransfers_FiltraPorEstadoYTexto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	draft, err := f.uc.CreateTransfer(ctx, tenantA, userID, userName, transferRequest(false))
	require.NoError(t, err)
	f.approvedTransfer(t)

	list, total, err := f.uc.SearchTransfers(ctx, tenantA, dto.TransferSearchRequest{
		Status: entity.TransferStatusDraft,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, draft.ID, list[0].ID)

	// Texto libre sobre el número de traslado.
	list, total, err = f.uc.SearchTransfers(ctx, tenantA, dto.TransferSearchRequest{
		Search: draft.TransferNumber,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, draft.ID, list[0].ID)

	_, total, err = f.uc.SearchTransfers(ctx, tenantB, dto.TransferSearchRequest{})
	require.NoError(t, err)
	assert.Zero(t, total, "el tenant B no ve traslados ajenos")
}

// Los consecutivos de movimiento generados por despacho y recepción comparten
// el contador del ledger del tenant.
func TestTransfer_NumeracionDeMovimientosCompartida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Un movimiento manual primero: toma MOV-...-00000001.
	cost := d("1")
	_, err := f.ledger.CreateMovement(ctx, tenantA, dto.CreateMovementRequest{
		Type:        entity.MovementTypeReceipt,
		WarehouseID: "wh-origen",
		ItemID:      "item-9",
		Quantity:    d("1"),
		UnitCost:    &cost,
	})
	require.NoError(t, err)

	tr := f.approvedTransfer(t)
	f.shipAll(t, tr.ID)

	numbers := make(map[string]bool)
	for _, m := range f.ledgerForTransfer(t, tr.ID) {
		numbers[m.MovementNumber] = true
	}
	assert.True(t, numbers["MOV-2025-00000002"])
	assert.True(t, numbers["MOV-2025-00000003"])
}
