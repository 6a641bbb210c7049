// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, para desarrollo sin base de datos y para las pruebas de los casos
// de uso. Run retiene un mutex de transacción durante todo el callback, así
// dos Run concurrentes nunca se entrelazan: equivale a una transacción
// serializable sin rollback, por lo que los casos de uso validan todo antes
// de mutar.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/sequence"
)

var (
	_ ports.TxRunner                = (*Store)(nil)
	_ sequence.CounterStore         = (*Store)(nil)
	_ repository.MovementRepository = (*MovementStore)(nil)
	_ repository.TransferRepository = (*TransferStore)(nil)
)

// Store es el contenedor de datos compartido. Expone vistas tipadas por puerto
// (Movements, Transfers) porque ambos repos declaran métodos homónimos con
// firmas distintas.
type Store struct {
	// txMu serializa transacciones completas (Run); mu protege cada acceso
	// individual a los mapas. Son mutexes distintos para que los métodos de
	// las vistas no se bloqueen a sí mismos dentro de un Run.
	txMu      sync.Mutex
	mu        sync.Mutex
	movements map[string]*entity.StockMovement
	transfers map[string]*entity.StockTransfer
	counters  map[string]int64 // clave: tenantID + "/" + kind
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		movements: make(map[string]*entity.StockMovement),
		transfers: make(map[string]*entity.StockTransfer),
		counters:  make(map[string]int64),
	}
}

// Movements devuelve la vista MovementRepository del store.
func (s *Store) Movements() *MovementStore { return &MovementStore{s: s} }

// Transfers devuelve la vista TransferRepository del store.
func (s *Store) Transfers() *TransferStore { return &TransferStore{s: s} }

// Run ejecuta fn con las vistas del propio store reteniendo el mutex de
// transacción de principio a fin. GetForUpdate dentro de un Run equivale así
// a un bloqueo exclusivo de la fila: ningún otro Run puede leer-validar-mutar
// el mismo traslado en paralelo sobre copias desactualizadas.
func (s *Store) Run(_ context.Context, fn func(
	movements repository.MovementRepository,
	transfers repository.TransferRepository,
	counters sequence.CounterStore,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s.Movements(), s.Transfers(), s)
}

// Next devuelve el siguiente consecutivo del contador (tenant, kind).
func (s *Store) Next(tenantID, kind string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tenantID + "/" + kind
	s.counters[key]++
	return s.counters[key], nil
}

// ── MovementStore ─────────────────────────────────────────────────────────────

// MovementStore es la vista MovementRepository de un Store.
type MovementStore struct {
	s *Store
}

// Create guarda una copia del movimiento.
func (r *MovementStore) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.movements[m.ID] = copyMovement(m)
	return nil
}

// Get devuelve una copia del movimiento. (nil, nil) si no existe en el tenant.
func (r *MovementStore) Get(tenantID, id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok || m.TenantID != tenantID {
		return nil, nil
	}
	return copyMovement(m), nil
}

// GetForUpdate equivale a Get: la exclusión real la da el mutex de
// transacción que Run retiene durante todo el callback.
func (r *MovementStore) GetForUpdate(tenantID, id string) (*entity.StockMovement, error) {
	return r.Get(tenantID, id)
}

// Update reemplaza el movimiento almacenado por una copia del recibido.
func (r *MovementStore) Update(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements[m.ID] = copyMovement(m)
	return nil
}

// Search filtra, ordena por created_at descendente y pagina.
func (r *MovementStore) Search(tenantID string, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID != tenantID || !matchMovement(m, f) {
			continue
		}
		matched = append(matched, m)
	}
	sortMovementsDesc(matched)

	total := len(matched)
	matched = page(matched, limit, offset)
	return copyMovements(matched), total, nil
}

// ListCompletedByItem devuelve solo movimientos completed del ítem, más
// recientes primero, hasta limit.
func (r *MovementStore) ListCompletedByItem(tenantID, itemID, warehouseID string, limit int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID != tenantID || m.ItemID != itemID || m.Status != entity.MovementStatusCompleted {
			continue
		}
		if warehouseID != "" && m.WarehouseID != warehouseID {
			continue
		}
		matched = append(matched, m)
	}
	sortMovementsDesc(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return copyMovements(matched), nil
}

// ListByWarehouseRange devuelve los movimientos de la bodega dentro del rango.
func (r *MovementStore) ListByWarehouseRange(tenantID, warehouseID string, from, to time.Time) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.TenantID != tenantID || m.WarehouseID != warehouseID {
			continue
		}
		if m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		matched = append(matched, m)
	}
	sortMovementsDesc(matched)
	return copyMovements(matched), nil
}

func matchMovement(m *entity.StockMovement, f repository.MovementFilter) bool {
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
		return false
	}
	if f.ItemID != "" && m.ItemID != f.ItemID {
		return false
	}
	if f.LocationID != "" && m.FromLocationID != f.LocationID && m.ToLocationID != f.LocationID {
		return false
	}
	if f.ReferenceType != "" && m.ReferenceType != f.ReferenceType {
		return false
	}
	if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
		return false
	}
	if f.DateFrom != nil && m.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && m.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}

func sortMovementsDesc(list []*entity.StockMovement) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			// desempate para created_at idénticos (reloj inyectado en pruebas)
			return list[i].MovementNumber > list[j].MovementNumber
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// ── TransferStore ─────────────────────────────────────────────────────────────

// TransferStore es la vista TransferRepository de un Store.
type TransferStore struct {
	s *Store
}

// Create guarda una copia del traslado con sus líneas.
func (r *TransferStore) Create(t *entity.StockTransfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	r.s.transfers[t.ID] = copyTransfer(t)
	return nil
}

// Get devuelve una copia del traslado. (nil, nil) si no existe en el tenant.
func (r *TransferStore) Get(tenantID, id string) (*entity.StockTransfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transfers[id]
	if !ok || t.TenantID != tenantID {
		return nil, nil
	}
	return copyTransfer(t), nil
}

// GetForUpdate equivale a Get: la exclusión real la da el mutex de
// transacción que Run retiene durante todo el callback.
func (r *TransferStore) GetForUpdate(tenantID, id string) (*entity.StockTransfer, error) {
	return r.Get(tenantID, id)
}

// Update reemplaza el traslado almacenado (encabezado y líneas) por una copia.
func (r *TransferStore) Update(t *entity.StockTransfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transfers[t.ID] = copyTransfer(t)
	return nil
}

// Search filtra, ordena por created_at descendente y pagina.
func (r *TransferStore) Search(tenantID string, f repository.TransferFilter, limit, offset int) ([]*entity.StockTransfer, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*entity.StockTransfer
	for _, t := range r.s.transfers {
		if t.TenantID != tenantID || !matchTransfer(t, f) {
			continue
		}
		matched = append(matched, t)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].TransferNumber > matched[j].TransferNumber
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	matched = page(matched, limit, offset)
	result := make([]*entity.StockTransfer, len(matched))
	for i, t := range matched {
		result[i] = copyTransfer(t)
	}
	return result, total, nil
}

func matchTransfer(t *entity.StockTransfer, f repository.TransferFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.FromWarehouseID != "" && t.FromWarehouseID != f.FromWarehouseID {
		return false
	}
	if f.ToWarehouseID != "" && t.ToWarehouseID != f.ToWarehouseID {
		return false
	}
	if f.DateFrom != nil && t.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.CreatedAt.After(*f.DateTo) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.TransferNumber), needle) &&
			!strings.Contains(strings.ToLower(t.FromWarehouseName), needle) &&
			!strings.Contains(strings.ToLower(t.ToWarehouseName), needle) {
			return false
		}
	}
	return true
}

// ── copias ────────────────────────────────────────────────────────────────────

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

func copyMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	c.Metadata = copyMap(m.Metadata)
	return &c
}

func copyMovements(list []*entity.StockMovement) []*entity.StockMovement {
	result := make([]*entity.StockMovement, len(list))
	for i, m := range list {
		result[i] = copyMovement(m)
	}
	return result
}

func copyTransfer(t *entity.StockTransfer) *entity.StockTransfer {
	c := *t
	c.Metadata = copyMap(t.Metadata)
	c.Lines = make([]*entity.TransferLine, len(t.Lines))
	for i, l := range t.Lines {
		lc := *l
		lc.SerialNumbers = append([]string(nil), l.SerialNumbers...)
		c.Lines[i] = &lc
	}
	return &c
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
