package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementFilter criterios de búsqueda sobre el ledger de movimientos.
// Los campos vacíos no filtran.
type MovementFilter struct {
	Type          string
	Status        string
	WarehouseID   string
	ItemID        string
	LocationID    string // coincide con from o to
	ReferenceType string
	ReferenceID   string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// MovementRepository define el puerto de persistencia del ledger (DIP).
// Get/GetForUpdate devuelven (nil, nil) si el id no existe o pertenece a otro
// tenant; el caso de uso lo traduce a ErrNotFound.
type MovementRepository interface {
	Create(m *entity.StockMovement) error
	Get(tenantID, id string) (*entity.StockMovement, error)
	// GetForUpdate bloquea el registro para la transacción en curso
	// (SELECT FOR UPDATE); ejecutar y cancelar mutan un único registro.
	GetForUpdate(tenantID, id string) (*entity.StockMovement, error)
	Update(m *entity.StockMovement) error
	// Search devuelve la página (orden: más recientes primero) y el total.
	Search(tenantID string, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error)
	// ListCompletedByItem devuelve solo movimientos completed, más recientes
	// primero, hasta limit. warehouseID vacío no filtra.
	ListCompletedByItem(tenantID, itemID, warehouseID string, limit int) ([]*entity.StockMovement, error)
	// ListByWarehouseRange devuelve los movimientos de una bodega en un rango
	// de fechas (para agregaciones).
	ListByWarehouseRange(tenantID, warehouseID string, from, to time.Time) ([]*entity.StockMovement, error)
}
