package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransferFilter criterios de búsqueda de traslados. Search aplica texto libre
// sobre número de traslado y nombres de bodega.
type TransferFilter struct {
	Status          string
	FromWarehouseID string
	ToWarehouseID   string
	DateFrom        *time.Time
	DateTo          *time.Time
	Search          string
}

// TransferRepository define el puerto de persistencia de traslados con sus
// líneas. Get/GetForUpdate devuelven (nil, nil) si el id no existe o pertenece
// a otro tenant.
type TransferRepository interface {
	Create(t *entity.StockTransfer) error
	Get(tenantID, id string) (*entity.StockTransfer, error)
	// GetForUpdate bloquea el traslado para la transacción en curso: ship,
	// receive y cancel leen-modifican-escriben el conjunto completo de líneas
	// y deben serializarse por traslado.
	GetForUpdate(tenantID, id string) (*entity.StockTransfer, error)
	// Update persiste el encabezado y todas las líneas.
	Update(t *entity.StockTransfer) error
	Search(tenantID string, filter TransferFilter, limit, offset int) ([]*entity.StockTransfer, int, error)
}
