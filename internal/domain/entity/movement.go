package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

// Mensajes de validación de ubicaciones (contrato con el transporte).
var (
	errToLocationRequired    = domain.Validationf("to location required")
	errFromLocationRequired  = domain.Validationf("from location required")
	errBothLocationsRequired = domain.Validationf("both from and to locations required")
)

// Tipos de movimiento de stock.
const (
	MovementTypeReceipt       = "receipt"
	MovementTypeIssue         = "issue"
	MovementTypeTransfer      = "transfer"
	MovementTypeAdjustment    = "adjustment"
	MovementTypeReturn        = "return"
	MovementTypeScrap         = "scrap"
	MovementTypeCycleCount    = "cycle_count"
	MovementTypePutaway       = "putaway"
	MovementTypePick          = "pick"
	MovementTypeReplenishment = "replenishment"
)

// Estados del ciclo de vida de un movimiento.
const (
	MovementStatusPending    = "pending"
	MovementStatusInProgress = "in_progress"
	MovementStatusCompleted  = "completed"
	MovementStatusCancelled  = "cancelled"
	MovementStatusFailed     = "failed"
)

// Razones de movimiento.
const (
	ReasonPurchase       = "purchase"
	ReasonSales          = "sales"
	ReasonProduction     = "production"
	ReasonQualityIssue   = "quality_issue"
	ReasonDamaged        = "damaged"
	ReasonExpired        = "expired"
	ReasonRecount        = "recount"
	ReasonCorrection     = "correction"
	ReasonRelocation     = "relocation"
	ReasonReplenishment  = "replenishment"
	ReasonCustomerReturn = "customer_return"
	ReasonSupplierReturn = "supplier_return"
	ReasonOther          = "other"
)

// ValidMovementType indica si el tipo es uno de los soportados.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeReceipt, MovementTypeIssue, MovementTypeTransfer,
		MovementTypeAdjustment, MovementTypeReturn, MovementTypeScrap,
		MovementTypeCycleCount, MovementTypePutaway, MovementTypePick,
		MovementTypeReplenishment:
		return true
	}
	return false
}

// StockMovement representa un cambio físico atómico de stock. Una vez completado
// es un hecho histórico inmutable: solo cambian status y timestamps terminales,
// nunca la cantidad ni su signo (positivo = entrada a ToLocation, negativo =
// salida de FromLocation).
type StockMovement struct {
	ID             string
	TenantID       string
	MovementNumber string // MOV-YYYY-########, secuencial por tenant
	Type           string
	Status         string
	Reason         string

	// Referencia débil a la entidad causante (ej. un traslado). Nunca es una
	// arista de propiedad: el ledger sigue siendo válido si la referencia se purga.
	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string

	WarehouseID   string
	WarehouseName string

	FromLocationID   string
	FromLocationCode string
	ToLocationID     string
	ToLocationCode   string

	ItemID   string
	ItemCode string
	ItemName string

	Quantity      decimal.Decimal
	UnitOfMeasure string

	LotNumber    string
	BatchNumber  string
	SerialNumber string
	ExpiryDate   *time.Time

	UnitCost  *decimal.Decimal
	TotalCost *decimal.Decimal // UnitCost * Quantity, calculado al crear

	Notes string

	PerformedBy     string
	PerformedByName string
	PerformedAt     *time.Time // solo se marca al completar
	ApprovedBy      string
	ApprovedAt      *time.Time

	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Inbound indica si el movimiento suma stock en su destino.
func (m *StockMovement) Inbound() bool {
	return m.Quantity.GreaterThan(decimal.Zero)
}

// SetMetadata asigna una clave de metadata, inicializando el mapa si hace falta.
func (m *StockMovement) SetMetadata(key, value string) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
}

// ValidateLocations aplica las reglas de ubicación por tipo. Se invoca al
// ejecutar, no al crear: un movimiento puede redactarse antes de tener sus
// ubicaciones definitivas.
func (m *StockMovement) ValidateLocations() error {
	switch m.Type {
	case MovementTypeReceipt, MovementTypePutaway:
		if m.ToLocationID == "" {
			return errToLocationRequired
		}
	case MovementTypeIssue, MovementTypePick:
		if m.FromLocationID == "" {
			return errFromLocationRequired
		}
	case MovementTypeTransfer:
		if m.FromLocationID == "" || m.ToLocationID == "" {
			return errBothLocationsRequired
		}
	}
	return nil
}
