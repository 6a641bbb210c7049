package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del traslado entre bodegas.
const (
	TransferStatusDraft             = "draft"
	TransferStatusPendingApproval   = "pending_approval"
	TransferStatusApproved          = "approved"
	TransferStatusInTransit         = "in_transit"
	TransferStatusPartiallyReceived = "partially_received"
	TransferStatusReceived          = "received"
	TransferStatusCancelled         = "cancelled"
)

// Estados de una línea de traslado.
const (
	LineStatusPending           = "pending"
	LineStatusShipped           = "shipped"
	LineStatusPartiallyReceived = "partially_received"
	LineStatusReceived          = "received"
	LineStatusCancelled         = "cancelled"
)

// TransferLine es la unidad de conservación de cantidades de un traslado.
// Invariantes tras cada mutación:
//
//	0 <= ShippedQuantity <= RequestedQuantity
//	ReceivedQuantity + DamagedQuantity <= ShippedQuantity  (acumulado)
type TransferLine struct {
	ID       string
	ItemID   string
	ItemCode string
	ItemName string

	FromLocationID   string
	FromLocationCode string
	ToLocationID     string
	ToLocationCode   string

	RequestedQuantity decimal.Decimal // techo inmutable
	ShippedQuantity   decimal.Decimal
	ReceivedQuantity  decimal.Decimal
	DamagedQuantity   decimal.Decimal

	UnitOfMeasure string
	LotNumber     string
	BatchNumber   string
	SerialNumbers []string

	UnitCost  *decimal.Decimal
	LineValue *decimal.Decimal // UnitCost * RequestedQuantity al crear

	Notes  string
	Status string
}

// RemainingToReceive devuelve lo enviado aún no acreditado (recibido + dañado).
func (l *TransferLine) RemainingToReceive() decimal.Decimal {
	return l.ShippedQuantity.Sub(l.ReceivedQuantity).Sub(l.DamagedQuantity)
}

// FullyAccounted indica si todo lo enviado ya fue recibido o declarado dañado.
func (l *TransferLine) FullyAccounted() bool {
	return l.ShippedQuantity.GreaterThan(decimal.Zero) &&
		l.ReceivedQuantity.Add(l.DamagedQuantity).GreaterThanOrEqual(l.ShippedQuantity)
}

// Terminal indica si la línea ya no admite más mutaciones.
func (l *TransferLine) Terminal() bool {
	return l.Status == LineStatusReceived || l.Status == LineStatusCancelled
}

// StockTransfer es una solicitud multi-línea de mover stock entre dos bodegas
// distintas. Su Status se deriva siempre del conjunto de estados de las líneas:
// nunca se fija de forma independiente fuera de las operaciones del orquestador.
type StockTransfer struct {
	ID             string
	TenantID       string
	TransferNumber string // XFER-YYYY-######, secuencial por tenant
	Status         string

	FromWarehouseID   string
	FromWarehouseName string
	ToWarehouseID     string
	ToWarehouseName   string

	Lines []*TransferLine

	// Agregados derivados de las líneas al momento de crear. No se recalculan
	// tras envíos o recepciones parciales: los consumidores los tratan como
	// estimaciones puntuales.
	TotalItems     int
	TotalQuantity  decimal.Decimal
	EstimatedValue decimal.Decimal

	RequestedDate        *time.Time
	ExpectedDeliveryDate *time.Time
	ActualShipDate       *time.Time
	ActualDeliveryDate   *time.Time

	CarrierName    string
	TrackingNumber string
	Notes          string

	RequiresApproval bool // fijado al crear, inmutable

	RequestedBy     string
	RequestedByName string
	ApprovedBy      string
	ApprovedAt      *time.Time
	ShippedBy       string
	ShippedAt       *time.Time
	ReceivedBy      string
	ReceivedAt      *time.Time

	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Line busca una línea por id. Devuelve nil si no existe.
func (t *StockTransfer) Line(lineID string) *TransferLine {
	for _, l := range t.Lines {
		if l.ID == lineID {
			return l
		}
	}
	return nil
}

// SetMetadata asigna una clave de metadata, inicializando el mapa si hace falta.
func (t *StockTransfer) SetMetadata(key, value string) {
	if t.Metadata == nil {
		t.Metadata = make(map[string]string)
	}
	t.Metadata[key] = value
}

// DeriveReceiptStatus recalcula el estado agregado tras una recepción, como
// función pura de los estados de las líneas: received si todas las líneas
// quedaron received o cancelled, partially_received si alguna avanzó.
// Devuelve el estado actual si ninguna condición aplica.
func (t *StockTransfer) DeriveReceiptStatus() string {
	all := true
	some := false
	for _, l := range t.Lines {
		switch l.Status {
		case LineStatusReceived:
			some = true
		case LineStatusCancelled:
			// no bloquea el cierre
		case LineStatusPartiallyReceived:
			some = true
			all = false
		default:
			all = false
		}
	}
	if all {
		return TransferStatusReceived
	}
	if some {
		return TransferStatusPartiallyReceived
	}
	return t.Status
}
