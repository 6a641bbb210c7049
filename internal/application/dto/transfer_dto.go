package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromWarehouseID   string `json:"from_warehouse_id"`
	FromWarehouseName string `json:"from_warehouse_name"`
	ToWarehouseID     string `json:"to_warehouse_id"`
	ToWarehouseName   string `json:"to_warehouse_name"`

	Lines []CreateTransferLine `json:"lines"`

	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	RequiresApproval     bool       `json:"requires_approval"`
}

// CreateTransferLine línea solicitada dentro de un traslado nuevo.
type CreateTransferLine struct {
	ItemID   string `json:"item_id"`
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`

	FromLocationID   string `json:"from_location_id,omitempty"`
	FromLocationCode string `json:"from_location_code,omitempty"`

	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	UnitOfMeasure     string          `json:"unit_of_measure"`

	LotNumber     string   `json:"lot_number,omitempty"`
	BatchNumber   string   `json:"batch_number,omitempty"`
	SerialNumbers []string `json:"serial_numbers,omitempty"`

	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}

// ShipTransferRequest body para POST /api/transfers/:id/ship.
// Cada línea referencia un line_id devuelto por la creación del traslado.
type ShipTransferRequest struct {
	Lines []ShipTransferLine `json:"lines"`

	CarrierName    string `json:"carrier_name,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// ShipTransferLine cantidad despachada por línea.
type ShipTransferLine struct {
	LineID          string          `json:"line_id"`
	ShippedQuantity decimal.Decimal `json:"shipped_quantity"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	ToLocationCode  string          `json:"to_location_code,omitempty"`
}

// ReceiveTransferRequest body para POST /api/transfers/:id/receive.
// Puede llamarse varias veces por traslado: cada llamada solo extiende los
// acumulados de recibido/dañado, nunca los reinicia.
type ReceiveTransferRequest struct {
	Lines []ReceiveTransferLine `json:"lines"`
}

// ReceiveTransferLine cantidades acreditadas por línea en esta recepción.
type ReceiveTransferLine struct {
	LineID           string          `json:"line_id"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	DamagedQuantity  decimal.Decimal `json:"damaged_quantity"`
	ToLocationID     string          `json:"to_location_id,omitempty"`
	ToLocationCode   string          `json:"to_location_code,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// CancelTransferRequest body para POST /api/transfers/:id/cancel.
type CancelTransferRequest struct {
	Reason string `json:"reason"`
}

// TransferSearchRequest filtros de búsqueda vía query params.
type TransferSearchRequest struct {
	Status          string     `query:"status"`
	FromWarehouseID string     `query:"from_warehouse_id"`
	ToWarehouseID   string     `query:"to_warehouse_id"`
	DateFrom        *time.Time `query:"date_from"`
	DateTo          *time.Time `query:"date_to"`
	Search          string     `query:"search"`
	PageRequest
}

// TransferLineResponse representación JSON de una línea.
type TransferLineResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`

	FromLocationID   string `json:"from_location_id,omitempty"`
	FromLocationCode string `json:"from_location_code,omitempty"`
	ToLocationID     string `json:"to_location_id,omitempty"`
	ToLocationCode   string `json:"to_location_code,omitempty"`

	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	ShippedQuantity   decimal.Decimal `json:"shipped_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	DamagedQuantity   decimal.Decimal `json:"damaged_quantity"`

	UnitOfMeasure string   `json:"unit_of_measure"`
	LotNumber     string   `json:"lot_number,omitempty"`
	BatchNumber   string   `json:"batch_number,omitempty"`
	SerialNumbers []string `json:"serial_numbers,omitempty"`

	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	LineValue *decimal.Decimal `json:"line_value,omitempty"`

	Notes  string `json:"notes,omitempty"`
	Status string `json:"status"`
}

// TransferResponse representación JSON de un traslado.
type TransferResponse struct {
	ID             string `json:"id"`
	TransferNumber string `json:"transfer_number"`
	Status         string `json:"status"`

	FromWarehouseID   string `json:"from_warehouse_id"`
	FromWarehouseName string `json:"from_warehouse_name"`
	ToWarehouseID     string `json:"to_warehouse_id"`
	ToWarehouseName   string `json:"to_warehouse_name"`

	Lines []TransferLineResponse `json:"lines"`

	TotalItems     int             `json:"total_items"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`

	RequestedDate        *time.Time `json:"requested_date,omitempty"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	ActualShipDate       *time.Time `json:"actual_ship_date,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actual_delivery_date,omitempty"`

	CarrierName    string `json:"carrier_name,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Notes          string `json:"notes,omitempty"`

	RequiresApproval bool `json:"requires_approval"`

	RequestedBy     string     `json:"requested_by"`
	RequestedByName string     `json:"requested_by_name"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ShippedBy       string     `json:"shipped_by,omitempty"`
	ShippedAt       *time.Time `json:"shipped_at,omitempty"`
	ReceivedBy      string     `json:"received_by,omitempty"`
	ReceivedAt      *time.Time `json:"received_at,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromTransfer mapea la entidad al DTO de respuesta.
func FromTransfer(t *entity.StockTransfer) TransferResponse {
	lines := make([]TransferLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, TransferLineResponse{
			ID:                l.ID,
			ItemID:            l.ItemID,
			ItemCode:          l.ItemCode,
			ItemName:          l.ItemName,
			FromLocationID:    l.FromLocationID,
			FromLocationCode:  l.FromLocationCode,
			ToLocationID:      l.ToLocationID,
			ToLocationCode:    l.ToLocationCode,
			RequestedQuantity: l.RequestedQuantity,
			ShippedQuantity:   l.ShippedQuantity,
			ReceivedQuantity:  l.ReceivedQuantity,
			DamagedQuantity:   l.DamagedQuantity,
			UnitOfMeasure:     l.UnitOfMeasure,
			LotNumber:         l.LotNumber,
			BatchNumber:       l.BatchNumber,
			SerialNumbers:     l.SerialNumbers,
			UnitCost:          l.UnitCost,
			LineValue:         l.LineValue,
			Notes:             l.Notes,
			Status:            l.Status,
		})
	}
	return TransferResponse{
		ID:                   t.ID,
		TransferNumber:       t.TransferNumber,
		Status:               t.Status,
		FromWarehouseID:      t.FromWarehouseID,
		FromWarehouseName:    t.FromWarehouseName,
		ToWarehouseID:        t.ToWarehouseID,
		ToWarehouseName:      t.ToWarehouseName,
		Lines:                lines,
		TotalItems:           t.TotalItems,
		TotalQuantity:        t.TotalQuantity,
		EstimatedValue:       t.EstimatedValue,
		RequestedDate:        t.RequestedDate,
		ExpectedDeliveryDate: t.ExpectedDeliveryDate,
		ActualShipDate:       t.ActualShipDate,
		ActualDeliveryDate:   t.ActualDeliveryDate,
		CarrierName:          t.CarrierName,
		TrackingNumber:       t.TrackingNumber,
		Notes:                t.Notes,
		RequiresApproval:     t.RequiresApproval,
		RequestedBy:          t.RequestedBy,
		RequestedByName:      t.RequestedByName,
		ApprovedBy:           t.ApprovedBy,
		ApprovedAt:           t.ApprovedAt,
		ShippedBy:            t.ShippedBy,
		ShippedAt:            t.ShippedAt,
		ReceivedBy:           t.ReceivedBy,
		ReceivedAt:           t.ReceivedAt,
		Metadata:             t.Metadata,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// FromTransfers mapea una lista de entidades.
func FromTransfers(list []*entity.StockTransfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, FromTransfer(t))
	}
	return out
}
