package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CreateMovementRequest body para POST /api/movements. Las ubicaciones son
// opcionales al crear; se validan según tipo al ejecutar.
type CreateMovementRequest struct {
	Type            string `json:"type"`
	Reason          string `json:"reason"`
	ReferenceType   string `json:"reference_type,omitempty"`
	ReferenceID     string `json:"reference_id,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`

	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`

	FromLocationID   string `json:"from_location_id,omitempty"`
	FromLocationCode string `json:"from_location_code,omitempty"`
	ToLocationID     string `json:"to_location_id,omitempty"`
	ToLocationCode   string `json:"to_location_code,omitempty"`

	ItemID   string `json:"item_id"`
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`

	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure"`

	LotNumber    string     `json:"lot_number,omitempty"`
	BatchNumber  string     `json:"batch_number,omitempty"`
	SerialNumber string     `json:"serial_number,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`

	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}

// CancelMovementRequest body para POST /api/movements/:id/cancel.
type CancelMovementRequest struct {
	Reason string `json:"reason"`
}

// MovementSearchRequest filtros de búsqueda vía query params.
type MovementSearchRequest struct {
	Type          string     `query:"type"`
	Status        string     `query:"status"`
	WarehouseID   string     `query:"warehouse_id"`
	ItemID        string     `query:"item_id"`
	LocationID    string     `query:"location_id"`
	ReferenceType string     `query:"reference_type"`
	ReferenceID   string     `query:"reference_id"`
	DateFrom      *time.Time `query:"date_from"`
	DateTo        *time.Time `query:"date_to"`
	PageRequest
}

// MovementResponse representación JSON de un movimiento del ledger.
type MovementResponse struct {
	ID             string `json:"id"`
	MovementNumber string `json:"movement_number"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	Reason         string `json:"reason"`

	ReferenceType   string `json:"reference_type,omitempty"`
	ReferenceID     string `json:"reference_id,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`

	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`

	FromLocationID   string `json:"from_location_id,omitempty"`
	FromLocationCode string `json:"from_location_code,omitempty"`
	ToLocationID     string `json:"to_location_id,omitempty"`
	ToLocationCode   string `json:"to_location_code,omitempty"`

	ItemID   string `json:"item_id"`
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`

	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure"`

	LotNumber    string     `json:"lot_number,omitempty"`
	BatchNumber  string     `json:"batch_number,omitempty"`
	SerialNumber string     `json:"serial_number,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`

	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost *decimal.Decimal `json:"total_cost,omitempty"`

	Notes string `json:"notes,omitempty"`

	PerformedBy     string     `json:"performed_by"`
	PerformedByName string     `json:"performed_by_name"`
	PerformedAt     *time.Time `json:"performed_at,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromMovement mapea la entidad al DTO de respuesta.
func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		MovementNumber:   m.MovementNumber,
		Type:             m.Type,
		Status:           m.Status,
		Reason:           m.Reason,
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		ReferenceNumber:  m.ReferenceNumber,
		WarehouseID:      m.WarehouseID,
		WarehouseName:    m.WarehouseName,
		FromLocationID:   m.FromLocationID,
		FromLocationCode: m.FromLocationCode,
		ToLocationID:     m.ToLocationID,
		ToLocationCode:   m.ToLocationCode,
		ItemID:           m.ItemID,
		ItemCode:         m.ItemCode,
		ItemName:         m.ItemName,
		Quantity:         m.Quantity,
		UnitOfMeasure:    m.UnitOfMeasure,
		LotNumber:        m.LotNumber,
		BatchNumber:      m.BatchNumber,
		SerialNumber:     m.SerialNumber,
		ExpiryDate:       m.ExpiryDate,
		UnitCost:         m.UnitCost,
		TotalCost:        m.TotalCost,
		Notes:            m.Notes,
		PerformedBy:      m.PerformedBy,
		PerformedByName:  m.PerformedByName,
		PerformedAt:      m.PerformedAt,
		Metadata:         m.Metadata,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromMovements mapea una lista de entidades.
func FromMovements(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromMovement(m))
	}
	return out
}
