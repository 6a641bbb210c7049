// Package event define los eventos de dominio emitidos hacia el notificador
// externo. Entrega fire-and-forget, al-menos-una-vez: los consumidores deben
// tolerar duplicados. Se publican solo después de confirmar la transición de
// estado, nunca antes.
package event

import "github.com/shopspring/decimal"

// Nombres de evento (contrato con los consumidores).
const (
	MovementCreated   = "stock_movement.created"
	MovementExecuted  = "stock_movement.executed"
	MovementCancelled = "stock_movement.cancelled"

	TransferCreated   = "stock_transfer.created"
	TransferSubmitted = "stock_transfer.submitted"
	TransferApproved  = "stock_transfer.approved"
	TransferShipped   = "stock_transfer.shipped"
	TransferReceived  = "stock_transfer.received"
	TransferCancelled = "stock_transfer.cancelled"
)

// Event es la interfaz mínima que expone cada payload.
type Event interface {
	EventType() string
}

// MovementCreatedEvent se publica al crear un movimiento (aún pending).
type MovementCreatedEvent struct {
	TenantID   string          `json:"tenant_id"`
	MovementID string          `json:"movement_id"`
	Type       string          `json:"type"`
	ItemID     string          `json:"item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

func (e MovementCreatedEvent) EventType() string { return MovementCreated }

// MovementExecutedEvent se publica al completar un movimiento.
type MovementExecutedEvent struct {
	TenantID     string          `json:"tenant_id"`
	MovementID   string          `json:"movement_id"`
	Type         string          `json:"type"`
	ItemID       string          `json:"item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	FromLocation string          `json:"from_location,omitempty"`
	ToLocation   string          `json:"to_location,omitempty"`
}

func (e MovementExecutedEvent) EventType() string { return MovementExecuted }

// MovementCancelledEvent se publica al cancelar un movimiento no completado.
type MovementCancelledEvent struct {
	TenantID   string `json:"tenant_id"`
	MovementID string `json:"movement_id"`
	Reason     string `json:"reason"`
}

func (e MovementCancelledEvent) EventType() string { return MovementCancelled }

// TransferCreatedEvent se publica al crear un traslado en borrador.
type TransferCreatedEvent struct {
	TenantID      string `json:"tenant_id"`
	TransferID    string `json:"transfer_id"`
	FromWarehouse string `json:"from_warehouse"`
	ToWarehouse   string `json:"to_warehouse"`
	TotalItems    int    `json:"total_items"`
}

func (e TransferCreatedEvent) EventType() string { return TransferCreated }

// TransferSubmittedEvent se publica al enviar el borrador a aprobación o
// aprobarlo directamente.
type TransferSubmittedEvent struct {
	TenantID         string `json:"tenant_id"`
	TransferID       string `json:"transfer_id"`
	RequiresApproval bool   `json:"requires_approval"`
}

func (e TransferSubmittedEvent) EventType() string { return TransferSubmitted }

// TransferApprovedEvent se publica al aprobar un traslado pendiente.
type TransferApprovedEvent struct {
	TenantID   string `json:"tenant_id"`
	TransferID string `json:"transfer_id"`
	ApproverID string `json:"approver_id"`
}

func (e TransferApprovedEvent) EventType() string { return TransferApproved }

// TransferShippedEvent se publica al despachar el traslado.
type TransferShippedEvent struct {
	TenantID       string `json:"tenant_id"`
	TransferID     string `json:"transfer_id"`
	ShippedBy      string `json:"shipped_by"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

func (e TransferShippedEvent) EventType() string { return TransferShipped }

// TransferReceivedEvent se publica en cada recepción (parcial o total).
type TransferReceivedEvent struct {
	TenantID   string `json:"tenant_id"`
	TransferID string `json:"transfer_id"`
	ReceivedBy string `json:"received_by"`
	Status     string `json:"status"`
}

func (e TransferReceivedEvent) EventType() string { return TransferReceived }

// TransferCancelledEvent se publica al cancelar un traslado.
type TransferCancelledEvent struct {
	TenantID   string `json:"tenant_id"`
	TransferID string `json:"transfer_id"`
	Reason     string `json:"reason"`
}

func (e TransferCancelledEvent) EventType() string { return TransferCancelled }
