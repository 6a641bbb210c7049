// Package ledger implementa el registro inmutable de movimientos de stock:
// la fuente única de verdad de "qué pasó físicamente".
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/event"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/sequence"
)

// MetadataCancellationReason clave de metadata donde queda la razón de cancelación.
const MetadataCancellationReason = "cancellation_reason"

// UseCase opera el ledger de movimientos. Las mutaciones corren dentro del
// TxRunner (consecutivo + registro en un solo commit); las lecturas usan el
// repositorio atado al pool.
type UseCase struct {
	tx        ports.TxRunner
	movements repository.MovementRepository
	notifier  ports.Notifier
	now       func() time.Time
}

// NewUseCase construye el caso de uso del ledger.
func NewUseCase(tx ports.TxRunner, movements repository.MovementRepository, notifier ports.Notifier) *UseCase {
	return &UseCase{tx: tx, movements: movements, notifier: notifier, now: time.Now}
}

// WithClock fija el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

func (uc *UseCase) publish(ctx context.Context, events ...event.Event) {
	if uc.notifier == nil {
		return
	}
	for _, e := range events {
		uc.notifier.Publish(ctx, e)
	}
}

// CreateMovement registra un movimiento en estado pending. No valida
// ubicaciones: eso ocurre al ejecutar, lo que permite redactar y validar por
// lotes antes de comprometer efectos.
func (uc *UseCase) CreateMovement(ctx context.Context, tenantID string, req dto.CreateMovementRequest) (*entity.StockMovement, error) {
	if !entity.ValidMovementType(req.Type) {
		return nil, domain.Validationf("unknown movement type %q", req.Type)
	}
	if req.WarehouseID == "" {
		return nil, domain.Validationf("warehouse is required")
	}
	if req.ItemID == "" {
		return nil, domain.Validationf("item is required")
	}

	now := uc.now()
	movement := &entity.StockMovement{
		ID:               uuid.New().String(),
		TenantID:         tenantID,
		Type:             req.Type,
		Status:           entity.MovementStatusPending,
		Reason:           req.Reason,
		ReferenceType:    req.ReferenceType,
		ReferenceID:      req.ReferenceID,
		ReferenceNumber:  req.ReferenceNumber,
		WarehouseID:      req.WarehouseID,
		WarehouseName:    req.WarehouseName,
		FromLocationID:   req.FromLocationID,
		FromLocationCode: req.FromLocationCode,
		ToLocationID:     req.ToLocationID,
		ToLocationCode:   req.ToLocationCode,
		ItemID:           req.ItemID,
		ItemCode:         req.ItemCode,
		ItemName:         req.ItemName,
		Quantity:         req.Quantity,
		UnitOfMeasure:    req.UnitOfMeasure,
		LotNumber:        req.LotNumber,
		BatchNumber:      req.BatchNumber,
		SerialNumber:     req.SerialNumber,
		ExpiryDate:       req.ExpiryDate,
		UnitCost:         req.UnitCost,
		Notes:            req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.UnitCost != nil {
		total := req.UnitCost.Mul(req.Quantity)
		movement.TotalCost = &total
	}

	err := uc.tx.Run(ctx, func(
		movements repository.MovementRepository,
		_ repository.TransferRepository,
		counters sequence.CounterStore,
	) error {
		seq := sequence.NewWithClock(counters, uc.now)
		number, err := seq.MovementNumber(tenantID)
		if err != nil {
			return err
		}
		movement.MovementNumber = number
		return movements.Create(movement)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event.MovementCreatedEvent{
		TenantID:   tenantID,
		MovementID: movement.ID,
		Type:       movement.Type,
		ItemID:     movement.ItemID,
		Quantity:   movement.Quantity,
	})
	return movement, nil
}

// ExecuteMovement pasa un movimiento de pending a completed, aplicando la
// validación de ubicaciones por tipo. Un movimiento completado es un hecho
// histórico: a partir de aquí solo un movimiento compensatorio lo revierte.
func (uc *UseCase) ExecuteMovement(ctx context.Context, tenantID, movementID string) (*entity.StockMovement, error) {
	var movement *entity.StockMovement

	err := uc.tx.Run(ctx, func(
		movements repository.MovementRepository,
		_ repository.TransferRepository,
		_ sequence.CounterStore,
	) error {
		m, err := movements.GetForUpdate(tenantID, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.NotFoundf("movement %s not found", movementID)
		}
		if m.Status != entity.MovementStatusPending {
			return domain.InvalidStatef("movement is not in pending status")
		}
		if err := m.ValidateLocations(); err != nil {
			return err
		}

		now := uc.now()
		m.Status = entity.MovementStatusCompleted
		m.PerformedAt = &now
		m.UpdatedAt = now
		if err := movements.Update(m); err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event.MovementExecutedEvent{
		TenantID:     tenantID,
		MovementID:   movement.ID,
		Type:         movement.Type,
		ItemID:       movement.ItemID,
		Quantity:     movement.Quantity,
		FromLocation: movement.FromLocationID,
		ToLocation:   movement.ToLocationID,
	})
	return movement, nil
}

// CancelMovement cancela un movimiento no completado y guarda la razón en
// metadata. La cancelación es un cambio de estado, nunca un borrado: el
// registro permanece en el ledger.
func (uc *UseCase) CancelMovement(ctx context.Context, tenantID, movementID, reason string) (*entity.StockMovement, error) {
	var movement *entity.StockMovement

	err := uc.tx.Run(ctx, func(
		movements repository.MovementRepository,
		_ repository.TransferRepository,
		_ sequence.CounterStore,
	) error {
		m, err := movements.GetForUpdate(tenantID, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.NotFoundf("movement %s not found", movementID)
		}
		if m.Status == entity.MovementStatusCompleted {
			return domain.InvalidStatef("cannot cancel completed movement")
		}

		m.Status = entity.MovementStatusCancelled
		m.SetMetadata(MetadataCancellationReason, reason)
		m.UpdatedAt = uc.now()
		if err := movements.Update(m); err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event.MovementCancelledEvent{
		TenantID:   tenantID,
		MovementID: movement.ID,
		Reason:     reason,
	})
	return movement, nil
}

// GetMovement devuelve un movimiento por id dentro del tenant.
func (uc *UseCase) GetMovement(ctx context.Context, tenantID, movementID string) (*entity.StockMovement, error) {
	m, err := uc.movements.Get(tenantID, movementID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFoundf("movement %s not found", movementID)
	}
	return m, nil
}

// SearchMovements busca en el ledger con filtros y paginación, más recientes
// primero. Devuelve la página y el total.
func (uc *UseCase) SearchMovements(ctx context.Context, tenantID string, req dto.MovementSearchRequest) ([]*entity.StockMovement, int, error) {
	req.DefaultPage()
	filter := repository.MovementFilter{
		Type:          req.Type,
		Status:        req.Status,
		WarehouseID:   req.WarehouseID,
		ItemID:        req.ItemID,
		LocationID:    req.LocationID,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
	}
	return uc.movements.Search(tenantID, filter, req.Limit, req.Offset)
}

// GetItemHistory devuelve los movimientos completed de un ítem, más recientes
// primero, hasta limit (50 por defecto).
func (uc *UseCase) GetItemHistory(ctx context.Context, tenantID, itemID, warehouseID string, limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.movements.ListCompletedByItem(tenantID, itemID, warehouseID, limit)
}

// recordCompleted persiste un movimiento ya completado usando los repositorios
// de la transacción del caller. Es el camino que usa el orquestador de
// traslados para que ledger y traslado sean subproductos del mismo commit.
func recordCompleted(
	movements repository.MovementRepository,
	counters sequence.CounterStore,
	now func() time.Time,
	m *entity.StockMovement,
) error {
	seq := sequence.NewWithClock(counters, now)
	number, err := seq.MovementNumber(m.TenantID)
	if err != nil {
		return err
	}
	ts := now()
	m.ID = uuid.New().String()
	m.MovementNumber = number
	m.Status = entity.MovementStatusCompleted
	m.PerformedAt = &ts
	m.CreatedAt = ts
	m.UpdatedAt = ts
	if m.UnitCost != nil && m.TotalCost == nil {
		total := m.UnitCost.Mul(m.Quantity)
		m.TotalCost = &total
	}
	return movements.Create(m)
}

// RecordCompletedInTx expone recordCompleted a otros casos de uso que ya están
// dentro de una transacción (orquestador de traslados).
func (uc *UseCase) RecordCompletedInTx(
	movements repository.MovementRepository,
	counters sequence.CounterStore,
	m *entity.StockMovement,
) error {
	return recordCompleted(movements, counters, uc.now, m)
}
