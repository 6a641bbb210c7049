// Package transfer orquesta el traslado multi-línea entre bodegas de punta a
// punta: borrador, aprobación, despacho y recepción conciliada. Despacho y
// recepción son las dos únicas operaciones que crean movimientos en el ledger,
// y lo hacen exactamente una vez por línea por llamada, dentro de la misma
// transacción: ledger y traslado son subproductos de un mismo paso causal.
package transfer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/event"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/sequence"
)

// MetadataCancellationReason clave de metadata donde queda la razón de cancelación.
const MetadataCancellationReason = "cancellation_reason"

// UseCase orquesta traslados. Cada mutación toma el traslado con bloqueo
// exclusivo (GetForUpdate) durante toda la operación: dos recepciones
// concurrentes sobre las mismas líneas nunca validan contra una lectura vieja.
type UseCase struct {
	tx        ports.TxRunner
	transfers repository.TransferRepository
	ledger    *ledger.UseCase
	notifier  ports.Notifier
	now       func() time.Time
}

// NewUseCase construye el orquestador de traslados.
func NewUseCase(tx ports.TxRunner, transfers repository.TransferRepository, ledgerUC *ledger.UseCase, notifier ports.Notifier) *UseCase {
	return &UseCase{tx: tx, transfers: transfers, ledger: ledgerUC, notifier: notifier, now: time.Now}
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

// CreateTransfer crea un traslado en borrador con sus líneas. Los agregados
// (TotalItems, TotalQuantity, EstimatedValue) se derivan de las líneas en este
// momento y no se recalculan después: son estimaciones puntuales.
func (uc *UseCase) CreateTransfer(ctx context.Context, tenantID, userID, userName string, req dto.CreateTransferRequest) (*entity.StockTransfer, error) {
	if req.FromWarehouseID == "" || req.ToWarehouseID == "" {
		return nil, domain.Validationf("both warehouses are required")
	}
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, domain.Validationf("cannot transfer to the same warehouse")
	}
	for _, l := range req.Lines {
		if l.ItemID == "" {
			return nil, domain.Validationf("line item is required")
		}
		if !l.RequestedQuantity.GreaterThan(decimal.Zero) {
			return nil, domain.Validationf("requested quantity must be positive for item %s", l.ItemCode)
		}
	}

	now := uc.now()
	lines := make([]*entity.TransferLine, 0, len(req.Lines))
	totalQuantity := decimal.Zero
	estimatedValue := decimal.Zero
	for _, l := range req.Lines {
		line := &entity.TransferLine{
			ID:                uuid.New().String(),
			ItemID:            l.ItemID,
			ItemCode:          l.ItemCode,
			ItemName:          l.ItemName,
			FromLocationID:    l.FromLocationID,
			FromLocationCode:  l.FromLocationCode,
			RequestedQuantity: l.RequestedQuantity,
			ShippedQuantity:   decimal.Zero,
			ReceivedQuantity:  decimal.Zero,
			DamagedQuantity:   decimal.Zero,
			UnitOfMeasure:     l.UnitOfMeasure,
			LotNumber:         l.LotNumber,
			BatchNumber:       l.BatchNumber,
			SerialNumbers:     l.SerialNumbers,
			UnitCost:          l.UnitCost,
			Notes:             l.Notes,
			Status:            entity.LineStatusPending,
		}
		if l.UnitCost != nil {
			value := l.UnitCost.Mul(l.RequestedQuantity)
			line.LineValue = &value
			estimatedValue = estimatedValue.Add(value)
		}
		totalQuantity = totalQuantity.Add(l.RequestedQuantity)
		lines = append(lines, line)
	}

	transfer := &entity.StockTransfer{
		ID:                   uuid.New().String(),
		TenantID:             tenantID,
		Status:               entity.TransferStatusDraft,
		FromWarehouseID:      req.FromWarehouseID,
		FromWarehouseName:    req.FromWarehouseName,
		ToWarehouseID:        req.ToWarehouseID,
		ToWarehouseName:      req.ToWarehouseName,
		Lines:                lines,
		TotalItems:           len(lines),
		TotalQuantity:        totalQuantity,
		EstimatedValue:       estimatedValue,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
		RequiresApproval:     req.RequiresApproval,
		RequestedBy:          userID,
		RequestedByName:      userName,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err := uc.tx.Run(ctx, func(
		_ repository.MovementRepository,
		transfers repository.TransferRepository,
		counters sequence.CounterStore,
	) error {
		seq := sequence.NewWithClock(counters, uc.now)
		number, err := seq.TransferNumber(tenantID)
		if err != nil {
			return err
		}
		transfer.TransferNumber = number
		return transfers.Create(transfer)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event.TransferCreatedEvent{
		TenantID:      tenantID,
		TransferID:    transfer.ID,
		FromWarehouse: transfer.FromWarehouseID,
		ToWarehouse:   transfer.ToWarehouseID,
		TotalItems:    transfer.TotalItems,
	})
	return transfer, nil
}

// SubmitTransfer saca el traslado de borrador: pasa a pending_approval si
// requiere aprobación, o directo a approved si no.
func (uc *UseCase) SubmitTransfer(ctx context.Context, tenantID, transferID string) (*entity.StockTransfer, error) {
	var transfer *entity.StockTransfer

	err := uc.tx.Run(ctx, func(
		_ repository.MovementRepository,
		transfers repository.TransferRepository,
		_ sequence.CounterStore,
	) error {
		t, err := uc.lockTransfer(transfers, tenantID, transferID)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferStatusDraft {
			return domain.InvalidStatef("transfer is not in draft status")
		}
		if len(t.Lines) == 0 {
			return domain.Validationf("transfer must have at least one line")
		}

		now := uc.now()
		if t.RequiresApproval {
			t.Status = entity.TransferStatusPendingApproval
		} else {
			t.Status = entity.TransferStatusApproved
			t.ApprovedAt = &now
		}
		t.RequestedDate = &now
		t.UpdatedAt = now
		if err := transfers.Update(t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event.TransferSubmittedEvent{
		TenantID:         tenantID,
		TransferID:       transfer.ID,
		RequiresApproval: transfer.RequiresApproval,
	})
	return transfer, nil
}

// ApproveTransfer aprueba un traslado pendiente de aprobación y registra al aprobador.
func (uc *UseCase) ApproveTransfer(ctx context.Context, tenantID, transferID, approverID string) (*entity.StockTransfer, error) {
	var transfer *entity.StockTransfer

	err := uc.tx.Run(ctx, func(
		_ repository.MovementRepository,
		transfers repository.TransferRepository,
		_ sequence.CounterStore,
	) error {
		t, err := uc.lockTransfer(transfers, tenantID, transferID)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferStatusPendingApproval {
			return domain.InvalidStatef("transfer is not pending approval")
		}

		now := uc.now()
		t.Status = entity.TransferStatusApproved
		t.ApprovedBy = approverID
		t.ApprovedAt = &now
		t.UpdatedAt = now
		if err := transfers.Update(t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event.TransferApprovedEvent{
		TenantID:   tenantID,
		TransferID: transfer.ID,
		ApproverID: approverID,
	})
	return transfer, nil
}

// ShipTransfer despacha las líneas indicadas: valida todas las líneas de la
// petición antes de mutar cualquiera (todo-o-nada) y crea un movimiento de
// salida completado (cantidad negativa) por cada línea despachada.
func (uc *UseCase) ShipTransfer(ctx context.Context, tenantID, transferID, userID string, req dto.ShipTransferRequest) (*entity.StockTransfer, error) {
	var transfer *entity.StockTransfer
	var events []event.Event

	err := uc.tx.Run(ctx, func(
		movements repository.MovementRepository,
		transfers repository.TransferRepository,
		counters sequence.CounterStore,
	) error {
		t, err := uc.lockTransfer(transfers, tenantID, transferID)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferStatusApproved {
			return domain.InvalidStatef("transfer must be approved before shipping")
		}

		// Pasada de validación: ninguna línea se muta si alguna falla.
		for _, sl := range req.Lines {
			line := t.Line(sl.LineID)
			if line == nil {
				return domain.NotFoundf("line %s not found", sl.LineID)
			}
			if sl.ShippedQuantity.LessThan(decimal.Zero) {
				return domain.Validationf("shipped quantity cannot be negative for line %s", line.ItemCode)
			}
			if sl.ShippedQuantity.GreaterThan(line.RequestedQuantity) {
				return domain.Validationf("cannot ship more than requested for line %s", line.ItemCode)
			}
		}

		now := uc.now()
		for _, sl := range req.Lines {
			line := t.Line(sl.LineID)
			line.ShippedQuantity = sl.ShippedQuantity
			if sl.ToLocationID != "" {
				line.ToLocationID = sl.ToLocationID
				line.ToLocationCode = sl.ToLocationCode
			}
			line.Status = entity.LineStatusShipped
		}

		t.Status = entity.TransferStatusInTransit
		t.CarrierName = req.CarrierName
		t.TrackingNumber = req.TrackingNumber
		t.ShippedBy = userID
		t.ShippedAt = &now
		t.ActualShipDate = &now
		t.UpdatedAt = now
		if err := transfers.Update(t); err != nil {
			return err
		}

		// Un movimiento de salida por línea despachada, en la bodega origen.
		for _, line := range t.Lines {
			if !line.ShippedQuantity.GreaterThan(decimal.Zero) {
				continue
			}
			m := &entity.StockMovement{
				TenantID:         tenantID,
				Type:             entity.MovementTypeTransfer,
				Reason:           entity.ReasonRelocation,
				ReferenceType:    "transfer",
				ReferenceID:      t.ID,
				ReferenceNumber:  t.TransferNumber,
				WarehouseID:      t.FromWarehouseID,
				WarehouseName:    t.FromWarehouseName,
				FromLocationID:   line.FromLocationID,
				FromLocationCode: line.FromLocationCode,
				ItemID:           line.ItemID,
				ItemCode:         line.ItemCode,
				ItemName:         line.ItemName,
				Quantity:         line.ShippedQuantity.Neg(),
				UnitOfMeasure:    line.UnitOfMeasure,
				LotNumber:        line.LotNumber,
				BatchNumber:      line.BatchNumber,
				UnitCost:         line.UnitCost,
				PerformedBy:      userID,
				PerformedByName:  "System",
			}
			if err := uc.ledger.RecordCompletedInTx(movements, counters, m); err != nil {
				return err
			}
			events = append(events, event.MovementCreatedEvent{
				TenantID:   tenantID,
				MovementID: m.ID,
				Type:       m.Type,
				ItemID:     m.ItemID,
				Quantity:   m.Quantity,
			})
		}

		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	events = append(events, event.TransferShippedEvent{
		TenantID:       tenantID,
		TransferID:     transfer.ID,
		ShippedBy:      userID,
		TrackingNumber: req.TrackingNumber,
	})
	uc.publish(ctx, events...)
	return transfer, nil
}

// ReceiveTransfer acredita cantidades recibidas o dañadas contra lo enviado.
// Repetible: cada llamada extiende los acumulados. Valida todas las líneas de
// la petición (incluyendo duplicados dentro de la misma petición) antes de
// mutar cualquiera, y crea un movimiento de entrada completado por cada línea
// que recibió cantidad positiva.
func (uc *UseCase) ReceiveTransfer(ctx context.Context, tenantID, transferID, userID string, req dto.ReceiveTransferRequest) (*entity.StockTransfer, error) {
	var transfer *entity.StockTransfer
	var events []event.Event

	err := uc.tx.Run(ctx, func(
		movements repository.MovementRepository,
		transfers repository.TransferRepository,
		counters sequence.CounterStore,
	) error {
		t, err := uc.lockTransfer(transfers, tenantID, transferID)
		if err != nil {
			return err
		}
		if t.Status != entity.TransferStatusInTransit && t.Status != entity.TransferStatusPartiallyReceived {
			return domain.InvalidStatef("transfer is not in transit")
		}

		// Pasada de validación contra el saldo pendiente de cada línea,
		// acumulando lo ya comprometido por entradas previas de esta petición.
		staged := make(map[string]decimal.Decimal)
		for _, rl := range req.Lines {
			line := t.Line(rl.LineID)
			if line == nil {
				return domain.NotFoundf("line %s not found", rl.LineID)
			}
			if rl.ReceivedQuantity.LessThan(decimal.Zero) || rl.DamagedQuantity.LessThan(decimal.Zero) {
				return domain.Validationf("received quantities cannot be negative for line %s", line.ItemCode)
			}
			crediting := rl.ReceivedQuantity.Add(rl.DamagedQuantity)
			if staged[rl.LineID].Add(crediting).GreaterThan(line.RemainingToReceive()) {
				return domain.Validationf("cannot receive more than shipped for line %s", line.ItemCode)
			}
			staged[rl.LineID] = staged[rl.LineID].Add(crediting)
		}

		now := uc.now()
		for _, rl := range req.Lines {
			line := t.Line(rl.LineID)
			line.ReceivedQuantity = line.ReceivedQuantity.Add(rl.ReceivedQuantity)
			line.DamagedQuantity = line.DamagedQuantity.Add(rl.DamagedQuantity)
			if rl.ToLocationID != "" {
				line.ToLocationID = rl.ToLocationID
				line.ToLocationCode = rl.ToLocationCode
			}
			if rl.Notes != "" {
				line.Notes = strings.TrimSpace(line.Notes + " " + rl.Notes)
			}

			if line.FullyAccounted() {
				line.Status = entity.LineStatusReceived
			} else if line.ReceivedQuantity.Add(line.DamagedQuantity).GreaterThan(decimal.Zero) {
				line.Status = entity.LineStatusPartiallyReceived
			}
		}

		// Estado agregado derivado del conjunto de líneas, nunca fijado aparte.
		t.Status = t.DeriveReceiptStatus()
		if t.Status == entity.TransferStatusReceived {
			t.ActualDeliveryDate = &now
		}
		t.ReceivedBy = userID
		t.ReceivedAt = &now
		t.UpdatedAt = now
		if err := transfers.Update(t); err != nil {
			return err
		}

		// Un movimiento de entrada por línea con cantidad recibida positiva,
		// en la bodega destino. Lo dañado no ingresa al stock del destino.
		for _, rl := range req.Lines {
			if !rl.ReceivedQuantity.GreaterThan(decimal.Zero) {
				continue
			}
			line := t.Line(rl.LineID)
			m := &entity.StockMovement{
				TenantID:        tenantID,
				Type:            entity.MovementTypeTransfer,
				Reason:          entity.ReasonRelocation,
				ReferenceType:   "transfer",
				ReferenceID:     t.ID,
				ReferenceNumber: t.TransferNumber,
				WarehouseID:     t.ToWarehouseID,
				WarehouseName:   t.ToWarehouseName,
				ToLocationID:    line.ToLocationID,
				ToLocationCode:  line.ToLocationCode,
				ItemID:          line.ItemID,
				ItemCode:        line.ItemCode,
				ItemName:        line.ItemName,
				Quantity:        rl.ReceivedQuantity,
				UnitOfMeasure:   line.UnitOfMeasure,
				LotNumber:       line.LotNumber,
				BatchNumber:     line.BatchNumber,
				UnitCost:        line.UnitCost,
				PerformedBy:     userID,
				PerformedByName: "System",
			}
			if err := uc.ledger.RecordCompletedInTx(movements, counters, m); err != nil {
				return err
			}
			events = append(events, event.MovementCreatedEvent{
				TenantID:   tenantID,
				MovementID: m.ID,
				Type:       m.Type,
				ItemID:     m.ItemID,
				Quantity:   m.Quantity,
			})
		}

		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	events = append(events, event.TransferReceivedEvent{
		TenantID:   tenantID,
		TransferID: transfer.ID,
		ReceivedBy: userID,
		Status:     transfer.Status,
	})
	uc.publish(ctx, events...)
	return transfer, nil
}

// CancelTransfer cancela un traslado no terminal. Un traslado en tránsito no
// puede cancelarse: el stock ya salió de la bodega origen y debe recibirse
// primero. Idempotente en efecto: la segunda llamada falla sin mutar nada.
func (uc *UseCase) CancelTransfer(ctx context.Context, tenantID, transferID, reason string) (*entity.StockTransfer, error) {
	var transfer *entity.StockTransfer

	err := uc.tx.Run(ctx, func(
		_ repository.MovementRepository,
		transfers repository.TransferRepository,
		_ sequence.CounterStore,
	) error {
		t, err := uc.lockTransfer(transfers, tenantID, transferID)
		if err != nil {
			return err
		}
		if t.Status == entity.TransferStatusReceived || t.Status == entity.TransferStatusCancelled {
			return domain.InvalidStatef("cannot cancel this transfer")
		}
		if t.Status == entity.TransferStatusInTransit {
			return domain.InvalidStatef("cannot cancel transfer in transit, receive first")
		}

		t.Status = entity.TransferStatusCancelled
		t.SetMetadata(MetadataCancellationReason, reason)
		t.UpdatedAt = uc.now()
		for _, line := range t.Lines {
			if !line.Terminal() {
				line.Status = entity.LineStatusCancelled
			}
		}
		if err := transfers.Update(t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event.TransferCancelledEvent{
		TenantID:   tenantID,
		TransferID: transfer.ID,
		Reason:     reason,
	})
	return transfer, nil
}

// GetTransfer devuelve un traslado por id dentro del tenant.
func (uc *UseCase) GetTransfer(ctx context.Context, tenantID, transferID string) (*entity.StockTransfer, error) {
	t, err := uc.transfers.Get(tenantID, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFoundf("transfer %s not found", transferID)
	}
	return t, nil
}

// SearchTransfers busca traslados con filtros y paginación, más recientes primero.
func (uc *UseCase) SearchTransfers(ctx context.Context, tenantID string, req dto.TransferSearchRequest) ([]*entity.StockTransfer, int, error) {
	req.DefaultPage()
	filter := repository.TransferFilter{
		Status:          req.Status,
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		DateFrom:        req.DateFrom,
		DateTo:          req.DateTo,
		Search:          req.Search,
	}
	return uc.transfers.Search(tenantID, filter, req.Limit, req.Offset)
}

// lockTransfer toma el traslado con bloqueo exclusivo, traduciendo ausencia o
// mismatch de tenant a not-found.
func (uc *UseCase) lockTransfer(transfers repository.TransferRepository, tenantID, transferID string) (*entity.StockTransfer, error) {
	t, err := transfers.GetForUpdate(tenantID, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFoundf("transfer %s not found", transferID)
	}
	return t, nil
}
