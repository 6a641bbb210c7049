package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de traslados sobre PostgreSQL (usable con pool o tx).
// El encabezado vive en stock_transfers y las líneas en transfer_lines.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, tenant_id, transfer_number, status,
	from_warehouse_id, from_warehouse_name, to_warehouse_id, to_warehouse_name,
	total_items, total_quantity, estimated_value,
	requested_date, expected_delivery_date, actual_ship_date, actual_delivery_date,
	carrier_name, tracking_number, notes, requires_approval,
	requested_by, requested_by_name, approved_by, approved_at,
	shipped_by, shipped_at, received_by, received_at,
	metadata, created_at, updated_at`

const lineColumns = `id, transfer_id, item_id, item_code, item_name,
	from_location_id, from_location_code, to_location_id, to_location_code,
	requested_quantity, shipped_quantity, received_quantity, damaged_quantity,
	unit_of_measure, lot_number, batch_number, serial_numbers,
	unit_cost, line_value, notes, status`

// Create persiste el traslado y todas sus líneas.
func (r *TransferRepo) Create(t *entity.StockTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.TenantID, t.TransferNumber, t.Status,
		t.FromWarehouseID, t.FromWarehouseName, t.ToWarehouseID, t.ToWarehouseName,
		t.TotalItems, t.TotalQuantity, t.EstimatedValue,
		t.RequestedDate, t.ExpectedDeliveryDate, t.ActualShipDate, t.ActualDeliveryDate,
		t.CarrierName, t.TrackingNumber, t.Notes, t.RequiresApproval,
		t.RequestedBy, t.RequestedByName, t.ApprovedBy, t.ApprovedAt,
		t.ShippedBy, t.ShippedAt, t.ReceivedBy, t.ReceivedAt,
		t.Metadata, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transfer number %s already exists: %w", t.TransferNumber, err)
		}
		return fmt.Errorf("create stock transfer: %w", err)
	}
	for i, l := range t.Lines {
		if err := r.upsertLine(t.ID, i, l); err != nil {
			return err
		}
	}
	return nil
}

// Get obtiene un traslado con sus líneas. (nil, nil) si no existe en el tenant.
func (r *TransferRepo) Get(tenantID, id string) (*entity.StockTransfer, error) {
	return r.get(tenantID, id, "")
}

// GetForUpdate obtiene el traslado bloqueando el encabezado para la transacción
// en curso: serializa ship, receive y cancel sobre el mismo traslado.
func (r *TransferRepo) GetForUpdate(tenantID, id string) (*entity.StockTransfer, error) {
	return r.get(tenantID, id, " FOR UPDATE")
}

func (r *TransferRepo) get(tenantID, id, suffix string) (*entity.StockTransfer, error) {
	query := `SELECT ` + transferColumns + `
		FROM stock_transfers WHERE tenant_id = $1 AND id = $2` + suffix
	row := r.q.QueryRow(context.Background(), query, tenantID, id)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	if t.Lines, err = r.loadLines(t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// Update persiste el encabezado y todas las líneas.
func (r *TransferRepo) Update(t *entity.StockTransfer) error {
	query := `
		UPDATE stock_transfers SET
			status = $3,
			requested_date = $4, expected_delivery_date = $5,
			actual_ship_date = $6, actual_delivery_date = $7,
			carrier_name = $8, tracking_number = $9, notes = $10,
			approved_by = $11, approved_at = $12,
			shipped_by = $13, shipped_at = $14,
			received_by = $15, received_at = $16,
			metadata = $17, updated_at = $18
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		t.TenantID, t.ID,
		t.Status,
		t.RequestedDate, t.ExpectedDeliveryDate,
		t.ActualShipDate, t.ActualDeliveryDate,
		t.CarrierName, t.TrackingNumber, t.Notes,
		t.ApprovedBy, t.ApprovedAt,
		t.ShippedBy, t.ShippedAt,
		t.ReceivedBy, t.ReceivedAt,
		t.Metadata, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock transfer: %w", err)
	}
	for i, l := range t.Lines {
		if err := r.upsertLine(t.ID, i, l); err != nil {
			return err
		}
	}
	return nil
}

// Search devuelve la página de traslados (más recientes primero) y el total.
// filter.Search aplica texto libre sobre número de traslado y nombres de bodega.
func (r *TransferRepo) Search(tenantID string, f repository.TransferFilter, limit, offset int) ([]*entity.StockTransfer, int, error) {
	where := " WHERE tenant_id = $1"
	args := []any{tenantID}
	pos := 2
	add := func(cond string, val any) {
		where += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.FromWarehouseID != "" {
		add("from_warehouse_id = $%d", f.FromWarehouseID)
	}
	if f.ToWarehouseID != "" {
		add("to_warehouse_id = $%d", f.ToWarehouseID)
	}
	if f.DateFrom != nil {
		add("created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("created_at <= $%d", *f.DateTo)
	}
	if f.Search != "" {
		add("(transfer_number ILIKE $%[1]d OR from_warehouse_name ILIKE $%[1]d OR to_warehouse_name ILIKE $%[1]d)",
			"%"+f.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM stock_transfers` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transfers: %w", err)
	}

	query := `SELECT ` + transferColumns + ` FROM stock_transfers` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, t := range list {
		if t.Lines, err = r.loadLines(t.ID); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

func (r *TransferRepo) upsertLine(transferID string, position int, l *entity.TransferLine) error {
	query := `
		INSERT INTO transfer_lines (` + lineColumns + `, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			from_location_id = EXCLUDED.from_location_id,
			from_location_code = EXCLUDED.from_location_code,
			to_location_id = EXCLUDED.to_location_id,
			to_location_code = EXCLUDED.to_location_code,
			shipped_quantity = EXCLUDED.shipped_quantity,
			received_quantity = EXCLUDED.received_quantity,
			damaged_quantity = EXCLUDED.damaged_quantity,
			notes = EXCLUDED.notes,
			status = EXCLUDED.status`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, transferID, l.ItemID, l.ItemCode, l.ItemName,
		l.FromLocationID, l.FromLocationCode, l.ToLocationID, l.ToLocationCode,
		l.RequestedQuantity, l.ShippedQuantity, l.ReceivedQuantity, l.DamagedQuantity,
		l.UnitOfMeasure, l.LotNumber, l.BatchNumber, l.SerialNumbers,
		l.UnitCost, l.LineValue, l.Notes, l.Status,
		position,
	)
	if err != nil {
		return fmt.Errorf("upsert transfer line: %w", err)
	}
	return nil
}

func (r *TransferRepo) loadLines(transferID string) ([]*entity.TransferLine, error) {
	query := `SELECT ` + lineColumns + `
		FROM transfer_lines WHERE transfer_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, transferID)
	if err != nil {
		return nil, fmt.Errorf("load transfer lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.TransferLine
	for rows.Next() {
		var l entity.TransferLine
		var transferID string
		if err := rows.Scan(
			&l.ID, &transferID, &l.ItemID, &l.ItemCode, &l.ItemName,
			&l.FromLocationID, &l.FromLocationCode, &l.ToLocationID, &l.ToLocationCode,
			&l.RequestedQuantity, &l.ShippedQuantity, &l.ReceivedQuantity, &l.DamagedQuantity,
			&l.UnitOfMeasure, &l.LotNumber, &l.BatchNumber, &l.SerialNumbers,
			&l.UnitCost, &l.LineValue, &l.Notes, &l.Status,
		); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	err := row.Scan(
		&t.ID, &t.TenantID, &t.TransferNumber, &t.Status,
		&t.FromWarehouseID, &t.FromWarehouseName, &t.ToWarehouseID, &t.ToWarehouseName,
		&t.TotalItems, &t.TotalQuantity, &t.EstimatedValue,
		&t.RequestedDate, &t.ExpectedDeliveryDate, &t.ActualShipDate, &t.ActualDeliveryDate,
		&t.CarrierName, &t.TrackingNumber, &t.Notes, &t.RequiresApproval,
		&t.RequestedBy, &t.RequestedByName, &t.ApprovedBy, &t.ApprovedAt,
		&t.ShippedBy, &t.ShippedAt, &t.ReceivedBy, &t.ReceivedAt,
		&t.Metadata, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
