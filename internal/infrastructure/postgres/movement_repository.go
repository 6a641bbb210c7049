package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, tenant_id, movement_number, type, status, reason,
	reference_type, reference_id, reference_number,
	warehouse_id, warehouse_name,
	from_location_id, from_location_code, to_location_id, to_location_code,
	item_id, item_code, item_name, quantity, unit_of_measure,
	lot_number, batch_number, serial_number, expiry_date,
	unit_cost, total_cost, notes,
	performed_by, performed_by_name, performed_at, approved_by, approved_at,
	metadata, created_at, updated_at`

// Create persiste un movimiento del ledger.
func (r *MovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29,
			$30, $31, $32, $33, $34, $35)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TenantID, m.MovementNumber, m.Type, m.Status, m.Reason,
		m.ReferenceType, m.ReferenceID, m.ReferenceNumber,
		m.WarehouseID, m.WarehouseName,
		m.FromLocationID, m.FromLocationCode, m.ToLocationID, m.ToLocationCode,
		m.ItemID, m.ItemCode, m.ItemName, m.Quantity, m.UnitOfMeasure,
		m.LotNumber, m.BatchNumber, m.SerialNumber, m.ExpiryDate,
		m.UnitCost, m.TotalCost, m.Notes,
		m.PerformedBy, m.PerformedByName, m.PerformedAt, m.ApprovedBy, m.ApprovedAt,
		m.Metadata, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movement number %s already exists: %w", m.MovementNumber, err)
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// Get obtiene un movimiento por id dentro del tenant. (nil, nil) si no existe.
func (r *MovementRepo) Get(tenantID, id string) (*entity.StockMovement, error) {
	return r.get(tenantID, id, "")
}

// GetForUpdate obtiene el movimiento bloqueándolo para la transacción en curso.
func (r *MovementRepo) GetForUpdate(tenantID, id string) (*entity.StockMovement, error) {
	return r.get(tenantID, id, " FOR UPDATE")
}

func (r *MovementRepo) get(tenantID, id, suffix string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE tenant_id = $1 AND id = $2` + suffix
	row := r.q.QueryRow(context.Background(), query, tenantID, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// Update persiste los campos mutables de un movimiento.
func (r *MovementRepo) Update(m *entity.StockMovement) error {
	query := `
		UPDATE stock_movements SET
			status = $3, reason = $4,
			from_location_id = $5, from_location_code = $6,
			to_location_id = $7, to_location_code = $8,
			notes = $9,
			performed_by = $10, performed_by_name = $11, performed_at = $12,
			approved_by = $13, approved_at = $14,
			metadata = $15, updated_at = $16
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		m.TenantID, m.ID,
		m.Status, m.Reason,
		m.FromLocationID, m.FromLocationCode,
		m.ToLocationID, m.ToLocationCode,
		m.Notes,
		m.PerformedBy, m.PerformedByName, m.PerformedAt,
		m.ApprovedBy, m.ApprovedAt,
		m.Metadata, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock movement: %w", err)
	}
	return nil
}

// Search devuelve la página de movimientos (más recientes primero) y el total.
func (r *MovementRepo) Search(tenantID string, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error) {
	where := " WHERE tenant_id = $1"
	args := []any{tenantID}
	pos := 2
	add := func(cond string, val any) {
		where += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.ItemID != "" {
		add("item_id = $%d", f.ItemID)
	}
	if f.LocationID != "" {
		add("(from_location_id = $%[1]d OR to_location_id = $%[1]d)", f.LocationID)
	}
	if f.ReferenceType != "" {
		add("reference_type = $%d", f.ReferenceType)
	}
	if f.ReferenceID != "" {
		add("reference_id = $%d", f.ReferenceID)
	}
	if f.DateFrom != nil {
		add("created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("created_at <= $%d", *f.DateTo)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM stock_movements` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search movements: %w", err)
	}
	defer rows.Close()

	list, err := scanMovements(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListCompletedByItem devuelve el historial de movimientos completed de un
// ítem, más recientes primero. warehouseID vacío no filtra.
func (r *MovementRepo) ListCompletedByItem(tenantID, itemID, warehouseID string, limit int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE tenant_id = $1 AND item_id = $2 AND status = $3`
	args := []any{tenantID, itemID, entity.MovementStatusCompleted}
	pos := 4
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by item: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByWarehouseRange devuelve los movimientos de una bodega en un rango de
// fechas, para agregaciones.
func (r *MovementRepo) ListByWarehouseRange(tenantID, warehouseID string, from, to time.Time) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE tenant_id = $1 AND warehouse_id = $2 AND created_at >= $3 AND created_at <= $4
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, tenantID, warehouseID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list movements by warehouse: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.TenantID, &m.MovementNumber, &m.Type, &m.Status, &m.Reason,
		&m.ReferenceType, &m.ReferenceID, &m.ReferenceNumber,
		&m.WarehouseID, &m.WarehouseName,
		&m.FromLocationID, &m.FromLocationCode, &m.ToLocationID, &m.ToLocationCode,
		&m.ItemID, &m.ItemCode, &m.ItemName, &m.Quantity, &m.UnitOfMeasure,
		&m.LotNumber, &m.BatchNumber, &m.SerialNumber, &m.ExpiryDate,
		&m.UnitCost, &m.TotalCost, &m.Notes,
		&m.PerformedBy, &m.PerformedByName, &m.PerformedAt, &m.ApprovedBy, &m.ApprovedAt,
		&m.Metadata, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
