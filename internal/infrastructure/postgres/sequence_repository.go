package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/sequence"
)

var _ sequence.CounterStore = (*CounterStore)(nil)

// CounterStore asigna consecutivos por (tenant, tipo) sobre la tabla
// tenant_sequences. El UPDATE de la fila bloquea a los asignadores
// concurrentes del mismo contador hasta el commit: los números salen sin
// huecos mientras la transacción que los reclama confirme.
type CounterStore struct {
	q Querier
}

// NewCounterStore construye el adaptador. Pasar la tx de la operación: el
// consecutivo debe reclamarse bajo el mismo commit que la entidad que lo usa.
func NewCounterStore(q Querier) *CounterStore {
	return &CounterStore{q: q}
}

// Next devuelve el siguiente valor del contador, creándolo en 1 si no existe.
func (s *CounterStore) Next(tenantID, kind string) (int64, error) {
	query := `
		INSERT INTO tenant_sequences (tenant_id, kind, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, kind)
		DO UPDATE SET value = tenant_sequences.value + 1
		RETURNING value`
	var value int64
	if err := s.q.QueryRow(context.Background(), query, tenantID, kind).Scan(&value); err != nil {
		return 0, fmt.Errorf("next sequence %s/%s: %w", tenantID, kind, err)
	}
	return value, nil
}
