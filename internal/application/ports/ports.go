// Package ports declara los puertos compartidos por los casos de uso.
package ports

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/event"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/sequence"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que ledger, traslado y contadores
// muten como un único paso causal: Commit si fn retorna nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movements repository.MovementRepository,
		transfers repository.TransferRepository,
		counters sequence.CounterStore,
	) error) error
}

// Notifier publica eventos de dominio hacia fuera. Fire-and-forget: las
// implementaciones registran sus propios fallos y nunca los propagan a la
// operación que ya confirmó su transacción.
type Notifier interface {
	Publish(ctx context.Context, e event.Event)
}
