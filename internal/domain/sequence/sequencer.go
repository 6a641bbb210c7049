// Package sequence genera los consecutivos legibles por tenant para
// movimientos y traslados. Sin reglas de negocio: solo numeración.
package sequence

import (
	"fmt"
	"time"
)

// Tipos de contador.
const (
	KindMovement = "movement"
	KindTransfer = "transfer"
)

// CounterStore entrega el siguiente valor de un contador monotónico por
// tenant y tipo. Respaldado por almacenamiento durable, los valores nunca se
// reutilizan, ni siquiera tras una cancelación.
type CounterStore interface {
	Next(tenantID, kind string) (int64, error)
}

// Sequencer formatea los consecutivos. El reloj es inyectable para tests.
type Sequencer struct {
	store CounterStore
	now   func() time.Time
}

// New construye el secuenciador sobre el store dado.
func New(store CounterStore) *Sequencer {
	return &Sequencer{store: store, now: time.Now}
}

// NewWithClock construye el secuenciador con un reloj fijo (tests).
func NewWithClock(store CounterStore, now func() time.Time) *Sequencer {
	return &Sequencer{store: store, now: now}
}

// MovementNumber devuelve el siguiente consecutivo MOV-YYYY-######## (8 dígitos).
func (s *Sequencer) MovementNumber(tenantID string) (string, error) {
	n, err := s.store.Next(tenantID, KindMovement)
	if err != nil {
		return "", fmt.Errorf("next movement counter: %w", err)
	}
	return fmt.Sprintf("MOV-%d-%08d", s.now().Year(), n), nil
}

// TransferNumber devuelve el siguiente consecutivo XFER-YYYY-###### (6 dígitos).
func (s *Sequencer) TransferNumber(tenantID string) (string, error) {
	n, err := s.store.Next(tenantID, KindTransfer)
	if err != nil {
		return "", fmt.Errorf("next transfer counter: %w", err)
	}
	return fmt.Sprintf("XFER-%d-%06d", s.now().Year(), n), nil
}
