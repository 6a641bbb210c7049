package notifier

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain/event"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe los eventos en el log estructurado. Es el notificador
// por defecto cuando no hay brokers Kafka configurados (desarrollo y pruebas).
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Publish registra el evento con su payload.
func (n *LogNotifier) Publish(_ context.Context, e event.Event) {
	n.log.Info().Str("event", e.EventType()).Interface("payload", e).Msg("evento de dominio")
}
