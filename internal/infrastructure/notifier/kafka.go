// Package notifier implementa el puerto de publicación de eventos de dominio.
// La entrega es fire-and-forget: un broker caído nunca bloquea ni revierte una
// operación del ledger, solo deja registro del fallo.
package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain/event"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var _ ports.Notifier = (*KafkaNotifier)(nil)

// envelope es el formato de mensaje en el tópico: tipo + fecha + payload.
type envelope struct {
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    event.Event `json:"payload"`
}

// KafkaNotifier publica eventos de dominio en un tópico Kafka.
type KafkaNotifier struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaNotifier construye el notificador. Cerrar con Close al apagar.
func NewKafkaNotifier(brokers []string, topic string, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.Error().Err(err).Int("messages", len(messages)).
						Msg("fallo entregando eventos a kafka")
				}
			},
		},
		log: log,
	}
}

// Publish serializa el evento y lo encola en el writer. Los errores se
// registran y se descartan.
func (n *KafkaNotifier) Publish(ctx context.Context, e event.Event) {
	body, err := json.Marshal(envelope{
		Event:      e.EventType(),
		OccurredAt: time.Now().UTC(),
		Payload:    e,
	})
	if err != nil {
		n.log.Error().Err(err).Str("event", e.EventType()).Msg("serializando evento")
		return
	}
	msg := kafka.Message{
		Key:   []byte(e.EventType()),
		Value: body,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		n.log.Error().Err(err).Str("event", e.EventType()).Msg("publicando evento")
	}
}

// Close vacía el buffer del writer y libera conexiones.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
