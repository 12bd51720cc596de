package kafka

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/tienda-api/pkg/logger"
)

// MessageHandler procesa el valor de un mensaje.
type MessageHandler func(ctx context.Context, key, value []byte) error

// Consumer lee un tópico dentro de un consumer group.
type Consumer struct {
	reader *kafka.Reader
	log    *logger.Logger
}

// NewConsumer construye el consumidor.
func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, log: log.Component("kafka-consumer")}
}

// Consume bloquea hasta que ctx se cancele. Los errores del handler se registran y el offset avanza igual.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			c.log.Error().Err(err).Msg("leer mensaje")
			continue
		}
		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			c.log.Error().Err(err).Int("partition", msg.Partition).Int64("offset", msg.Offset).Msg("procesar mensaje")
		}
	}
}

// Close cierra el reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
