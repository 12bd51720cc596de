package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/tienda-api/internal/application/ports"
)

var _ ports.OrderEventPublisher = (*Producer)(nil)

// Producer publica eventos de pedido en un tópico; la clave es el ID del pedido
// para que los eventos de un mismo pedido queden en la misma partición.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer construye el productor.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer}
}

// Publish serializa el evento en JSON y lo escribe.
func (p *Producer) Publish(ctx context.Context, event ports.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close vacía el buffer y cierra el writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
