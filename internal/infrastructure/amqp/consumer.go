package amqp

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/tienda-api/pkg/logger"
)

// MessageHandler procesa el cuerpo de un mensaje.
type MessageHandler func(ctx context.Context, key, value []byte) error

// Consumer consume una cola con ack manual.
type Consumer struct {
	conn  *amqp.Connection
	queue string
	log   *logger.Logger
}

// NewConsumer abre la conexión.
func NewConsumer(url, queue string, log *logger.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectar RabbitMQ: %w", err)
	}
	return &Consumer{conn: conn, queue: queue, log: log.Component("amqp-consumer")}, nil
}

// Consume bloquea hasta que ctx se cancele o el broker cierre la entrega.
// Un mensaje procesado se confirma con Ack; si el handler falla se descarta con Nack sin reencolar.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("abrir canal: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, c.queue); err != nil {
		return err
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx,
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("registrar consumidor: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de entrega cerrado")
			}
			if err := handler(ctx, []byte(d.MessageId), d.Body); err != nil {
				c.log.Error().Err(err).Str("message_id", d.MessageId).Msg("procesar mensaje")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close cierra la conexión.
func (c *Consumer) Close() error {
	return c.conn.Close()
}
