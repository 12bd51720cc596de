package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento del ciclo de vida de un pedido.
const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEventItem línea del pedido incluida en el evento.
type OrderEventItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderEvent mensaje publicado tras confirmar un cambio de pedido.
type OrderEvent struct {
	Type          string           `json:"type"`
	OrderID       string           `json:"order_id"`
	UserID        string           `json:"user_id"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"payment_status"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	Items         []OrderEventItem `json:"items,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// OrderEventPublisher puerto de salida hacia el broker (Kafka, RabbitMQ o ninguno).
// Se invoca después del commit; un fallo no revierte el pedido.
type OrderEventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher descarta los eventos (EVENTS_DRIVER=none).
type NopPublisher struct{}

// Publish implementa OrderEventPublisher.
func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

// Close implementa OrderEventPublisher.
func (NopPublisher) Close() error { return nil }
