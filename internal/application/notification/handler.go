// Package notification reacciona a los eventos de pedido publicados por la API.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// Notifier envía el aviso al cliente. El envío real (email, push) queda fuera de este servicio.
type Notifier interface {
	Notify(ctx context.Context, userID, subject, body string) error
}

// LogNotifier registra el aviso en el log.
type LogNotifier struct {
	Log *logger.Logger
}

// Notify implementa Notifier.
func (n LogNotifier) Notify(_ context.Context, userID, subject, body string) error {
	n.Log.Info().Str("user_id", userID).Str("subject", subject).Msg(body)
	return nil
}

// Handler decodifica eventos de pedido y decide qué notificar.
type Handler struct {
	notifier Notifier
	log      *logger.Logger
}

// NewHandler construye el handler.
func NewHandler(notifier Notifier, log *logger.Logger) *Handler {
	return &Handler{notifier: notifier, log: log.Component("notifier")}
}

// HandleEvent procesa un mensaje crudo (Kafka o RabbitMQ). Tipos desconocidos se ignoran.
func (h *Handler) HandleEvent(ctx context.Context, _, value []byte) error {
	var event ports.OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decodificar evento: %w", err)
	}

	var subject, body string
	switch event.Type {
	case ports.EventOrderCreated:
		subject = "Pedido recibido"
		body = fmt.Sprintf("Tu pedido %s por %s fue recibido (%d productos).",
			event.OrderID, event.TotalAmount.StringFixed(2), len(event.Items))
	case ports.EventOrderPaid:
		subject = "Pago confirmado"
		body = fmt.Sprintf("Recibimos el pago de tu pedido %s.", event.OrderID)
	case ports.EventOrderStatusChanged:
		subject = "Tu pedido cambió de estado"
		body = fmt.Sprintf("El pedido %s ahora está %s.", event.OrderID, event.Status)
	default:
		h.log.Debug().Str("type", event.Type).Msg("evento ignorado")
		return nil
	}
	return h.notifier.Notify(ctx, event.UserID, subject, body)
}
