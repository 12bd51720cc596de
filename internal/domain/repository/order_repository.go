package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve (nil, nil) si el pedido no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste estado, estado de pago y referencia de pago.
	Update(ctx context.Context, order *entity.Order) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error)
	// List lista todos los pedidos; status vacío no filtra.
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Order, int64, error)
}
