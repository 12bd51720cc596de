package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// CartStore almacén clave-valor de carritos por usuario.
// Get devuelve (nil, nil) si el usuario no tiene carrito guardado.
type CartStore interface {
	Get(ctx context.Context, userID string) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, userID string) error
}
