package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// LocalCart key del carrito cargado para la petición.
const LocalCart = "cart"

// cartLoader lo implementa *cart.CartUseCase.
type cartLoader interface {
	Load(ctx context.Context, userID string) (*entity.Cart, error)
}

// CartMiddleware carga el carrito del usuario autenticado en c.Locals. Usar después de AuthMiddleware.
func CartMiddleware(loader cartLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cart, err := loader.Load(c.UserContext(), GetUserID(c))
		if err != nil {
			return err
		}
		c.Locals(LocalCart, cart)
		return c.Next()
	}
}

// GetCart devuelve el carrito cargado por CartMiddleware.
func GetCart(c *fiber.Ctx) *entity.Cart {
	cart, _ := c.Locals(LocalCart).(*entity.Cart)
	return cart
}
