package memory

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/internal/infrastructure/cache"
)

const cartKeyPrefix = "carts:"

var _ repository.CartStore = (*CartStore)(nil)

// CartStore carritos sobre el caché TTL en memoria (CART_STORE=memory).
// Un carrito sin cambios durante ttl se descarta.
type CartStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewCartStore construye el almacén.
func NewCartStore(c *cache.Cache, ttl time.Duration) *CartStore {
	return &CartStore{cache: c, ttl: ttl}
}

// Get devuelve el carrito o (nil, nil).
func (s *CartStore) Get(_ context.Context, userID string) (*entity.Cart, error) {
	var c entity.Cart
	found, err := s.cache.Unmarshal(cartKeyPrefix+userID, &c)
	if err != nil || !found {
		return nil, err
	}
	if c.Items == nil {
		c.Items = []entity.CartItem{}
	}
	return &c, nil
}

// Save guarda el carrito y renueva su TTL.
func (s *CartStore) Save(_ context.Context, c *entity.Cart) error {
	return s.cache.Marshal(cartKeyPrefix+c.UserID, c, s.ttl)
}

// Delete elimina el carrito.
func (s *CartStore) Delete(_ context.Context, userID string) error {
	s.cache.Delete(cartKeyPrefix + userID)
	return nil
}
