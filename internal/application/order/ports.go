package order

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// CatalogInvalidator descarta lecturas cacheadas del catálogo tras cambiar el stock.
type CatalogInvalidator interface {
	InvalidateCache()
}

// TxRunner ejecuta fn dentro de una transacción, con repositorios atados a ella.
// Si fn retorna error se hace rollback completo (incluidos los descuentos de stock).
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error) error
}
