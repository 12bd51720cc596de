package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Campos de orden permitidos en listados de productos.
const (
	ProductSortCreatedAt = "createdAt"
	ProductSortPrice     = "price"
	ProductSortTitle     = "title"
)

// ProductFilter filtros y paginación para ProductRepository.List.
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string // createdAt, price, title
	SortDesc bool
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update escribe los campos editables; stock no se toca.
	Update(ctx context.Context, product *entity.Product) error
	// SetStock fija el stock (ajuste manual de administración).
	SetStock(ctx context.Context, id string, stock int) error
	// DecrementStock resta qty sólo si stock >= qty; si no, retorna domain.ErrInsufficientStock.
	DecrementStock(ctx context.Context, id string, qty int) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int64, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*entity.Product, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
