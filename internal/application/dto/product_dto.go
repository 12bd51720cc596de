package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto (admin).
type CreateProductRequest struct {
	Title       string          `json:"title" validate:"required,min=1,max=100"`
	Description string          `json:"description" validate:"required,min=1,max=2000"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images" validate:"required,min=1,dive,required"`
	Category    string          `json:"category" validate:"required,oneof=electronics clothing books home sports beauty toys other"`
	Stock       *int            `json:"stock" validate:"required,min=0"`
	Featured    bool            `json:"featured"`
	Tags        []string        `json:"tags" validate:"omitempty,dive,max=50"`
}

// UpdateProductRequest actualización parcial; los campos nil no se modifican.
type UpdateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Images      []string         `json:"images" validate:"omitempty,dive,required"`
	Category    *string          `json:"category" validate:"omitempty,oneof=electronics clothing books home sports beauty toys other"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	Featured    *bool            `json:"featured"`
	Tags        []string         `json:"tags" validate:"omitempty,dive,max=50"`
}

// ProductListQuery parámetros de GET /products.
type ProductListQuery struct {
	PageRequest
	Category string `query:"category" validate:"omitempty,oneof=electronics clothing books home sports beauty toys other"`
	MinPrice string `query:"minPrice" validate:"omitempty,numeric"`
	MaxPrice string `query:"maxPrice" validate:"omitempty,numeric"`
	Sort     string `query:"sort" validate:"omitempty,oneof=price -price createdAt -createdAt title -title"`
}

// ProductSearchQuery parámetros de GET /products/search.
type ProductSearchQuery struct {
	PageRequest
	Q string `query:"q" validate:"required"`
}

// RatingsResponse valoraciones del producto.
type RatingsResponse struct {
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	Tags        []string        `json:"tags"`
	Ratings     RatingsResponse `json:"ratings"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
