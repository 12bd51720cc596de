package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddCartItemRequest entrada de POST /cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// UpdateCartItemRequest entrada de PUT /cart/items/:productId. quantity <= 0 elimina la línea.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse carrito con totales derivados.
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
