package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea pedida por el cliente.
type OrderItemRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// ShippingAddressDTO dirección de envío.
type ShippingAddressDTO struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// CreateOrderRequest entrada de POST /orders.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required,oneof=stripe paypal cash_on_delivery"`
}

// CheckoutRequest entrada de POST /cart/checkout: los ítems salen del carrito.
type CheckoutRequest struct {
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required,oneof=stripe paypal cash_on_delivery"`
}

// PayOrderRequest entrada de PUT /orders/:id/pay.
type PayOrderRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"omitempty,max=255"`
}

// UpdateOrderStatusRequest entrada de PUT /orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// OrderListQuery parámetros de GET /orders (admin).
type OrderListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
}

// OrderItemResponse línea del pedido con precio congelado.
type OrderItemResponse struct {
	Product  string          `json:"product"`
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID               string              `json:"id"`
	User             string              `json:"user"`
	Items            []OrderItemResponse `json:"items"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
	Status           string              `json:"status"`
	PaymentStatus    string              `json:"paymentStatus"`
	ShippingAddress  ShippingAddressDTO  `json:"shippingAddress"`
	PaymentMethod    string              `json:"paymentMethod"`
	PaymentReference string              `json:"paymentReference,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}
