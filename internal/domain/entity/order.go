package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido. delivered y cancelled son terminales.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Estados de pago. refunded no lo asigna ninguna operación actual.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Métodos de pago aceptados al crear un pedido.
const (
	PaymentMethodStripe         = "stripe"
	PaymentMethodPaypal         = "paypal"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// IsValidOrderStatus indica si s es uno de los cinco estados de pedido.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentMethod indica si m es un método de pago aceptado.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodStripe, PaymentMethodPaypal, PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

// ShippingAddress dirección de envío embebida en el pedido.
type ShippingAddress struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// OrderItem copia inmutable de la línea al momento de la compra.
// Price no sigue los cambios posteriores del producto.
type OrderItem struct {
	ProductID string
	Title     string
	Quantity  int
	Price     decimal.Decimal
}

// Subtotal price × quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order pedido de un usuario. Nunca se elimina.
type Order struct {
	ID               string
	UserID           string
	Items            []OrderItem
	TotalAmount      decimal.Decimal
	Status           string
	PaymentStatus    string
	ShippingAddress  ShippingAddress
	PaymentMethod    string
	PaymentReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsOwnedBy indica si el pedido pertenece a userID.
func (o *Order) IsOwnedBy(userID string) bool {
	return o.UserID == userID
}

// MarkPaid registra el pago simulado: pagado y en preparación.
func (o *Order) MarkPaid(reference string, now time.Time) {
	o.PaymentStatus = PaymentStatusPaid
	o.Status = OrderStatusProcessing
	if reference != "" {
		o.PaymentReference = reference
	}
	o.UpdatedAt = now
}

// ItemCount suma de cantidades de todas las líneas.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
