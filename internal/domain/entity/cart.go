package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem línea del carrito con una copia del producto al momento de agregarlo.
type CartItem struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

// Cart estado del carrito de un usuario. Lo persiste un CartStore (memoria o MongoDB).
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart carrito vacío para userID.
func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}

// Find devuelve la línea de productID o nil.
func (c *Cart) Find(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Remove quita la línea de productID si existe.
func (c *Cart) Remove(productID string) {
	out := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	c.Items = out
}

// Clear vacía el carrito.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// TotalItems suma de cantidades.
func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice suma de price × quantity.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
