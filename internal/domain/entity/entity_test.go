package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

func TestCart_Totales(t *testing.T) {
	c := entity.NewCart("u1")
	c.Items = append(c.Items,
		entity.CartItem{ProductID: "p1", Price: decimal.RequireFromString("10.50"), Quantity: 2},
		entity.CartItem{ProductID: "p2", Price: decimal.NewFromInt(3), Quantity: 1},
	)

	assert.Equal(t, 3, c.TotalItems())
	assert.True(t, c.TotalPrice().Equal(decimal.NewFromInt(24)))
	assert.NotNil(t, c.Find("p2"))

	c.Remove("p1")
	assert.Nil(t, c.Find("p1"))
	assert.Len(t, c.Items, 1)

	c.Clear()
	assert.Empty(t, c.Items)
	assert.True(t, c.TotalPrice().IsZero())
}

func TestOrder_MarkPaid(t *testing.T) {
	o := &entity.Order{Status: entity.OrderStatusPending, PaymentStatus: entity.PaymentStatusPending}
	now := time.Now()

	o.MarkPaid("pi_123", now)

	assert.Equal(t, entity.PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, entity.OrderStatusProcessing, o.Status)
	assert.Equal(t, "pi_123", o.PaymentReference)

	o.MarkPaid("", now)
	assert.Equal(t, "pi_123", o.PaymentReference, "sin referencia nueva se conserva la anterior")
}

func TestOrderItem_Subtotal(t *testing.T) {
	it := entity.OrderItem{Price: decimal.NewFromInt(10), Quantity: 2}
	assert.True(t, it.Subtotal().Equal(decimal.NewFromInt(20)))
}

func TestValidaciones(t *testing.T) {
	assert.True(t, entity.IsValidCategory("books"))
	assert.False(t, entity.IsValidCategory("food"))
	assert.True(t, entity.IsValidOrderStatus("shipped"))
	assert.False(t, entity.IsValidOrderStatus("lost"))
	assert.True(t, entity.IsValidPaymentMethod("cash_on_delivery"))
	assert.False(t, entity.IsValidPaymentMethod("bitcoin"))
	assert.True(t, entity.IsValidRole("admin"))
	assert.False(t, entity.IsValidRole("bodeguero"))
}

func TestProduct_HasStock(t *testing.T) {
	p := &entity.Product{Stock: 5, Images: []string{"a.png", "b.png"}}
	assert.True(t, p.HasStock(5))
	assert.False(t, p.HasStock(6))
	assert.False(t, p.HasStock(0))
	assert.Equal(t, "a.png", p.MainImage())
}
