package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

func TestGenerateReceiptPDF(t *testing.T) {
	o := &entity.Order{
		ID:     "3f2c9a1e-0000-4000-8000-000000000001",
		UserID: "u1",
		Items: []entity.OrderItem{
			{ProductID: "p1", Title: "Audífonos inalámbricos", Quantity: 2, Price: decimal.RequireFromString("59.90")},
			{ProductID: "p2", Title: "Funda", Quantity: 1, Price: decimal.NewFromInt(12)},
		},
		TotalAmount:   decimal.RequireFromString("131.80"),
		Status:        entity.OrderStatusProcessing,
		PaymentStatus: entity.PaymentStatusPaid,
		PaymentMethod: entity.PaymentMethodStripe,
		ShippingAddress: entity.ShippingAddress{
			Street: "Calle 10 # 5-20", City: "Medellín", State: "Antioquia", ZipCode: "050001", Country: "CO",
		},
		CreatedAt: time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC),
	}

	g := NewMarotoPDFGenerator("Tienda")
	for _, customer := range []*entity.User{{Name: "Ana", Email: "ana@example.com"}, nil} {
		out, err := g.GenerateReceiptPDF(context.Background(), o, customer)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0.00":       "0,00",
		"999.50":     "999,50",
		"25000.00":   "25.000,00",
		"1000000.10": "1.000.000,10",
		"1234":       "1.234",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(in), in)
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Contra entrega", paymentMethodLabel(entity.PaymentMethodCashOnDelivery))
	assert.Equal(t, "Pagado", paymentStatusLabel(entity.PaymentStatusPaid))
	assert.Equal(t, "otro", paymentStatusLabel("otro"))
	assert.Equal(t, "3f2c9a1e", orderNumber("3f2c9a1e-0000-4000-8000-000000000001"))
}
