package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics agregados de pedidos en un período. Los pedidos cancelados no cuentan.
type SalesMetrics struct {
	Orders      int64
	Units       int64
	Revenue     decimal.Decimal // suma de totalAmount
	PaidRevenue decimal.Decimal // sólo pedidos con paymentStatus=paid
}

// ProductSales unidades e ingresos de un producto, según las líneas congeladas del pedido.
type ProductSales struct {
	ProductID string
	Title     string
	Units     int64
	Revenue   decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el dashboard de ventas.
type AnalyticsRepository interface {
	// GetSalesMetrics agrega los pedidos creados entre start y end (inclusive).
	// Devuelve ceros si no hay pedidos en el período.
	GetSalesMetrics(ctx context.Context, startDate, endDate time.Time) (SalesMetrics, error)

	// GetTopProducts devuelve los limit productos con mayor ingreso en el período.
	GetTopProducts(ctx context.Context, startDate, endDate time.Time, limit int) ([]ProductSales, error)

	// CountByStatus cuenta todos los pedidos por estado.
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
