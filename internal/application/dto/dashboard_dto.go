package dto

import "github.com/shopspring/decimal"

// SalesSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs del día y del mes en curso, pedidos por estado y top de productos del mes.
type SalesSummaryDTO struct {
	// Día actual (00:00 – 23:59)
	TodayOrders int64           `json:"todayOrders"`
	TodaySales  decimal.Decimal `json:"todaySales"`

	// Mes en curso (día 1 – hoy)
	MonthlyOrders      int64           `json:"monthlyOrders"`
	MonthlyUnits       int64           `json:"monthlyUnits"`
	MonthlySales       decimal.Decimal `json:"monthlySales"`
	MonthlyPaidSales   decimal.Decimal `json:"monthlyPaidSales"`
	MonthlyAverageSale decimal.Decimal `json:"monthlyAverageSale"`

	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	TopProducts    []TopProductDTO  `json:"topProducts"`

	DateLabel string `json:"dateLabel"` // ej: "Febrero 2026"
}

// TopProductDTO producto del widget de más vendidos.
type TopProductDTO struct {
	ProductID    string          `json:"productId"`
	Title        string          `json:"title"`
	UnitsSold    int64           `json:"unitsSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}
