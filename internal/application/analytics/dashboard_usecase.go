// Package analytics contiene los casos de uso del dashboard de ventas para administración.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// DashboardUseCase genera el resumen de ventas del día y del mes en curso.
// No accede a los pedidos directamente; delega todo en AnalyticsRepository.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el SalesSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. GetSalesMetrics(hoy)
//  2. GetSalesMetrics(mes)
//  3. GetTopProducts(mes, top 5)
//  4. CountByStatus()
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.SalesSummaryDTO, error) {
	now := uc.now()

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type metricsResult struct {
		m   repository.SalesMetrics
		err error
	}
	type topResult struct {
		products []repository.ProductSales
		err      error
	}
	type statusResult struct {
		counts map[string]int64
		err    error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)
	statusCh := make(chan statusResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, todayStart, todayEnd)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, monthStart, todayEnd)
		monthCh <- metricsResult{m, err}
	}()
	go func() {
		p, err := uc.analyticsRepo.GetTopProducts(ctx, monthStart, todayEnd, dashboardTopProducts)
		topCh <- topResult{p, err}
	}()
	go func() {
		c, err := uc.analyticsRepo.CountByStatus(ctx)
		statusCh <- statusResult{c, err}
	}()

	today, month, top, status := <-todayCh, <-monthCh, <-topCh, <-statusCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if status.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos por estado: %w", status.err)
	}

	average := decimal.Zero
	if month.m.Orders > 0 {
		average = month.m.Revenue.Div(decimal.NewFromInt(month.m.Orders)).Round(2)
	}

	products := make([]dto.TopProductDTO, 0, len(top.products))
	for _, p := range top.products {
		products = append(products, dto.TopProductDTO{
			ProductID:    p.ProductID,
			Title:        p.Title,
			UnitsSold:    p.Units,
			TotalRevenue: p.Revenue.Round(2),
		})
	}

	return &dto.SalesSummaryDTO{
		TodayOrders:        today.m.Orders,
		TodaySales:         today.m.Revenue.Round(2),
		MonthlyOrders:      month.m.Orders,
		MonthlyUnits:       month.m.Units,
		MonthlySales:       month.m.Revenue.Round(2),
		MonthlyPaidSales:   month.m.PaidRevenue.Round(2),
		MonthlyAverageSale: average,
		OrdersByStatus:     status.counts,
		TopProducts:        products,
		DateLabel:          monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
