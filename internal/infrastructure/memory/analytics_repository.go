package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados calculados recorriendo los pedidos en memoria.
type AnalyticsRepo struct {
	s *Store
}

// NewAnalyticsRepository construye el repositorio sobre s.
func NewAnalyticsRepository(s *Store) *AnalyticsRepo {
	return &AnalyticsRepo{s: s}
}

// GetSalesMetrics implementa AnalyticsRepository.
func (r *AnalyticsRepo) GetSalesMetrics(_ context.Context, startDate, endDate time.Time) (repository.SalesMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m := repository.SalesMetrics{Revenue: decimal.Zero, PaidRevenue: decimal.Zero}
	for _, row := range r.s.orders {
		o := row.o
		if !counts(o, startDate, endDate) {
			continue
		}
		m.Orders++
		m.Units += int64(o.ItemCount())
		m.Revenue = m.Revenue.Add(o.TotalAmount)
		if o.PaymentStatus == entity.PaymentStatusPaid {
			m.PaidRevenue = m.PaidRevenue.Add(o.TotalAmount)
		}
	}
	return m, nil
}

// GetTopProducts implementa AnalyticsRepository.
func (r *AnalyticsRepo) GetTopProducts(_ context.Context, startDate, endDate time.Time, limit int) ([]repository.ProductSales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byProduct := make(map[string]*repository.ProductSales)
	latest := make(map[string]time.Time)
	for _, row := range r.s.orders {
		o := row.o
		if !counts(o, startDate, endDate) {
			continue
		}
		for _, it := range o.Items {
			ps, ok := byProduct[it.ProductID]
			if !ok {
				ps = &repository.ProductSales{ProductID: it.ProductID, Revenue: decimal.Zero}
				byProduct[it.ProductID] = ps
			}
			if o.CreatedAt.After(latest[it.ProductID]) || ps.Title == "" {
				ps.Title = it.Title
				latest[it.ProductID] = o.CreatedAt
			}
			ps.Units += int64(it.Quantity)
			ps.Revenue = ps.Revenue.Add(it.Subtotal())
		}
	}
	results := make([]repository.ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		results = append(results, *ps)
	}
	sort.Slice(results, func(i, j int) bool {
		if c := results[i].Revenue.Cmp(results[j].Revenue); c != 0 {
			return c > 0
		}
		if results[i].Units != results[j].Units {
			return results[i].Units > results[j].Units
		}
		return results[i].ProductID < results[j].ProductID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountByStatus implementa AnalyticsRepository.
func (r *AnalyticsRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]int64{
		entity.OrderStatusPending:    0,
		entity.OrderStatusProcessing: 0,
		entity.OrderStatusShipped:    0,
		entity.OrderStatusDelivered:  0,
		entity.OrderStatusCancelled:  0,
	}
	for _, row := range r.s.orders {
		out[row.o.Status]++
	}
	return out, nil
}

func counts(o *entity.Order, startDate, endDate time.Time) bool {
	return o.Status != entity.OrderStatusCancelled &&
		!o.CreatedAt.Before(startDate) && !o.CreatedAt.After(endDate)
}
