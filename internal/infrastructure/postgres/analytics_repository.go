package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre pedidos para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics usa COALESCE para devolver cero si el período no tiene pedidos.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, startDate, endDate time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT
	    COUNT(*)                                                                AS orders,
	    COALESCE(SUM((SELECT SUM(quantity) FROM order_items oi WHERE oi.order_id = o.id)), 0) AS units,
	    COALESCE(SUM(o.total_amount), 0)                                        AS revenue,
	    COALESCE(SUM(o.total_amount) FILTER (WHERE o.payment_status = $4), 0)  AS paid_revenue
	FROM orders o
	WHERE o.created_at BETWEEN $1 AND $2
	  AND o.status <> $3`

	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, query, startDate, endDate, entity.OrderStatusCancelled, entity.PaymentStatusPaid).
		Scan(&m.Orders, &m.Units, &m.Revenue, &m.PaidRevenue)
	if err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return m, nil
}

// GetTopProducts agrupa por producto usando el título congelado más reciente.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, startDate, endDate time.Time, limit int) ([]repository.ProductSales, error) {
	const query = `
	SELECT
	    oi.product_id,
	    (ARRAY_AGG(oi.title ORDER BY o.created_at DESC))[1] AS title,
	    SUM(oi.quantity)                                    AS units,
	    SUM(oi.quantity * oi.price)                         AS revenue
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE o.created_at BETWEEN $1 AND $2
	  AND o.status <> $3
	GROUP BY oi.product_id
	ORDER BY revenue DESC, units DESC
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, startDate, endDate, entity.OrderStatusCancelled, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	results := make([]repository.ProductSales, 0, limit)
	for rows.Next() {
		var ps repository.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.Title, &ps.Units, &ps.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, ps)
	}
	return results, rows.Err()
}

// CountByStatus incluye los cinco estados aunque no tengan pedidos.
func (r *AnalyticsRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("analytics.CountByStatus: %w", err)
	}
	defer rows.Close()

	counts := emptyStatusCounts()
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("analytics.CountByStatus scan: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func emptyStatusCounts() map[string]int64 {
	return map[string]int64{
		entity.OrderStatusPending:    0,
		entity.OrderStatusProcessing: 0,
		entity.OrderStatusShipped:    0,
		entity.OrderStatusDelivered:  0,
		entity.OrderStatusCancelled:  0,
	}
}
