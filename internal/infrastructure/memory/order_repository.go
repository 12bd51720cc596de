package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	s *Store
}

// NewOrderRepository construye el repositorio sobre s.
func NewOrderRepository(s *Store) *OrderRepo {
	return &OrderRepo{s: s}
}

// Create inserta el pedido con sus líneas.
func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID]; ok {
		return domain.ErrConflict
	}
	r.s.orders[o.ID] = &orderRow{seq: r.s.next(), o: cloneOrder(o)}
	return nil
}

// GetByID devuelve el pedido o (nil, nil).
func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(row.o), nil
}

// Update persiste estado, pago y referencia.
func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.orders[o.ID]
	if !ok {
		return &domain.NotFoundError{Kind: domain.ErrOrderNotFound, ID: o.ID}
	}
	row.o.Status = o.Status
	row.o.PaymentStatus = o.PaymentStatus
	row.o.PaymentReference = o.PaymentReference
	row.o.UpdatedAt = o.UpdatedAt
	return nil
}

// ListByUser pedidos de userID, más recientes primero.
func (r *OrderRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error) {
	return r.list(func(o *entity.Order) bool { return o.UserID == userID }, limit, offset)
}

// List todos los pedidos, opcionalmente por estado.
func (r *OrderRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Order, int64, error) {
	return r.list(func(o *entity.Order) bool { return status == "" || o.Status == status }, limit, offset)
}

func (r *OrderRepo) list(keep func(*entity.Order) bool, limit, offset int) ([]*entity.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]*orderRow, 0)
	for _, row := range r.s.orders {
		if keep(row.o) {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].o.CreatedAt.Compare(rows[j].o.CreatedAt); c != 0 {
			return c > 0
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]*entity.Order, 0)
	for _, row := range page(rows, limit, offset) {
		out = append(out, cloneOrder(row.o))
	}
	return out, int64(len(rows)), nil
}
