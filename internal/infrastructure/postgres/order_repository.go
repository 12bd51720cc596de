package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, total_amount, status, payment_status, payment_method, payment_reference,
	ship_street, ship_city, ship_state, ship_zip_code, ship_country, created_at, updated_at`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera y las líneas. Debe ejecutarse dentro de la tx del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	a := o.ShippingAddress
	_, err := r.q.Exec(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.UserID, o.TotalAmount, o.Status, o.PaymentStatus, o.PaymentMethod, o.PaymentReference,
		a.Street, a.City, a.State, a.ZipCode, a.Country, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.NotFoundError{Kind: domain.ErrUserNotFound, ID: o.UserID}
		}
		return fmt.Errorf("insert order: %w", err)
	}
	for i, it := range o.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO order_items (order_id, position, product_id, title, quantity, price) VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, i, it.ProductID, it.Title, it.Quantity, it.Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// Update persiste estado, estado de pago y referencia de pago.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2, payment_status = $3, payment_reference = $4, updated_at = $5 WHERE id = $1`,
		o.ID, o.Status, o.PaymentStatus, o.PaymentReference, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: domain.ErrOrderNotFound, ID: o.ID}
	}
	return nil
}

// ListByUser pedidos del usuario, más recientes primero.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Order, int64, error) {
	if !validID(userID) {
		return []*entity.Order{}, 0, nil
	}
	return r.list(ctx, "WHERE user_id = $1", []any{userID}, limit, offset)
}

// List todos los pedidos; status vacío no filtra.
func (r *OrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Order, int64, error) {
	if status == "" {
		return r.list(ctx, "", nil, limit, offset)
	}
	return r.list(ctx, "WHERE status = $1", []any{status}, limit, offset)
}

func (r *OrderRepo) list(ctx context.Context, cond string, args []any, limit, offset int) ([]*entity.Order, int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM orders `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, cond, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// loadItems carga las líneas de todos los pedidos en una sola consulta.
func (r *OrderRepo) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		o.Items = []entity.OrderItem{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx,
		`SELECT order_id, product_id, title, quantity, price FROM order_items
		 WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var it entity.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Title, &it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	a := &o.ShippingAddress
	if err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.PaymentReference, &a.Street, &a.City, &a.State, &a.ZipCode, &a.Country,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
