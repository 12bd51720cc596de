package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, title, description, price, images, category, stock, featured, tags,
	ratings_average, ratings_count, created_at, updated_at`

// Documento de búsqueda: título con más peso que descripción y tags.
const productDocument = `setweight(to_tsvector('simple', title), 'A') ||
	setweight(to_tsvector('simple', description), 'B') ||
	setweight(to_tsvector('simple', array_to_string(tags, ' ')), 'C')`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Title, p.Description, p.Price, nonNil(p.Images), p.Category, p.Stock, p.Featured,
		nonNil(p.Tags), p.Ratings.Average, p.Ratings.Count, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los campos editables del producto. El stock sólo cambia con
// DecrementStock o SetStock, así una edición no pisa descuentos de pedidos concurrentes.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET title = $2, description = $3, price = $4, images = $5, category = $6,
			featured = $7, tags = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Title, p.Description, p.Price, nonNil(p.Images), p.Category, p.Featured,
		nonNil(p.Tags), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: p.ID}
	}
	return nil
}

// SetStock fija el stock; el CHECK de la tabla rechaza negativos.
func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int) error {
	if !validID(id) {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	return nil
}

// DecrementStock descuenta qty con la condición stock >= qty en el mismo UPDATE.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	if !validID(id) {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2 AND $2 > 0`,
		id, qty,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if !exists {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	return domain.ErrInsufficientStock
}

// List lista productos con filtros, orden y paginación; devuelve también el total filtrado.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int64, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	column := "created_at"
	switch f.SortBy {
	case repository.ProductSortPrice:
		column = "price"
	case repository.ProductSortTitle:
		column = "title"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		productColumns, cond, column, dir, dir, len(args)-1, len(args))

	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Search búsqueda de texto completo: cualquier término coincide, ordenado por ts_rank.
func (r *ProductRepo) Search(ctx context.Context, text string, limit, offset int) ([]*entity.Product, int64, error) {
	terms := searchTerms(text)
	if len(terms) == 0 {
		return []*entity.Product{}, 0, nil
	}
	tsquery := strings.Join(terms, " or ")

	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE (`+productDocument+`) @@ websearch_to_tsquery('simple', $1)`,
		tsquery,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}

	query := `
		SELECT ` + productColumns + ` FROM (
			SELECT *, ts_rank(` + productDocument + `, websearch_to_tsquery('simple', $1)) AS rank
			FROM products
			WHERE (` + productDocument + `) @@ websearch_to_tsquery('simple', $1)
		) matched
		ORDER BY rank DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	list, err := r.query(ctx, query, tsquery, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListFeatured destacados más recientes primero.
func (r *ProductRepo) ListFeatured(ctx context.Context, limit int) ([]*entity.Product, error) {
	return r.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE featured ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
}

// Delete elimina un producto por ID. Las líneas de pedido conservan su copia.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	return nil
}

func (r *ProductRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Images, &p.Category, &p.Stock,
		&p.Featured, &p.Tags, &p.Ratings.Average, &p.Ratings.Count, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// searchTerms separa la consulta en palabras sin operadores de websearch_to_tsquery.
func searchTerms(text string) []string {
	var out []string
	for _, t := range strings.Fields(strings.ToLower(text)) {
		t = strings.Trim(t, `"-()`)
		if t != "" && t != "or" {
			out = append(out, t)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
