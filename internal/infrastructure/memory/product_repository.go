package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// NewProductRepository construye el repositorio sobre s.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

// Create inserta el producto.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrConflict
	}
	r.s.products[p.ID] = &productRow{seq: r.s.next(), p: cloneProduct(p)}
	return nil
}

// GetByID devuelve una copia del producto o (nil, nil).
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(row.p), nil
}

// GetForUpdate igual que GetByID; la exclusión la da TxRunner.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza los campos editables y conserva el stock vigente.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.products[p.ID]
	if !ok {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: p.ID}
	}
	stock := row.p.Stock
	row.p = cloneProduct(p)
	row.p.Stock = stock
	return nil
}

// SetStock fija el stock del producto.
func (r *ProductRepo) SetStock(_ context.Context, id string, stock int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.products[id]
	if !ok {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	if stock < 0 {
		return domain.ErrInvalidInput
	}
	row.p.Stock = stock
	return nil
}

// DecrementStock resta qty sólo si alcanza.
func (r *ProductRepo) DecrementStock(_ context.Context, id string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.products[id]
	if !ok {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	if qty <= 0 || row.p.Stock < qty {
		return domain.ErrInsufficientStock
	}
	row.p.Stock -= qty
	return nil
}

// List filtra, ordena y pagina.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]*productRow, 0, len(r.s.products))
	for _, row := range r.s.products {
		p := row.p
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var c int
		switch f.SortBy {
		case repository.ProductSortPrice:
			c = a.p.Price.Cmp(b.p.Price)
		case repository.ProductSortTitle:
			c = strings.Compare(a.p.Title, b.p.Title)
		default:
			c = a.p.CreatedAt.Compare(b.p.CreatedAt)
		}
		if c == 0 {
			c = int(a.seq - b.seq)
		}
		if f.SortDesc {
			return c > 0
		}
		return c < 0
	})
	return productsOf(page(rows, f.Limit, f.Offset)), int64(len(rows)), nil
}

// Search coincidencia de cualquier término en título, descripción o tags; ordena por número de coincidencias.
func (r *ProductRepo) Search(_ context.Context, query string, limit, offset int) ([]*entity.Product, int64, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []*entity.Product{}, 0, nil
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type hit struct {
		row   *productRow
		score int
	}
	var hits []hit
	for _, row := range r.s.products {
		text := strings.ToLower(row.p.Title + " " + row.p.Description + " " + strings.Join(row.p.Tags, " "))
		score := 0
		for _, t := range terms {
			score += strings.Count(text, t)
		}
		if score > 0 {
			hits = append(hits, hit{row: row, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].row.seq > hits[j].row.seq
	})
	rows := make([]*productRow, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, h.row)
	}
	return productsOf(page(rows, limit, offset)), int64(len(rows)), nil
}

// ListFeatured destacados más recientes primero.
func (r *ProductRepo) ListFeatured(_ context.Context, limit int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	rows := make([]*productRow, 0)
	for _, row := range r.s.products {
		if row.p.Featured {
			rows = append(rows, row)
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].p.CreatedAt.Compare(rows[j].p.CreatedAt); c != 0 {
			return c > 0
		}
		return rows[i].seq > rows[j].seq
	})
	return productsOf(page(rows, limit, 0)), nil
}

// Delete elimina el producto. Los pedidos conservan su copia.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	delete(r.s.products, id)
	return nil
}

func productsOf(rows []*productRow) []*entity.Product {
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneProduct(row.p))
	}
	return out
}
