package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

const (
	defaultProductLimit  = 12
	featuredProductLimit = 8

	cachePrefixProducts = "products:"
	cacheKeyFeatured    = cachePrefixProducts + "featured"
)

// ProductCache caché de lecturas del catálogo (JSON por clave).
type ProductCache interface {
	Marshal(key string, value interface{}, ttl ...time.Duration) error
	Unmarshal(key string, target interface{}) (bool, error)
	DeleteByPrefix(prefix string)
}

// ProductUseCase catálogo: listados públicos y CRUD de administración.
type ProductUseCase struct {
	repo  repository.ProductRepository
	cache ProductCache
	ttl   time.Duration
}

// NewProductUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewProductUseCase(repo repository.ProductRepository, cache ProductCache, ttl time.Duration) *ProductUseCase {
	return &ProductUseCase{repo: repo, cache: cache, ttl: ttl}
}

// Create crea un nuevo producto. Las valoraciones inician en cero.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !validPrice(in.Price) || in.Stock == nil || *in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidCategory(in.Category) || len(in.Images) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Images:      in.Images,
		Category:    in.Category,
		Stock:       *in.Stock,
		Featured:    in.Featured,
		Tags:        normalizeTags(in.Tags),
		Ratings:     entity.Ratings{Average: decimal.Zero},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Title == "" || product.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.InvalidateCache()
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID (con caché).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	key := cachePrefixProducts + "id:" + id
	var cached dto.ProductResponse
	if uc.cache != nil {
		if ok, _ := uc.cache.Unmarshal(key, &cached); ok {
			return &cached, nil
		}
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	out := toProductResponse(product)
	if uc.cache != nil {
		_ = uc.cache.Marshal(key, out, uc.ttl)
	}
	return out, nil
}

// Update aplica una actualización parcial.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	if in.Title != nil {
		product.Title = strings.TrimSpace(*in.Title)
		if product.Title == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
		if product.Description == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Price != nil {
		if !validPrice(*in.Price) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Images != nil {
		if len(in.Images) == 0 {
			return nil, domain.ErrInvalidInput
		}
		product.Images = in.Images
	}
	if in.Category != nil {
		if !entity.IsValidCategory(*in.Category) {
			return nil, domain.ErrInvalidInput
		}
		product.Category = *in.Category
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Featured != nil {
		product.Featured = *in.Featured
	}
	if in.Tags != nil {
		product.Tags = normalizeTags(in.Tags)
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	if in.Stock != nil {
		if err := uc.repo.SetStock(ctx, id, *in.Stock); err != nil {
			return nil, err
		}
	}
	uc.InvalidateCache()

	// Se relee para devolver el stock vigente (pudo cambiar por pedidos entre la lectura y la escritura).
	updated, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	return toProductResponse(updated), nil
}

// Delete elimina un producto. Los pedidos existentes conservan su copia.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.InvalidateCache()
	return nil
}

// List listado paginado con filtros de categoría, rango de precio y orden.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.Page[dto.ProductResponse], error) {
	page := q.PageRequest.Normalize(defaultProductLimit)
	filter := repository.ProductFilter{
		Category: q.Category,
		SortBy:   repository.ProductSortCreatedAt,
		SortDesc: true,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	}
	if q.Category != "" && !entity.IsValidCategory(q.Category) {
		return nil, domain.ErrInvalidInput
	}
	var err error
	if filter.MinPrice, err = parsePrice(q.MinPrice); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = parsePrice(q.MaxPrice); err != nil {
		return nil, err
	}
	if q.Sort != "" {
		field, desc := strings.TrimPrefix(q.Sort, "-"), strings.HasPrefix(q.Sort, "-")
		switch field {
		case repository.ProductSortCreatedAt, repository.ProductSortPrice, repository.ProductSortTitle:
			filter.SortBy, filter.SortDesc = field, desc
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toProductPage(list, page, total), nil
}

// Search búsqueda de texto completo ordenada por relevancia.
func (uc *ProductUseCase) Search(ctx context.Context, q dto.ProductSearchQuery) (*dto.Page[dto.ProductResponse], error) {
	term := strings.TrimSpace(q.Q)
	if term == "" {
		return nil, domain.ErrInvalidInput
	}
	page := q.PageRequest.Normalize(defaultProductLimit)
	list, total, err := uc.repo.Search(ctx, term, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	return toProductPage(list, page, total), nil
}

// Featured hasta 8 productos destacados, los más recientes primero.
func (uc *ProductUseCase) Featured(ctx context.Context) ([]dto.ProductResponse, error) {
	var cached []dto.ProductResponse
	if uc.cache != nil {
		if ok, _ := uc.cache.Unmarshal(cacheKeyFeatured, &cached); ok {
			return cached, nil
		}
	}
	list, err := uc.repo.ListFeatured(ctx, featuredProductLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	if uc.cache != nil {
		_ = uc.cache.Marshal(cacheKeyFeatured, out, uc.ttl)
	}
	return out, nil
}

// InvalidateCache descarta las lecturas cacheadas del catálogo. También la llaman
// los pedidos al descontar stock.
func (uc *ProductUseCase) InvalidateCache() {
	if uc.cache != nil {
		uc.cache.DeleteByPrefix(cachePrefixProducts)
	}
}

// validPrice precio no negativo con a lo sumo 2 decimales (NUMERIC(12,2)).
func validPrice(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Truncate(2))
}

func parsePrice(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return &d, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func toProductPage(list []*entity.Product, page dto.PageRequest, total int64) *dto.Page[dto.ProductResponse] {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.Page[dto.ProductResponse]{Items: items, Pagination: dto.NewPagination(page, total)}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Images:      images,
		Category:    p.Category,
		Stock:       p.Stock,
		Featured:    p.Featured,
		Tags:        tags,
		Ratings:     dto.RatingsResponse{Average: p.Ratings.Average, Count: p.Ratings.Count},
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
