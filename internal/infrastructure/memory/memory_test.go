package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/internal/infrastructure/cache"
)

func seedProduct(t *testing.T, repo *ProductRepo, id, title string, price int64, stock int, created time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &entity.Product{
		ID: id, Title: title, Description: "desc " + title, Price: decimal.NewFromInt(price),
		Images: []string{"img"}, Category: entity.CategoryBooks, Stock: stock, CreatedAt: created,
	}))
}

func TestProductRepo_ListFilterSortPage(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedProduct(t, repo, "a", "Alpha", 30, 1, base)
	seedProduct(t, repo, "b", "Bravo", 10, 1, base.Add(time.Hour))
	seedProduct(t, repo, "c", "Charlie", 20, 1, base.Add(2*time.Hour))

	list, total, err := repo.List(ctx, repository.ProductFilter{SortBy: repository.ProductSortCreatedAt, SortDesc: true, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	minPrice := decimal.NewFromInt(15)
	list, total, err = repo.List(ctx, repository.ProductFilter{MinPrice: &minPrice, SortBy: repository.ProductSortPrice, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)

	list, _, err = repo.List(ctx, repository.ProductFilter{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductRepo_DecrementStock(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())
	seedProduct(t, repo, "p1", "P1", 10, 5, time.Now())

	require.NoError(t, repo.DecrementStock(ctx, "p1", 2))
	err := repo.DecrementStock(ctx, "p1", 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestProductRepo_SearchRanksByMatches(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())
	now := time.Now()
	seedProduct(t, repo, "1", "Go programming", 10, 1, now)
	seedProduct(t, repo, "2", "Go go go", 10, 1, now)
	seedProduct(t, repo, "3", "Cooking", 10, 1, now)

	list, total, err := repo.Search(ctx, "go", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "2", list[0].ID)
}

func TestTxRunner_RollbackRestoresStock(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	products := NewProductRepository(s)
	orders := NewOrderRepository(s)
	seedProduct(t, products, "p1", "P1", 10, 5, time.Now())

	boom := errors.New("boom")
	err := NewTxRunner(s).RunOrder(ctx, func(pr repository.ProductRepository, or repository.OrderRepository) error {
		require.NoError(t, pr.DecrementStock(ctx, "p1", 3))
		require.NoError(t, or.Create(ctx, &entity.Order{ID: "o1", UserID: "u1", CreatedAt: time.Now()}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := products.GetByID(ctx, "p1")
	assert.Equal(t, 5, p.Stock)
	o, _ := orders.GetByID(ctx, "o1")
	assert.Nil(t, o)
}

func TestProductRepo_UpdateKeepsStock(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())
	seedProduct(t, repo, "p1", "P1", 10, 5, time.Now())

	// Copia leída antes de que un pedido descuente stock.
	stale, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, repo.DecrementStock(ctx, "p1", 2))

	stale.Title = "P1 renombrado"
	require.NoError(t, repo.Update(ctx, stale))
	p, _ := repo.GetByID(ctx, "p1")
	assert.Equal(t, "P1 renombrado", p.Title)
	assert.Equal(t, 3, p.Stock)

	require.NoError(t, repo.SetStock(ctx, "p1", 9))
	p, _ = repo.GetByID(ctx, "p1")
	assert.Equal(t, 9, p.Stock)
	assert.ErrorIs(t, repo.SetStock(ctx, "p1", -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, repo.SetStock(ctx, "nope", 1), domain.ErrProductNotFound)
}

func TestTxRunner_RollbackKeepsAdminEdits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	products := NewProductRepository(s)
	seedProduct(t, products, "p1", "P1", 10, 5, time.Now())

	boom := errors.New("boom")
	err := NewTxRunner(s).RunOrder(ctx, func(pr repository.ProductRepository, _ repository.OrderRepository) error {
		require.NoError(t, pr.DecrementStock(ctx, "p1", 3))
		// Edición de administración fuera de la transacción, mientras ésta sigue abierta.
		p, err := products.GetByID(ctx, "p1")
		require.NoError(t, err)
		p.Title = "P1 editado"
		p.Price = decimal.NewFromInt(12)
		require.NoError(t, products.Update(ctx, p))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := products.GetByID(ctx, "p1")
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, "P1 editado", p.Title)
	assert.True(t, decimal.NewFromInt(12).Equal(p.Price))
}

func TestUserRepo_DeleteWithOrdersConflicts(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	users := NewUserRepository(s)
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Email: "a@b.co"}))
	assert.ErrorIs(t, users.Create(ctx, &entity.User{ID: "u2", Email: "A@B.CO"}), domain.ErrEmailAlreadyExists)

	require.NoError(t, NewOrderRepository(s).Create(ctx, &entity.Order{ID: "o1", UserID: "u1"}))
	assert.ErrorIs(t, users.Delete(ctx, "u1"), domain.ErrConflict)
	assert.ErrorIs(t, users.Delete(ctx, "nope"), domain.ErrNotFound)
}

func TestCartStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := cache.New(time.Minute)
	defer c.Close()
	store := NewCartStore(c, time.Hour)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	cart := entity.NewCart("u1")
	cart.Items = append(cart.Items, entity.CartItem{ProductID: "p1", Price: decimal.NewFromInt(10), Quantity: 2})
	require.NoError(t, store.Save(ctx, cart))

	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.TotalItems())
	assert.True(t, got.TotalPrice().Equal(decimal.NewFromInt(20)))

	require.NoError(t, store.Delete(ctx, "u1"))
	got, _ = store.Get(ctx, "u1")
	assert.Nil(t, got)
}
