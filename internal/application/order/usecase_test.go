package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/authz"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e ports.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	uc       *order.OrderUseCase
	products *memory.ProductRepo
	pub      *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	pub := &recordingPublisher{}
	f := &fixture{
		products: memory.NewProductRepository(s),
		pub:      pub,
	}
	f.uc = order.NewOrderUseCase(memory.NewTxRunner(s), memory.NewOrderRepository(s), pub, authz.DefaultPolicy(), nil)
	return f
}

func (f *fixture) seed(t *testing.T, id string, price int64, stock int) {
	t.Helper()
	require.NoError(t, f.products.Create(context.Background(), &entity.Product{
		ID: id, Title: "Producto " + id, Description: "d", Price: decimal.NewFromInt(price),
		Images: []string{"x"}, Category: entity.CategoryOther, Stock: stock, CreatedAt: time.Now(),
	}))
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func request(items ...dto.OrderItemRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Items: items,
		ShippingAddress: dto.ShippingAddressDTO{
			Street: "Calle 1", City: "Bogotá", State: "DC", ZipCode: "110111", Country: "CO",
		},
		PaymentMethod: entity.PaymentMethodCashOnDelivery,
	}
}

func TestCreateOrder_DecrementsStockAndTotals(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 10, 5)

	out, err := f.uc.CreateOrder(context.Background(), "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 2}))
	require.NoError(t, err)

	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Producto p1", out.Items[0].Title)
	assert.Equal(t, 3, f.stock(t, "p1"))

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, ports.EventOrderCreated, f.pub.events[0].Type)
}

func TestCreateOrder_InsufficientStockLeavesStockUnchanged(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 10, 5)

	_, err := f.uc.CreateOrder(context.Background(), "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 10}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Producto p1", stockErr.Title)
	assert.Equal(t, 5, f.stock(t, "p1"))
	assert.Empty(t, f.pub.events)
}

func TestCreateOrder_FailureOnLaterItemRollsBackEarlierItems(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 10, 5)
	f.seed(t, "p2", 7, 1)

	_, err := f.uc.CreateOrder(context.Background(), "u1", request(
		dto.OrderItemRequest{Product: "p1", Quantity: 3},
		dto.OrderItemRequest{Product: "p2", Quantity: 2},
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, f.stock(t, "p1"))
	assert.Equal(t, 1, f.stock(t, "p2"))

	page, err := f.uc.ListMine(context.Background(), "u1", dto.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Pagination.Total)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateOrder(context.Background(), "u1", request(dto.OrderItemRequest{Product: "nope", Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrder_InvalidInput(t *testing.T) {
	f := newFixture(t)
	req := request()
	_, err := f.uc.CreateOrder(context.Background(), "u1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = request(dto.OrderItemRequest{Product: "p1", Quantity: 1})
	req.PaymentMethod = "bitcoin"
	_, err = f.uc.CreateOrder(context.Background(), "u1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateOrder_ConcurrentOrdersDoNotOversell(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 10, 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.CreateOrder(context.Background(), "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 1})); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, ok)
	assert.Equal(t, 0, f.stock(t, "p1"))
}

func TestGet_OwnerAdminAndStranger(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 10, 5)
	ctx := context.Background()
	created, err := f.uc.CreateOrder(ctx, "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 1}))
	require.NoError(t, err)

	_, err = f.uc.Get(ctx, created.ID, order.Requester{UserID: "u1", Role: entity.RoleUser})
	assert.NoError(t, err)
	_, err = f.uc.Get(ctx, created.ID, order.Requester{UserID: "admin", Role: entity.RoleAdmin})
	assert.NoError(t, err)
	_, err = f.uc.Get(ctx, created.ID, order.Requester{UserID: "u2", Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Get(ctx, "missing", order.Requester{UserID: "u1", Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestPay_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 10, 5)
	ctx := context.Background()
	created, err := f.uc.CreateOrder(ctx, "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 1}))
	require.NoError(t, err)

	_, err = f.uc.Pay(ctx, created.ID, order.Requester{UserID: "admin", Role: entity.RoleAdmin}, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	paid, err := f.uc.Pay(ctx, created.ID, order.Requester{UserID: "u1", Role: entity.RoleUser}, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, entity.OrderStatusProcessing, paid.Status)
	assert.Equal(t, "pi_123", paid.PaymentReference)
	assert.Equal(t, ports.EventOrderPaid, f.pub.events[len(f.pub.events)-1].Type)
}

func TestUpdateStatus_AnyValidValue(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 10, 5)
	ctx := context.Background()
	created, err := f.uc.CreateOrder(ctx, "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 1}))
	require.NoError(t, err)

	out, err := f.uc.UpdateStatus(ctx, created.ID, entity.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, out.Status)

	out, err = f.uc.UpdateStatus(ctx, created.ID, entity.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, out.Status)

	_, err = f.uc.UpdateStatus(ctx, created.ID, "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.UpdateStatus(ctx, "missing", entity.OrderStatusShipped)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAll_FilterByStatusAndPaginate(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "p1", 10, 50)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.uc.CreateOrder(ctx, "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 1}))
		require.NoError(t, err)
	}
	last, err := f.uc.CreateOrder(ctx, "u2", request(dto.OrderItemRequest{Product: "p1", Quantity: 1}))
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, last.ID, entity.OrderStatusShipped)
	require.NoError(t, err)

	all, err := f.uc.ListAll(ctx, dto.OrderListQuery{PageRequest: dto.PageRequest{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 4, all.Pagination.Total)
	assert.Equal(t, 2, all.Pagination.TotalPages)
	assert.True(t, all.Pagination.HasNextPage)
	assert.Len(t, all.Items, 2)

	shipped, err := f.uc.ListAll(ctx, dto.OrderListQuery{Status: entity.OrderStatusShipped})
	require.NoError(t, err)
	require.Len(t, shipped.Items, 1)
	assert.Equal(t, last.ID, shipped.Items[0].ID)

	mine, err := f.uc.ListMine(ctx, "u1", dto.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, mine.Pagination.Total)
	assert.Equal(t, 10, mine.Pagination.Limit)
}

func TestPublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker caído")
	f.seed(t, "p1", 10, 5)

	_, err := f.uc.CreateOrder(context.Background(), "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, 4, f.stock(t, "p1"))
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateCache() { c.calls++ }

func TestCreateOrder_InvalidatesCatalogOnlyAfterCommit(t *testing.T) {
	f := newFixture(t)
	inv := &countingInvalidator{}
	f.uc.WithCatalogInvalidator(inv)
	f.seed(t, "p1", 10, 5)

	_, err := f.uc.CreateOrder(context.Background(), "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 10}))
	require.Error(t, err)
	assert.Equal(t, 0, inv.calls)

	_, err = f.uc.CreateOrder(context.Background(), "u1", request(dto.OrderItemRequest{Product: "p1", Quantity: 2}))
	require.NoError(t, err)
	assert.Equal(t, 1, inv.calls)
}
