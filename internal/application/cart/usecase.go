package cart

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// OrderCreator crea el pedido en el checkout (implementado por order.OrderUseCase).
type OrderCreator interface {
	CreateOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error)
}

// CartUseCase carrito de servidor. Las operaciones reciben el carrito ya cargado
// (el middleware lo deja en el contexto de la petición) y lo persisten en el CartStore.
type CartUseCase struct {
	store    repository.CartStore
	products repository.ProductRepository
	orders   OrderCreator
	now      func() time.Time
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(store repository.CartStore, products repository.ProductRepository, orders OrderCreator) *CartUseCase {
	return &CartUseCase{store: store, products: products, orders: orders, now: time.Now}
}

// Load devuelve el carrito guardado de userID o uno vacío.
func (uc *CartUseCase) Load(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := uc.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return entity.NewCart(userID), nil
	}
	return c, nil
}

// AddItem agrega quantity unidades (1 por defecto). Si la línea existe, suma cantidades.
// La cantidad resultante no puede superar el stock actual del producto.
func (uc *CartUseCase) AddItem(ctx context.Context, c *entity.Cart, in dto.AddCartItemRequest) (*dto.CartResponse, error) {
	productID := strings.TrimSpace(in.ProductID)
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if productID == "" || qty < 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.product(ctx, productID)
	if err != nil {
		return nil, err
	}

	line := c.Find(productID)
	total := qty
	if line != nil {
		total += line.Quantity
	}
	if !product.HasStock(total) {
		return nil, &domain.StockError{ProductID: product.ID, Title: product.Title, Available: product.Stock, Requested: total}
	}
	if line == nil {
		c.Items = append(c.Items, entity.CartItem{ProductID: product.ID})
		line = &c.Items[len(c.Items)-1]
	}
	refresh(line, product)
	line.Quantity = total
	return uc.save(ctx, c)
}

// UpdateItem fija la cantidad de una línea. quantity <= 0 la elimina.
func (uc *CartUseCase) UpdateItem(ctx context.Context, c *entity.Cart, productID string, quantity int) (*dto.CartResponse, error) {
	line := c.Find(productID)
	if line == nil {
		return nil, &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: productID}
	}
	if quantity <= 0 {
		c.Remove(productID)
		return uc.save(ctx, c)
	}
	product, err := uc.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasStock(quantity) {
		return nil, &domain.StockError{ProductID: product.ID, Title: product.Title, Available: product.Stock, Requested: quantity}
	}
	refresh(line, product)
	line.Quantity = quantity
	return uc.save(ctx, c)
}

// RemoveItem quita la línea del producto; no falla si no estaba.
func (uc *CartUseCase) RemoveItem(ctx context.Context, c *entity.Cart, productID string) (*dto.CartResponse, error) {
	c.Remove(productID)
	return uc.save(ctx, c)
}

// Clear vacía el carrito y lo elimina del almacén.
func (uc *CartUseCase) Clear(ctx context.Context, c *entity.Cart) (*dto.CartResponse, error) {
	c.Clear()
	c.UpdatedAt = uc.now()
	if err := uc.store.Delete(ctx, c.UserID); err != nil {
		return nil, err
	}
	return ToResponse(c), nil
}

// Checkout crea un pedido con las líneas del carrito y lo vacía si el pedido se confirmó.
// Precios y stock se vuelven a validar dentro de la transacción del pedido.
func (uc *CartUseCase) Checkout(ctx context.Context, c *entity.Cart, in dto.CheckoutRequest) (*dto.OrderResponse, error) {
	if len(c.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	req := dto.CreateOrderRequest{
		Items:           make([]dto.OrderItemRequest, 0, len(c.Items)),
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
	}
	for _, it := range c.Items {
		req.Items = append(req.Items, dto.OrderItemRequest{Product: it.ProductID, Quantity: it.Quantity})
	}
	order, err := uc.orders.CreateOrder(ctx, c.UserID, req)
	if err != nil {
		return nil, err
	}
	c.Clear()
	if err := uc.store.Delete(ctx, c.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *CartUseCase) product(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: id}
	}
	return p, nil
}

func (uc *CartUseCase) save(ctx context.Context, c *entity.Cart) (*dto.CartResponse, error) {
	c.UpdatedAt = uc.now()
	if err := uc.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return ToResponse(c), nil
}

func refresh(line *entity.CartItem, p *entity.Product) {
	line.Title = p.Title
	line.Price = p.Price
	line.Image = p.MainImage()
	line.Stock = p.Stock
}

// ToResponse convierte el carrito al DTO con totales derivados.
func ToResponse(c *entity.Cart) *dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, dto.CartItemResponse{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Image:     it.Image,
			Stock:     it.Stock,
			Quantity:  it.Quantity,
			Subtotal:  it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	return &dto.CartResponse{
		Items:      items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
		UpdatedAt:  c.UpdatedAt,
	}
}
