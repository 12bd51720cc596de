package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/authz"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

const defaultOrderLimit = 10

// Requester identidad que invoca una operación sobre pedidos.
type Requester struct {
	UserID string
	Role   string
}

// OrderUseCase creación de pedidos con descuento de stock, consultas, pago y estado.
type OrderUseCase struct {
	txRunner   TxRunner
	orderRepo  repository.OrderRepository
	publisher  ports.OrderEventPublisher
	authorizer authz.Authorizer
	catalog    CatalogInvalidator
	log        *logger.Logger
	now        func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	publisher ports.OrderEventPublisher,
	authorizer authz.Authorizer,
	log *logger.Logger,
) *OrderUseCase {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{
		txRunner:   txRunner,
		orderRepo:  orderRepo,
		publisher:  publisher,
		authorizer: authorizer,
		log:        log.Component("orders"),
		now:        time.Now,
	}
}

// WithCatalogInvalidator registra quién limpia la caché del catálogo después de cada pedido.
func (uc *OrderUseCase) WithCatalogInvalidator(inv CatalogInvalidator) *OrderUseCase {
	uc.catalog = inv
	return uc
}

// CreateOrder valida cada línea contra el stock, congela precios, descuenta stock y persiste el pedido.
// Todo ocurre en una transacción: si una línea falla, ningún stock queda descontado.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	now := uc.now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           make([]entity.OrderItem, 0, len(in.Items)),
		TotalAmount:     decimal.Zero,
		Status:          entity.OrderStatusPending,
		PaymentStatus:   entity.PaymentStatusPending,
		ShippingAddress: toShippingAddress(in.ShippingAddress),
		PaymentMethod:   in.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.txRunner.RunOrder(ctx, func(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) error {
		// En orden de entrada; el bloqueo de fila serializa pedidos concurrentes sobre el mismo producto.
		for _, item := range in.Items {
			product, err := productRepo.GetForUpdate(ctx, item.Product)
			if err != nil {
				return err
			}
			if product == nil {
				return &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: item.Product}
			}
			if !product.HasStock(item.Quantity) {
				return stockError(product, item.Quantity)
			}
			if err := productRepo.DecrementStock(ctx, product.ID, item.Quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return stockError(product, item.Quantity)
				}
				return err
			}
			line := entity.OrderItem{
				ProductID: product.ID,
				Title:     product.Title,
				Quantity:  item.Quantity,
				Price:     product.Price,
			}
			order.Items = append(order.Items, line)
			order.TotalAmount = order.TotalAmount.Add(line.Subtotal())
		}
		return orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	if uc.catalog != nil {
		uc.catalog.InvalidateCache()
	}

	uc.log.Info().Str("order_id", order.ID).Str("user_id", userID).
		Str("total", order.TotalAmount.StringFixed(2)).Int("items", len(order.Items)).Msg("pedido creado")
	uc.publish(ctx, ports.EventOrderCreated, order)
	return toOrderResponse(order), nil
}

// Get devuelve un pedido si requester es el dueño o tiene orders:read_all.
func (uc *OrderUseCase) Get(ctx context.Context, id string, requester Requester) (*dto.OrderResponse, error) {
	order, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(requester.UserID) && !uc.authorizer.Can(requester.Role, authz.OrdersReadAll) {
		return nil, domain.ErrForbidden
	}
	return toOrderResponse(order), nil
}

// ListMine pedidos propios paginados, más recientes primero.
func (uc *OrderUseCase) ListMine(ctx context.Context, userID string, page dto.PageRequest) (*dto.Page[dto.OrderResponse], error) {
	page = page.Normalize(defaultOrderLimit)
	list, total, err := uc.orderRepo.ListByUser(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	return toOrderPage(list, page, total), nil
}

// ListAll todos los pedidos (admin), con filtro opcional por estado.
func (uc *OrderUseCase) ListAll(ctx context.Context, q dto.OrderListQuery) (*dto.Page[dto.OrderResponse], error) {
	if q.Status != "" && !entity.IsValidOrderStatus(q.Status) {
		return nil, domain.ErrInvalidInput
	}
	page := q.PageRequest.Normalize(defaultOrderLimit)
	list, total, err := uc.orderRepo.List(ctx, q.Status, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	return toOrderPage(list, page, total), nil
}

// Pay registra el pago simulado: sólo el dueño puede pagar. Deja paymentStatus=paid y status=processing.
func (uc *OrderUseCase) Pay(ctx context.Context, id string, requester Requester, paymentReference string) (*dto.OrderResponse, error) {
	order, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(requester.UserID) {
		return nil, domain.ErrForbidden
	}
	order.MarkPaid(strings.TrimSpace(paymentReference), uc.now())
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Msg("pago registrado")
	uc.publish(ctx, ports.EventOrderPaid, order)
	return toOrderResponse(order), nil
}

// UpdateStatus fija el estado (admin). Se acepta cualquiera de los cinco valores desde cualquier estado.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	if !entity.IsValidOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	order.Status = status
	order.UpdatedAt = uc.now()
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("from", previous).Str("to", status).Msg("estado de pedido actualizado")
	uc.publish(ctx, ports.EventOrderStatusChanged, order)
	return toOrderResponse(order), nil
}

func (uc *OrderUseCase) load(ctx context.Context, id string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &domain.NotFoundError{Kind: domain.ErrOrderNotFound, ID: id}
	}
	return order, nil
}

func (uc *OrderUseCase) publish(ctx context.Context, eventType string, order *entity.Order) {
	event := ports.OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
		OccurredAt:    uc.now().UTC(),
	}
	for _, it := range order.Items {
		event.Items = append(event.Items, ports.OrderEventItem{
			ProductID: it.ProductID, Title: it.Title, Quantity: it.Quantity, Price: it.Price,
		})
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.log.Error().Err(err).Str("order_id", order.ID).Str("event", eventType).Msg("publicar evento de pedido")
	}
}

func validateCreate(in dto.CreateOrderRequest) error {
	if len(in.Items) == 0 || !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.Product) == "" || it.Quantity < 1 {
			return domain.ErrInvalidInput
		}
	}
	a := in.ShippingAddress
	for _, f := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if strings.TrimSpace(f) == "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func stockError(p *entity.Product, requested int) error {
	return &domain.StockError{ProductID: p.ID, Title: p.Title, Available: p.Stock, Requested: requested}
}

func toShippingAddress(a dto.ShippingAddressDTO) entity.ShippingAddress {
	return entity.ShippingAddress{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
}

func toOrderPage(list []*entity.Order, page dto.PageRequest, total int64) *dto.Page[dto.OrderResponse] {
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.Page[dto.OrderResponse]{Items: items, Pagination: dto.NewPagination(page, total)}
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			Product:  it.ProductID,
			Title:    it.Title,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	a := o.ShippingAddress
	return &dto.OrderResponse{
		ID:               o.ID,
		User:             o.UserID,
		Items:            items,
		TotalAmount:      o.TotalAmount,
		Status:           o.Status,
		PaymentStatus:    o.PaymentStatus,
		ShippingAddress:  dto.ShippingAddressDTO{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country},
		PaymentMethod:    o.PaymentMethod,
		PaymentReference: o.PaymentReference,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
