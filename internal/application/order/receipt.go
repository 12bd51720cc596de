package order

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/authz"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// ReceiptPDFGenerator genera el comprobante del pedido en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, order *entity.Order, customer *entity.User) ([]byte, error)
}

// ReceiptUseCase genera el comprobante PDF de un pedido para su dueño o un administrador.
type ReceiptUseCase struct {
	orderRepo  repository.OrderRepository
	userRepo   repository.UserRepository
	authorizer authz.Authorizer
	generator  ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	authorizer authz.Authorizer,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		authorizer: authorizer,
		generator:  generator,
	}
}

// DownloadReceipt devuelve (pdfBytes, filename).
//
//   - NotFoundError si el pedido no existe.
//   - domain.ErrForbidden si requester no es el dueño ni tiene orders:read_all.
//   - domain.ErrConflict si el pedido está cancelado.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, id string, requester Requester) ([]byte, string, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", &domain.NotFoundError{Kind: domain.ErrOrderNotFound, ID: id}
	}
	if !order.IsOwnedBy(requester.UserID) && !uc.authorizer.Can(requester.Role, authz.OrdersReadAll) {
		return nil, "", domain.ErrForbidden
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, "", fmt.Errorf("%w: el pedido está cancelado", domain.ErrConflict)
	}

	// Si el cliente ya no existe el comprobante sale sin sus datos.
	customer, err := uc.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener cliente: %w", err)
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, order, customer)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("pedido_%s.pdf", shortID(order.ID)), nil
}

// shortID primeros 8 caracteres del UUID, usados como número visible del pedido.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
