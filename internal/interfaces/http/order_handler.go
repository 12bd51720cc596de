package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/order"
)

// OrderHandler maneja pedidos: creación, consultas, pago y estado.
type OrderHandler struct {
	uc       *order.OrderUseCase
	receipts *order.ReceiptUseCase
}

// NewOrderHandler construye el handler. receipts puede ser nil.
func NewOrderHandler(uc *order.OrderUseCase, receipts *order.ReceiptUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, receipts: receipts}
}

func requester(c *fiber.Ctx) order.Requester {
	return order.Requester{UserID: GetUserID(c), Role: GetRole(c)}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Valida stock, congela precios y descuenta stock en una sola transacción.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Ítems, dirección y método de pago"
// @Success      201   {object}  dto.APIResponse{data=dto.OrderResponse}
// @Failure      400   {object}  dto.APIResponse
// @Failure      404   {object}  dto.APIResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateOrder(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return respondMessage(c, fiber.StatusCreated, "Pedido creado exitosamente", out)
}

// ListMine godoc
// @Summary      Mis pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página"  default(1)
// @Param        limit  query  int  false  "Límite"  default(10)
// @Success      200    {object}  dto.APIResponse{data=[]dto.OrderResponse}
// @Router       /api/orders/my-orders [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	var q dto.PageRequest
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.ListMine(c.UserContext(), GetUserID(c), q)
	if err != nil {
		return err
	}
	return respondPage(c, out)
}

// ListAll godoc
// @Summary      Todos los pedidos (admin)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página"  default(1)
// @Param        limit   query  int     false  "Límite"  default(10)
// @Param        status  query  string  false  "Estado"
// @Success      200     {object}  dto.APIResponse{data=[]dto.OrderResponse}
// @Failure      403     {object}  dto.APIResponse
// @Router       /api/orders [get]
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.ListAll(c.UserContext(), q)
	if err != nil {
		return err
	}
	return respondPage(c, out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.APIResponse{data=dto.OrderResponse}
// @Failure      403  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"), requester(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Pay godoc
// @Summary      Pagar pedido (simulado)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID del pedido"
// @Param        body  body  dto.PayOrderRequest  false  "Referencia del pago"
// @Success      200   {object}  dto.APIResponse{data=dto.OrderResponse}
// @Failure      403   {object}  dto.APIResponse
// @Failure      404   {object}  dto.APIResponse
// @Router       /api/orders/{id}/pay [put]
func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayOrderRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return err
		}
	}
	out, err := h.uc.Pay(c.UserContext(), c.Params("id"), requester(c), in.PaymentIntentID)
	if err != nil {
		return err
	}
	return respondMessage(c, fiber.StatusOK, "Pago procesado exitosamente", out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido (admin)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.APIResponse{data=dto.OrderResponse}
// @Failure      400   {object}  dto.APIResponse
// @Failure      403   {object}  dto.APIResponse
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return err
	}
	return respondMessage(c, fiber.StatusOK, "Estado actualizado", out)
}

// Receipt godoc
// @Summary      Comprobante del pedido
// @Description  Descarga el comprobante en PDF. Solo el dueño o un administrador.
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIResponse
// @Failure      400  {object}  dto.APIResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.receipts.DownloadReceipt(c.UserContext(), c.Params("id"), requester(c))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
