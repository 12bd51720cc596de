package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/cart"
	"github.com/jhoicas/tienda-api/internal/application/dto"
)

// CartHandler opera sobre el carrito cargado por CartMiddleware.
type CartHandler struct {
	uc *cart.CartUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.CartUseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse{data=dto.CartResponse}
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, cart.ToResponse(GetCart(c)))
}

// AddItem godoc
// @Summary      Agregar producto al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.APIResponse{data=dto.CartResponse}
// @Failure      400   {object}  dto.APIResponse
// @Failure      404   {object}  dto.APIResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddItem(c.UserContext(), GetCart(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// UpdateItem godoc
// @Summary      Cambiar cantidad (<= 0 elimina)
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                     true  "ID del producto"
// @Param        body       body  dto.UpdateCartItemRequest  true  "Cantidad"
// @Success      200        {object}  dto.APIResponse{data=dto.CartResponse}
// @Failure      400        {object}  dto.APIResponse
// @Router       /api/cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateCartItemRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateItem(c.UserContext(), GetCart(c), c.Params("productId"), in.Quantity)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// RemoveItem godoc
// @Summary      Quitar producto del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200        {object}  dto.APIResponse{data=dto.CartResponse}
// @Router       /api/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveItem(c.UserContext(), GetCart(c), c.Params("productId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse{data=dto.CartResponse}
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	out, err := h.uc.Clear(c.UserContext(), GetCart(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Checkout godoc
// @Summary      Confirmar compra del carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Dirección y método de pago"
// @Success      201   {object}  dto.APIResponse{data=dto.OrderResponse}
// @Failure      400   {object}  dto.APIResponse
// @Router       /api/cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Checkout(c.UserContext(), GetCart(c), in)
	if err != nil {
		return err
	}
	return respondMessage(c, fiber.StatusCreated, "Pedido creado exitosamente", out)
}
