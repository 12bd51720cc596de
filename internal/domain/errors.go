package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrOrderNotFound      = errors.New("pedido no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidCredentials = errors.New("email o contraseña inválidos")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrEmptyCart          = errors.New("el carrito está vacío")
)

// StockError indica qué producto no tiene stock suficiente. errors.Is(err, ErrInsufficientStock) es true.
type StockError struct {
	ProductID string
	Title     string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s", e.Title)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// NotFoundError indica un recurso concreto inexistente (p.ej. un producto del carrito).
type NotFoundError struct {
	Kind error // ErrProductNotFound, ErrOrderNotFound...
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.ID)
}

// Unwrap permite errors.Is tanto contra el tipo concreto como contra ErrNotFound.
func (e *NotFoundError) Unwrap() []error { return []error{e.Kind, ErrNotFound} }
