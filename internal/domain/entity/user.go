package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole indica si role pertenece al conjunto de roles conocidos.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User representa un cliente o administrador de la tienda.
type User struct {
	ID            string
	Name          string
	Email         string // único, normalizado a minúsculas
	PasswordHash  string // bcrypt hash, nunca plano en dominio después de persistir
	Role          string // user, admin
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
