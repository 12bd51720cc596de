// Package authz modela la autorización como permisos, independiente de cómo se guarda el rol.
package authz

import "github.com/jhoicas/tienda-api/internal/domain/entity"

// Permission capacidad que una ruta puede exigir.
type Permission string

const (
	ProductsWrite      Permission = "products:write"
	OrdersReadAll      Permission = "orders:read_all"
	OrdersUpdateStatus Permission = "orders:update_status"
	UsersManage        Permission = "users:manage"
)

// Authorizer decide si un rol tiene un permiso.
type Authorizer interface {
	Can(role string, p Permission) bool
}

// RolePolicy tabla estática rol -> permisos.
type RolePolicy map[string][]Permission

// DefaultPolicy: el administrador tiene todos los permisos; el cliente ninguno de administración.
func DefaultPolicy() RolePolicy {
	return RolePolicy{
		entity.RoleAdmin: {ProductsWrite, OrdersReadAll, OrdersUpdateStatus, UsersManage},
		entity.RoleUser:  {},
	}
}

// Can implementa Authorizer.
func (rp RolePolicy) Can(role string, p Permission) bool {
	for _, granted := range rp[role] {
		if granted == p {
			return true
		}
	}
	return false
}
