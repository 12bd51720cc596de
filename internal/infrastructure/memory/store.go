// Package memory implementa los puertos de persistencia en memoria.
// Misma semántica que el adaptador PostgreSQL; se usa en desarrollo (STORE_DRIVER=memory) y en tests.
package memory

import (
	"sync"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// Store datos compartidos por los repositorios en memoria.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex // serializa transacciones, equivale al bloqueo de fila
	seq      int64
	products map[string]*productRow
	users    map[string]*userRow
	orders   map[string]*orderRow
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*productRow),
		users:    make(map[string]*userRow),
		orders:   make(map[string]*orderRow),
	}
}

// Las filas guardan el orden de inserción para desempatar listados con igual createdAt.
type productRow struct {
	seq int64
	p   *entity.Product
}

type userRow struct {
	seq int64
	u   *entity.User
}

type orderRow struct {
	seq int64
	o   *entity.Order
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	cp.Tags = append([]string(nil), p.Tags...)
	return &cp
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	return &cp
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
