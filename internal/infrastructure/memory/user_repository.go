package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// NewUserRepository construye el repositorio sobre s.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func (r *UserRepo) emailTaken(email, exceptID string) bool {
	for id, row := range r.s.users {
		if id != exceptID && strings.EqualFold(row.u.Email, email) {
			return true
		}
	}
	return false
}

// Create inserta el usuario; email duplicado → ErrEmailAlreadyExists.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(u.Email, "") {
		return domain.ErrEmailAlreadyExists
	}
	r.s.users[u.ID] = &userRow{seq: r.s.next(), u: cloneUser(u)}
	return nil
}

// GetByID devuelve el usuario o (nil, nil).
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(row.u), nil
}

// GetByEmail busca sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.users {
		if strings.EqualFold(row.u.Email, email) {
			return cloneUser(row.u), nil
		}
	}
	return nil, nil
}

// Update persiste nombre, email, rol y verificación.
func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[u.ID]
	if !ok {
		return &domain.NotFoundError{Kind: domain.ErrUserNotFound, ID: u.ID}
	}
	if r.emailTaken(u.Email, u.ID) {
		return domain.ErrEmailAlreadyExists
	}
	row.u = cloneUser(u)
	return nil
}

// List usuarios más recientes primero.
func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]*userRow, 0, len(r.s.users))
	for _, row := range r.s.users {
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].u.CreatedAt.Compare(rows[j].u.CreatedAt); c != 0 {
			return c > 0
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]*entity.User, 0)
	for _, row := range page(rows, limit, offset) {
		out = append(out, cloneUser(row.u))
	}
	return out, int64(len(rows)), nil
}

// Delete elimina el usuario; si tiene pedidos retorna ErrConflict (como la FK en PostgreSQL).
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return &domain.NotFoundError{Kind: domain.ErrUserNotFound, ID: id}
	}
	for _, row := range r.s.orders {
		if row.o.UserID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.users, id)
	return nil
}
