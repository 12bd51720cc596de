package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

const defaultUserLimit = 10

// UserUseCase administración de usuarios (listado, rol, baja).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List lista usuarios paginados, más recientes primero.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.Page[dto.UserResponse], error) {
	page = page.Normalize(defaultUserLimit)
	list, total, err := uc.repo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *entityToUserResponse(u))
	}
	return &dto.Page[dto.UserResponse]{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &domain.NotFoundError{Kind: domain.ErrUserNotFound, ID: id}
	}
	return entityToUserResponse(user), nil
}

// UpdateRole cambia el rol. El cambio aplica a los tokens emitidos después.
func (uc *UserUseCase) UpdateRole(ctx context.Context, id, role string) (*dto.UserResponse, error) {
	if !entity.IsValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &domain.NotFoundError{Kind: domain.ErrUserNotFound, ID: id}
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Delete elimina un usuario. Un administrador no puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, requesterID, id string) error {
	if requesterID == id {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
