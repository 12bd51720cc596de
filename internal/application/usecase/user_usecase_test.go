package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
)

func TestUserUseCase(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repo := memory.NewUserRepository(s)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		require.NoError(t, repo.Create(ctx, &entity.User{
			ID: fmt.Sprintf("u%d", i), Name: "Usuario", Email: fmt.Sprintf("u%d@mail.com", i),
			Role: entity.RoleUser, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	uc := NewUserUseCase(repo)

	t.Run("list default limit newest first", func(t *testing.T) {
		page, err := uc.List(ctx, dto.PageRequest{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 10)
		assert.Equal(t, "u11", page.Items[0].ID)
		assert.Equal(t, 2, page.Pagination.TotalPages)
	})

	t.Run("update role", func(t *testing.T) {
		out, err := uc.UpdateRole(ctx, "u1", entity.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, out.Role)

		_, err = uc.UpdateRole(ctx, "u1", "superuser")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = uc.UpdateRole(ctx, "nope", entity.RoleAdmin)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, uc.Delete(ctx, "u1", "u1"), domain.ErrConflict)
		require.NoError(t, uc.Delete(ctx, "u1", "u2"))
		_, err := uc.GetByID(ctx, "u2")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, memory.NewOrderRepository(s).Create(ctx, &entity.Order{ID: "o1", UserID: "u3"}))
		assert.ErrorIs(t, uc.Delete(ctx, "u1", "u3"), domain.ErrConflict)
	})
}
