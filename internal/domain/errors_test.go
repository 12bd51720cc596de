package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-api/internal/domain"
)

func TestStockError_EsInsufficientStock(t *testing.T) {
	err := fmt.Errorf("crear pedido: %w", &domain.StockError{ProductID: "p1", Title: "Teclado", Available: 1, Requested: 3})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var se *domain.StockError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "Teclado", se.Title)
	assert.Contains(t, err.Error(), "Teclado")
}

func TestNotFoundError_EsAmbosSentinels(t *testing.T) {
	err := &domain.NotFoundError{Kind: domain.ErrProductNotFound, ID: "abc"}

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Contains(t, err.Error(), "abc")
}
