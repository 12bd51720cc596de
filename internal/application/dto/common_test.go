package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-api/internal/application/dto"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      dto.PageRequest
		total     int64
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"pagina 2 de 25 con limit 10", dto.PageRequest{Page: 2, Limit: 10}, 25, 3, true, true},
		{"ultima pagina", dto.PageRequest{Page: 3, Limit: 10}, 25, 3, false, true},
		{"primera pagina exacta", dto.PageRequest{Page: 1, Limit: 10}, 10, 1, false, false},
		{"sin resultados", dto.PageRequest{Page: 1, Limit: 12}, 0, 0, false, false},
		{"pagina fuera de rango", dto.PageRequest{Page: 5, Limit: 10}, 25, 3, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dto.NewPagination(tt.page, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantNext, p.HasNextPage)
			assert.Equal(t, tt.wantPrev, p.HasPrevPage)
			assert.Equal(t, tt.page.Page, p.CurrentPage)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestPageRequest_Normalize(t *testing.T) {
	p := dto.PageRequest{}.Normalize(12)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = dto.PageRequest{Page: 3, Limit: 500}.Normalize(12)
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 200, p.Offset())
}
