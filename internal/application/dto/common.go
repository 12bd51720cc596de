package dto

import "math"

// PageRequest paginación por página para listados (page empieza en 1).
type PageRequest struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize aplica valores por defecto y límites: page >= 1, 1 <= limit <= 100.
func (p PageRequest) Normalize(defaultLimit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

// Offset filas a saltar para la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination metadatos de página en respuestas.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination calcula totalPages = ceil(total/limit), hasNext = page < totalPages, hasPrev = page > 1.
func NewPagination(page PageRequest, total int64) Pagination {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(page.Limit)))
	}
	return Pagination{
		CurrentPage: page.Page,
		TotalPages:  totalPages,
		Total:       total,
		Limit:       page.Limit,
		HasNextPage: page.Page < totalPages,
		HasPrevPage: page.Page > 1,
	}
}

// Page resultado paginado genérico.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// FieldError error de validación de un campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIResponse sobre común de todas las respuestas HTTP.
type APIResponse struct {
	Success    bool         `json:"success"`
	Code       string       `json:"code,omitempty"`
	Message    string       `json:"message,omitempty"`
	Data       any          `json:"data,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
}
