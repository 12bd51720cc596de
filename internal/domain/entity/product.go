package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías del catálogo.
const (
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryBooks       = "books"
	CategoryHome        = "home"
	CategorySports      = "sports"
	CategoryBeauty      = "beauty"
	CategoryToys        = "toys"
	CategoryOther       = "other"
)

// Categories lista ordenada de categorías válidas.
var Categories = []string{
	CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome,
	CategorySports, CategoryBeauty, CategoryToys, CategoryOther,
}

// IsValidCategory indica si c es una categoría del catálogo.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Ratings resumen de valoraciones (average en [0,5]).
type Ratings struct {
	Average decimal.Decimal
	Count   int
}

// Product representa una entrada del catálogo. Stock nunca es negativo.
type Product struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	Images      []string
	Category    string
	Stock       int
	Featured    bool
	Tags        []string
	Ratings     Ratings
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasStock indica si hay al menos qty unidades vendibles.
func (p *Product) HasStock(qty int) bool {
	return qty > 0 && p.Stock >= qty
}

// MainImage primera imagen del producto o "" si no tiene.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
