package repo

import (
	"strings"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
)

// ProductFilter narrows a product search. Nil bounds are ignored; the name
// matches case-insensitively anywhere in the product name.
type ProductFilter struct {
	Name     string
	MinPrice *float64
	MaxPrice *float64
	MinQty   *int
	MaxQty   *int
	Offset   *int
	Limit    *int
}

// Matches applies the filter to p in memory, mirroring filterConditions.
func (pf ProductFilter) Matches(p models.Product) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.MinPrice != nil && p.Price < *pf.MinPrice {
		return false
	}
	if pf.MaxPrice != nil && p.Price > *pf.MaxPrice {
		return false
	}
	if pf.MinQty != nil && p.Quantity < *pf.MinQty {
		return false
	}
	if pf.MaxQty != nil && p.Quantity > *pf.MaxQty {
		return false
	}
	return true
}
