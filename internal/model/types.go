// Package model defines domain types used by the service.
package model

// Brand represents a seller with a per-category price list.
//
// Name is mutable and not required to be unique; lookups by name resolve to
// the first match in insertion order. A category absent from Prices means
// the brand does not sell in that category.
type Brand struct {
	ID     uint64               `json:"id"`
	Name   string               `json:"name"`
	Prices map[CategoryID]int64 `json:"prices"`
}

// Clone returns a deep copy of the brand.
func (b Brand) Clone() Brand {
	c := b
	c.Prices = make(map[CategoryID]int64, len(b.Prices))
	for k, v := range b.Prices {
		c.Prices[k] = v
	}
	return c
}

// CategoryBest is one category's cheapest offer: every brand that shares the
// minimum price, in scan order, plus the price itself.
type CategoryBest struct {
	Category Category
	Brands   []string
	Price    int64
}

// LowestPerCategory is the result of the cheapest-per-category query.
// Categories where no brand sells are absent from Entries.
type LowestPerCategory struct {
	Entries []CategoryBest
	Total   int64
}

// CategoryPrice is a single (category, price) line of a bundle breakdown.
type CategoryPrice struct {
	Category Category
	Price    int64
}

// CheapestBundle is the result of the single-brand whole-bundle query:
// the winning brand, its price for every category, and its total.
type CheapestBundle struct {
	Brand  string
	Prices []CategoryPrice
	Total  int64
}

// PricedBrand is a (brand name, price) pair within one category.
type PricedBrand struct {
	Brand string
	Price int64
}

// MinMax is the result of the per-category extremes query. Cheapest and
// Priciest are tie-inclusive and empty when no brand sells in the category;
// they may overlap when only one distinct price exists.
type MinMax struct {
	Category Category
	Cheapest []PricedBrand
	Priciest []PricedBrand
}
