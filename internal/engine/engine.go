// Package engine implements the three price aggregation queries. Every
// function is pure: it reads a matrix snapshot, mutates nothing, and is
// deterministic for a given snapshot.
package engine

import (
	"sort"

	"github.com/fairyhunter13/brand-price-service/internal/model"
)

type offer struct {
	brand string
	price int64
}

// offersFor collects every brand selling in cat, preserving snapshot
// (insertion) order.
func offersFor(snapshot []model.Brand, cat model.CategoryID) []offer {
	var out []offer
	for _, b := range snapshot {
		if p, ok := b.Prices[cat]; ok {
			out = append(out, offer{brand: b.Name, price: p})
		}
	}
	return out
}

// LowestPerCategory reports, for each category with at least one seller, the
// minimum price and every brand offering it, plus the sum of those minima.
// Ties are comma-joined by the caller-facing layer; here they stay a slice
// ordered by ascending price scan with insertion order breaking ties.
// Categories nobody sells in are absent from the result.
func LowestPerCategory(snapshot []model.Brand) model.LowestPerCategory {
	var res model.LowestPerCategory
	for _, cat := range model.Categories() {
		offers := offersFor(snapshot, cat.ID)
		if len(offers) == 0 {
			continue
		}
		sort.SliceStable(offers, func(i, j int) bool { return offers[i].price < offers[j].price })
		min := offers[0].price
		var names []string
		for _, o := range offers {
			if o.price != min {
				break
			}
			names = append(names, o.brand)
		}
		res.Entries = append(res.Entries, model.CategoryBest{Category: cat, Brands: names, Price: min})
		res.Total += min
	}
	return res
}

// CheapestBundle finds the single brand with the lowest combined price for
// one item in every category. A brand missing a price for any category
// cannot sell the full bundle and is skipped. On an exact total tie the
// first brand in insertion order wins.
//
// ok is false when no brand covers every category.
func CheapestBundle(snapshot []model.Brand) (model.CheapestBundle, bool) {
	cats := model.Categories()
	var winner *model.Brand
	var winnerTotal int64
	for i := range snapshot {
		b := snapshot[i]
		total, covered := bundleTotal(b, cats)
		if !covered {
			continue
		}
		if winner == nil || total < winnerTotal {
			winner = &snapshot[i]
			winnerTotal = total
		}
	}
	if winner == nil {
		return model.CheapestBundle{}, false
	}
	res := model.CheapestBundle{Brand: winner.Name, Total: winnerTotal}
	for _, cat := range cats {
		res.Prices = append(res.Prices, model.CategoryPrice{Category: cat, Price: winner.Prices[cat.ID]})
	}
	return res, true
}

func bundleTotal(b model.Brand, cats []model.Category) (int64, bool) {
	var total int64
	for _, cat := range cats {
		p, ok := b.Prices[cat.ID]
		if !ok {
			return 0, false
		}
		total += p
	}
	return total, true
}

// MinMaxForCategory reports every brand at the minimum and at the maximum
// price within one category. Both lists are tie-inclusive; with a single
// distinct price they legitimately overlap. Nobody selling in the category
// yields empty lists, not an error.
func MinMaxForCategory(snapshot []model.Brand, cat model.Category) model.MinMax {
	res := model.MinMax{Category: cat}
	offers := offersFor(snapshot, cat.ID)
	if len(offers) == 0 {
		return res
	}

	asc := make([]offer, len(offers))
	copy(asc, offers)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].price < asc[j].price })
	for _, o := range asc {
		if o.price != asc[0].price {
			break
		}
		res.Cheapest = append(res.Cheapest, model.PricedBrand{Brand: o.brand, Price: o.price})
	}

	desc := make([]offer, len(offers))
	copy(desc, offers)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].price > desc[j].price })
	for _, o := range desc {
		if o.price != desc[0].price {
			break
		}
		res.Priciest = append(res.Priciest, model.PricedBrand{Brand: o.brand, Price: o.price})
	}
	return res
}
