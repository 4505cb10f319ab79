package httpapi

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fairyhunter13/brand-price-service/internal/model"
)

// moneyPrinter renders amounts with a thousands separator and nothing else:
// no symbol, no decimals ("11,200").
var moneyPrinter = message.NewPrinter(language.Korean)

func formatMoney(n int64) string {
	return moneyPrinter.Sprintf("%d", n)
}

// Response payloads. Field names in the whole-bundle and min/max responses
// are the Korean keys the service has always produced.

type categoryPriceDTO struct {
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Price    string `json:"price"`
}

type lowestPriceResponse struct {
	Categories []categoryPriceDTO `json:"categories"`
	TotalPrice string             `json:"totalPrice"`
}

type bundleCategoryDTO struct {
	Category string `json:"카테고리"`
	Price    string `json:"가격"`
}

type bundleBrandDTO struct {
	Brand      string              `json:"브랜드"`
	Categories []bundleCategoryDTO `json:"카테고리"`
	Total      string              `json:"총액"`
}

type lowestTotalPriceResponse struct {
	Lowest *bundleBrandDTO `json:"최저가,omitempty"`
}

type pricedBrandDTO struct {
	Brand string `json:"브랜드"`
	Price string `json:"가격"`
}

type minMaxResponse struct {
	Category string           `json:"카테고리"`
	Cheapest []pricedBrandDTO `json:"최저가"`
	Priciest []pricedBrandDTO `json:"최고가"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	BrandID string `json:"brandId,omitempty"`
}

func renderLowestPrice(res model.LowestPerCategory) lowestPriceResponse {
	out := lowestPriceResponse{
		Categories: make([]categoryPriceDTO, 0, len(res.Entries)),
		TotalPrice: formatMoney(res.Total),
	}
	for _, e := range res.Entries {
		out.Categories = append(out.Categories, categoryPriceDTO{
			Category: e.Category.Label,
			// Tied brand names are comma-joined, no spaces.
			Brand: strings.Join(e.Brands, ","),
			Price: formatMoney(e.Price),
		})
	}
	return out
}

func renderCheapestBundle(res model.CheapestBundle) lowestTotalPriceResponse {
	dto := bundleBrandDTO{
		Brand:      res.Brand,
		Categories: make([]bundleCategoryDTO, 0, len(res.Prices)),
		Total:      formatMoney(res.Total),
	}
	for _, cp := range res.Prices {
		dto.Categories = append(dto.Categories, bundleCategoryDTO{
			Category: cp.Category.Label,
			Price:    formatMoney(cp.Price),
		})
	}
	return lowestTotalPriceResponse{Lowest: &dto}
}

func renderMinMax(res model.MinMax) minMaxResponse {
	out := minMaxResponse{
		Category: res.Category.Label,
		Cheapest: make([]pricedBrandDTO, 0, len(res.Cheapest)),
		Priciest: make([]pricedBrandDTO, 0, len(res.Priciest)),
	}
	for _, pb := range res.Cheapest {
		out.Cheapest = append(out.Cheapest, pricedBrandDTO{Brand: pb.Brand, Price: formatMoney(pb.Price)})
	}
	for _, pb := range res.Priciest {
		out.Priciest = append(out.Priciest, pricedBrandDTO{Brand: pb.Brand, Price: formatMoney(pb.Price)})
	}
	return out
}
