package integration

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/fairyhunter13/brand-price-service/internal/model"
)

func TestAllBrandsDeletedDegradesToEmptyResults(t *testing.T) {
	e := newEnv(t)
	for id := 1; id <= 9; id++ {
		rr := e.do(t, http.MethodDelete, "/api/brand/"+strconv.Itoa(id), "")
		if rr.Code != http.StatusOK {
			t.Fatalf("delete %d: expected 200, got %d", id, rr.Code)
		}
	}

	rr := e.do(t, http.MethodGet, "/api/lowest-price-by-category", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var lp struct {
		Categories []json.RawMessage `json:"categories"`
		TotalPrice string            `json:"totalPrice"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &lp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lp.Categories) != 0 || lp.TotalPrice != "0" {
		t.Fatalf("expected empty result, got %s", rr.Body.String())
	}

	rr = e.do(t, http.MethodGet, "/api/lowest-total-price-brand", "")
	if strings.TrimSpace(rr.Body.String()) != "{}" {
		t.Fatalf("expected empty bundle object, got %s", rr.Body.String())
	}

	rr = e.do(t, http.MethodGet, "/api/min-max-price-by-category?categoryName=상의", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var mm struct {
		Cheapest []json.RawMessage `json:"최저가"`
		Priciest []json.RawMessage `json:"최고가"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &mm); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mm.Cheapest) != 0 || len(mm.Priciest) != 0 {
		t.Fatalf("expected empty extremes, got %s", rr.Body.String())
	}
}

func TestDuplicateNamesPriceUpdateHitsFirst(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 2; i++ {
		rr := e.do(t, http.MethodPost, "/api/brand", `{"name":"dup","prices":{"상의":5000}}`)
		if rr.Code != http.StatusCreated {
			t.Fatalf("create %d: expected 201, got %d", i, rr.Code)
		}
	}
	rr := e.do(t, http.MethodPut, "/api/brand/price", `{"brandName":"dup","categoryName":"상의","price":4000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("price update: expected 200, got %d", rr.Code)
	}

	first, err := e.matrix.Get(10)
	if err != nil {
		t.Fatalf("get first dup: %v", err)
	}
	second, err := e.matrix.Get(11)
	if err != nil {
		t.Fatalf("get second dup: %v", err)
	}
	if first.Prices[model.CategoryTop] != 4000 {
		t.Fatalf("first duplicate not updated: %v", first.Prices)
	}
	if second.Prices[model.CategoryTop] != 5000 {
		t.Fatalf("second duplicate unexpectedly updated: %v", second.Prices)
	}
}

func TestPartialBrandExcludedFromBundleOnly(t *testing.T) {
	e := newEnv(t)
	// Cheapest tops by far, but sells nothing else.
	rr := e.do(t, http.MethodPost, "/api/brand", `{"name":"partial","prices":{"상의":10}}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rr.Code)
	}

	rr = e.do(t, http.MethodGet, "/api/min-max-price-by-category?categoryName=상의", "")
	var mm struct {
		Cheapest []struct {
			Brand string `json:"브랜드"`
		} `json:"최저가"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &mm); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mm.Cheapest) != 1 || mm.Cheapest[0].Brand != "partial" {
		t.Fatalf("partial brand missing from category ranking: %+v", mm.Cheapest)
	}

	rr = e.do(t, http.MethodGet, "/api/lowest-total-price-brand", "")
	var bundle struct {
		Lowest *struct {
			Brand string `json:"브랜드"`
		} `json:"최저가"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bundle.Lowest == nil || bundle.Lowest.Brand == "partial" {
		t.Fatalf("brand with price gaps won the bundle: %+v", bundle.Lowest)
	}
}
