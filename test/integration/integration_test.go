package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fairyhunter13/brand-price-service/internal/config"
	httpapi "github.com/fairyhunter13/brand-price-service/internal/http"
	"github.com/fairyhunter13/brand-price-service/internal/model"
	"github.com/fairyhunter13/brand-price-service/internal/obs"
	"github.com/fairyhunter13/brand-price-service/internal/persist"
	"github.com/fairyhunter13/brand-price-service/internal/seed"
	"github.com/fairyhunter13/brand-price-service/internal/storage"
	"github.com/fairyhunter13/brand-price-service/internal/store"
)

type env struct {
	matrix *store.Store
	repo   *storage.Memory
	mgr    *persist.Manager
	mux    http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	obs.InitLogger()
	cfg := config.Config{
		ShutdownTimeout:         time.Second,
		InitialWorkerCount:      2,
		WorkerMin:               1,
		WorkerMax:               4,
		ScaleInterval:           50 * time.Millisecond,
		ScaleUpBacklogPerWorker: 1000,
		ScaleDownIdleTicks:      1000,
	}
	repo := storage.NewMemory()
	st := store.New()
	brands, err := seed.Load("")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	seqs := st.Load(brands)
	q := persist.NewQueue(64)
	mgr := persist.NewManager(cfg, q, repo)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		mgr.Stop()
		cancel()
	})
	mgr.Start(ctx)
	for _, b := range brands {
		mgr.EnqueueSave(b, seqs[b.ID])
	}
	app := httpapi.NewApp(cfg, st, mgr)
	return &env{matrix: st, repo: repo, mgr: mgr, mux: httpapi.NewRouter(app)}
}

func (e *env) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

func (e *env) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !e.mgr.DrainUntil(ctx) {
		t.Fatalf("drain timed out")
	}
}

func lowestTotal(t *testing.T, e *env) string {
	t.Helper()
	rr := e.do(t, http.MethodGet, "/api/lowest-price-by-category", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		TotalPrice string `json:"totalPrice"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.TotalPrice
}

func TestQueryMutateQueryCycle(t *testing.T) {
	e := newEnv(t)
	if got := lowestTotal(t, e); got != "34,100" {
		t.Fatalf("seed total: expected 34,100, got %q", got)
	}

	// A new brand undercutting every category drags the total down.
	body := `{"name":"Z","prices":{"상의":1000,"아우터":1000,"바지":1000,"스니커즈":1000,"가방":1000,"모자":1000,"양말":1000,"액세서리":1000}}`
	rr := e.do(t, http.MethodPost, "/api/brand", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		BrandID string `json:"brandId"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := lowestTotal(t, e); got != "8,000" {
		t.Fatalf("after create: expected 8,000, got %q", got)
	}

	// Z also wins the whole-bundle query.
	rr = e.do(t, http.MethodGet, "/api/lowest-total-price-brand", "")
	var bundle struct {
		Lowest *struct {
			Brand string `json:"브랜드"`
			Total string `json:"총액"`
		} `json:"최저가"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bundle.Lowest == nil || bundle.Lowest.Brand != "Z" || bundle.Lowest.Total != "8,000" {
		t.Fatalf("unexpected bundle winner: %+v", bundle.Lowest)
	}

	// Deleting Z restores the original answers.
	rr = e.do(t, http.MethodDelete, "/api/brand/"+created.BrandID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rr.Code)
	}
	if got := lowestTotal(t, e); got != "34,100" {
		t.Fatalf("after delete: expected 34,100, got %q", got)
	}
}

func TestRestartFromPersistedState(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, http.MethodPut, "/api/brand/price", `{"brandName":"C","categoryName":"상의","price":8000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("price update: expected 200, got %d", rr.Code)
	}
	rr = e.do(t, http.MethodDelete, "/api/brand/9", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rr.Code)
	}
	e.drain(t)

	// Simulated restart: rebuild the matrix from what storage holds.
	brands, err := e.repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(brands) != 8 {
		t.Fatalf("expected 8 persisted brands, got %d", len(brands))
	}
	st2 := store.New()
	st2.Load(brands)
	c, err := st2.GetByName("C")
	if err != nil {
		t.Fatalf("brand C missing after restart: %v", err)
	}
	if c.Prices[model.CategoryTop] != 8000 {
		t.Fatalf("price update lost across restart: %v", c.Prices)
	}
	if _, err := st2.Get(9); err == nil {
		t.Fatalf("deleted brand survived restart")
	}
}

func TestMinMaxReflectsMutations(t *testing.T) {
	e := newEnv(t)
	// Push brand B to the top of the hat category.
	rr := e.do(t, http.MethodPut, "/api/brand/price", `{"brandName":"B","categoryName":"모자","price":99999}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("price update: expected 200, got %d", rr.Code)
	}
	rr = e.do(t, http.MethodGet, "/api/min-max-price-by-category?categoryName=모자", "")
	var mm struct {
		Priciest []struct {
			Brand string `json:"브랜드"`
			Price string `json:"가격"`
		} `json:"최고가"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &mm); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mm.Priciest) != 1 || mm.Priciest[0].Brand != "B" || mm.Priciest[0].Price != "99,999" {
		t.Fatalf("unexpected priciest after update: %+v", mm.Priciest)
	}
}

func TestSeedPersistedThroughPipeline(t *testing.T) {
	e := newEnv(t)
	e.drain(t)
	if e.repo.Len() != 9 {
		t.Fatalf("expected 9 persisted seed brands, got %d", e.repo.Len())
	}
}
