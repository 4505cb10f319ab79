package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/brand-price-service/internal/config"
	"github.com/fairyhunter13/brand-price-service/internal/engine"
	httpopenapi "github.com/fairyhunter13/brand-price-service/internal/http/openapi"
	"github.com/fairyhunter13/brand-price-service/internal/model"
	"github.com/fairyhunter13/brand-price-service/internal/obs"
	"github.com/fairyhunter13/brand-price-service/internal/persist"
	"github.com/fairyhunter13/brand-price-service/internal/store"
)

// App wires the price matrix, the aggregation queries, and the write-behind
// persistence manager behind the HTTP surface.
type App struct {
	Cfg     config.Config
	Matrix  *store.Store
	Persist *persist.Manager
	closing atomic.Bool
	started time.Time
}

// NewApp constructs an App over the given matrix and persistence manager.
func NewApp(cfg config.Config, m *store.Store, p *persist.Manager) *App {
	return &App{Cfg: cfg, Matrix: m, Persist: p, started: time.Now()}
}

// StartShutdown rejects further mutations and closes the persist intake.
// Safe to call from the signal goroutine while handlers are running.
func (a *App) StartShutdown() {
	a.closing.Store(true)
	a.Persist.CloseIntake()
}

// brandRequest is the create/replace payload. Price keys are category
// display labels.
type brandRequest struct {
	Name   string           `json:"name"`
	Prices map[string]int64 `json:"prices"`
}

// priceUpdateRequest is the single-price update payload.
type priceUpdateRequest struct {
	BrandName    string `json:"brandName"`
	CategoryName string `json:"categoryName"`
	Price        int64  `json:"price"`
}

// resolvePrices maps label-keyed amounts onto category ids.
func resolvePrices(in map[string]int64) (map[model.CategoryID]int64, error) {
	out := make(map[model.CategoryID]int64, len(in))
	for label, amount := range in {
		cat, err := model.CategoryByLabel(label)
		if err != nil {
			return nil, err
		}
		out[cat.ID] = amount
	}
	return out, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "요청 형식 오류", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// rejectMutation reports true (and responds 503) while shutting down.
func (a *App) rejectMutation(w http.ResponseWriter) bool {
	if a.closing.Load() || a.Persist.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return true
	}
	return false
}

// lowestPriceByCategoryHandler serves the cheapest-per-category query.
func (a *App) lowestPriceByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	res := engine.LowestPerCategory(a.Matrix.Snapshot())
	writeJSON(w, http.StatusOK, renderLowestPrice(res))
}

// lowestTotalPriceBrandHandler serves the cheapest whole-bundle query. When
// no brand covers every category the body is an empty object.
func (a *App) lowestTotalPriceBrandHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	res, ok := engine.CheapestBundle(a.Matrix.Snapshot())
	if !ok {
		writeJSON(w, http.StatusOK, lowestTotalPriceResponse{})
		return
	}
	writeJSON(w, http.StatusOK, renderCheapestBundle(res))
}

// minMaxPriceByCategoryHandler serves the per-category min/max query.
func (a *App) minMaxPriceByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	cat, err := model.CategoryByLabel(r.URL.Query().Get("categoryName"))
	if err != nil {
		writeDomainError(w, err, "카테고리별 최저/최고 가격 조회 실패")
		return
	}
	res := engine.MinMaxForCategory(a.Matrix.Snapshot(), cat)
	writeJSON(w, http.StatusOK, renderMinMax(res))
}

// listBrandsHandler returns all brands with raw (unformatted) prices.
func (a *App) listBrandsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, a.Matrix.List())
}

// createBrandHandler registers a new brand with its price list.
func (a *App) createBrandHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.rejectMutation(w) {
		return
	}
	var req brandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}
	prices, err := resolvePrices(req.Prices)
	if err != nil {
		writeDomainError(w, err, "브랜드 생성 실패")
		return
	}
	b, seq, err := a.Matrix.Create(req.Name, prices)
	if err != nil {
		writeDomainError(w, err, "브랜드 생성 실패")
		return
	}
	a.Persist.EnqueueSave(b, seq)
	obs.Logger.Info("brand_created",
		"request_id", RequestIDFromContext(r.Context()),
		"brand_id", b.ID,
		"brand_name", b.Name,
	)
	writeJSON(w, http.StatusCreated, statusResponse{
		Status:  "success",
		Message: "브랜드가 성공적으로 생성되었습니다",
		BrandID: strconv.FormatUint(b.ID, 10),
	})
}

// brandHandler dispatches /api/brand/price and /api/brand/{id}.
func (a *App) brandHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/brand/")
	if rest == "price" {
		a.updateBrandPriceHandler(w, r)
		return
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "brand id must be numeric")
		return
	}
	switch r.Method {
	case http.MethodGet:
		b, err := a.Matrix.Get(id)
		if err != nil {
			writeDomainError(w, err, "브랜드 조회 실패")
			return
		}
		writeJSON(w, http.StatusOK, b)
	case http.MethodPut:
		a.replaceBrand(w, r, id)
	case http.MethodDelete:
		a.deleteBrand(w, r, id)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) replaceBrand(w http.ResponseWriter, r *http.Request, id uint64) {
	if a.rejectMutation(w) {
		return
	}
	var req brandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "name is required")
		return
	}
	prices, err := resolvePrices(req.Prices)
	if err != nil {
		writeDomainError(w, err, "브랜드 업데이트 실패")
		return
	}
	b, seq, err := a.Matrix.Replace(id, req.Name, prices)
	if err != nil {
		writeDomainError(w, err, "브랜드 업데이트 실패")
		return
	}
	a.Persist.EnqueueSave(b, seq)
	obs.Logger.Info("brand_updated",
		"request_id", RequestIDFromContext(r.Context()),
		"brand_id", b.ID,
		"brand_name", b.Name,
	)
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "브랜드가 성공적으로 업데이트되었습니다"})
}

func (a *App) deleteBrand(w http.ResponseWriter, r *http.Request, id uint64) {
	if a.rejectMutation(w) {
		return
	}
	seq, err := a.Matrix.Delete(id)
	if err != nil {
		writeDomainError(w, err, "브랜드 삭제 실패")
		return
	}
	a.Persist.EnqueueDelete(id, seq)
	obs.Logger.Info("brand_deleted",
		"request_id", RequestIDFromContext(r.Context()),
		"brand_id", id,
	)
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "브랜드가 성공적으로 삭제되었습니다"})
}

// updateBrandPriceHandler sets one brand/category price, addressing the
// brand by name.
func (a *App) updateBrandPriceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.rejectMutation(w) {
		return
	}
	var req priceUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := model.CategoryByLabel(req.CategoryName)
	if err != nil {
		writeDomainError(w, err, "브랜드 가격 업데이트 실패")
		return
	}
	b, seq, err := a.Matrix.SetPriceByName(req.BrandName, cat.ID, req.Price)
	if err != nil {
		writeDomainError(w, err, "브랜드 가격 업데이트 실패")
		return
	}
	a.Persist.EnqueueSave(b, seq)
	obs.Logger.Info("brand_price_updated",
		"request_id", RequestIDFromContext(r.Context()),
		"brand_id", b.ID,
		"brand_name", b.Name,
		"category", string(cat.ID),
		"price", req.Price,
	)
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "브랜드 가격이 성공적으로 업데이트되었습니다"})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	enq, proc, backlog, depth := a.Persist.QueueMetrics()
	m := map[string]any{
		"brand_count":       a.Matrix.Len(),
		"persist_enqueued":  enq,
		"persist_processed": proc,
		"persist_backlog":   backlog,
		"persist_depth":     depth,
		"persist_workers":   a.Persist.WorkerCount(),
		"uptime_sec":        time.Since(a.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
