package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/lowest-price-by-category", app.lowestPriceByCategoryHandler)
	mux.HandleFunc("/api/lowest-total-price-brand", app.lowestTotalPriceBrandHandler)
	mux.HandleFunc("/api/min-max-price-by-category", app.minMaxPriceByCategoryHandler)
	mux.HandleFunc("/api/brands", app.listBrandsHandler)
	mux.HandleFunc("/api/brand", app.createBrandHandler)
	mux.HandleFunc("/api/brand/", app.brandHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/debug/metrics", app.metricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	return WithRequestID(WithLogging(mux))
}
