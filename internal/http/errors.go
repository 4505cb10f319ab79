// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/brand-price-service/internal/model"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, errText, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: errText, Message: message})
}

// writeDomainError maps the error taxonomy onto HTTP statuses: unknown
// category and invalid price are client errors, a missing brand is 404, and
// anything else is internal. fallback names the failed operation in the 500
// body.
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrUnknownCategory):
		WriteJSONError(w, http.StatusBadRequest, "잘못된 카테고리 이름", err.Error())
	case errors.Is(err, model.ErrInvalidPrice):
		WriteJSONError(w, http.StatusBadRequest, "잘못된 가격", err.Error())
	case errors.Is(err, model.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "브랜드를 찾을 수 없음", err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}
