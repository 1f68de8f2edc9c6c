package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/eshaffer321/bundlebuilder/internal/api/dto"
	"github.com/eshaffer321/bundlebuilder/internal/application/service"
	"github.com/eshaffer321/bundlebuilder/internal/domain/engine"
)

// Base provides shared functionality for all handlers.
type Base struct {
	svc *service.BundleService
}

// NewBase creates a new base handler with the given service.
func NewBase(svc *service.BundleService) *Base {
	return &Base{svc: svc}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// WriteServiceError maps a service or engine error to a response.
func (b *Base) WriteServiceError(w http.ResponseWriter, err error) {
	status, apiErr := StatusFor(err)
	b.WriteError(w, status, apiErr)
}

// WriteOutcome writes the result of a mutation. Infeasible outcomes are
// reported as 409 since nothing was committed.
func (b *Base) WriteOutcome(w http.ResponseWriter, out engine.Outcome, err error) {
	if err != nil {
		b.WriteServiceError(w, err)
		return
	}
	status := http.StatusOK
	if out.Status == engine.StatusInfeasible {
		status = http.StatusConflict
	}
	b.WriteJSON(w, status, dto.NewOutcomeResponse(out))
}

// StatusFor returns the HTTP status and error body for err.
func StatusFor(err error) (int, dto.APIError) {
	switch {
	case errors.Is(err, service.ErrNoBuild):
		return http.StatusServiceUnavailable, dto.NoBuildError()
	case errors.Is(err, engine.ErrUnknownItem):
		return http.StatusNotFound, dto.NotFoundError("item")
	case errors.Is(err, engine.ErrUnknownCollection):
		return http.StatusNotFound, dto.NotFoundError("collection")
	case errors.Is(err, engine.ErrNotThemed), errors.Is(err, engine.ErrSameItem):
		return http.StatusBadRequest, dto.BadRequestError(err.Error())
	case errors.Is(err, engine.ErrNotMember),
		errors.Is(err, engine.ErrDuplicate),
		errors.Is(err, engine.ErrMinItems),
		errors.Is(err, engine.ErrOverBudget):
		return http.StatusConflict, dto.ConflictError(err.Error())
	default:
		return http.StatusInternalServerError, dto.InternalError()
	}
}

// DecodeJSON decodes the request body into v, writing a 400 on failure.
func (b *Base) DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		b.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return false
	}
	return true
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseBoolParam parses a boolean query parameter with a default value.
func ParseBoolParam(r *http.Request, name string, defaultVal bool) bool {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}
