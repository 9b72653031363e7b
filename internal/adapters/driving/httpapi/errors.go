package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/logger"
)

// errorBody is the JSON envelope of every failed request.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) (int, domain.ErrorKind) {
	if errors.Is(err, domain.ErrNotImplemented) {
		return http.StatusNotImplemented, domain.KindInternal
	}
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound, kind
	case domain.KindInvalidInput:
		return http.StatusBadRequest, kind
	case domain.KindDependencyUnavailable:
		return http.StatusServiceUnavailable, kind
	case domain.KindTimeout:
		return http.StatusGatewayTimeout, kind
	default:
		return http.StatusInternalServerError, domain.KindInternal
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		logger.Debug("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Kind: kind, Message: err.Error()}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response: %v", err)
	}
}
