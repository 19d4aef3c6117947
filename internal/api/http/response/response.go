// Package response writes JSON bodies and translates errors into HTTP responses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

const msgInternal = "Something went wrong"

// ErrorItem is one entry of an error response.
type ErrorItem struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	Errors []ErrorItem `json:"errors"`
}

// SuccessBody is the body of every 2xx JSON response.
type SuccessBody struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes a success envelope.
func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, SuccessBody{Success: true, Message: message, Data: data})
}

// Error translates err into a status and error body. Errors that are not
// *apierrors.APIError are logged and reported as 500.
func Error(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		JSON(w, apiErr.Status, ErrorBody{Errors: items(apiErr)})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		JSON(w, http.StatusNotFound, ErrorBody{Errors: []ErrorItem{{Message: "Resource not found"}}})
		return
	}

	log.Error("HTTP: request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error())
	JSON(w, http.StatusInternalServerError, ErrorBody{Errors: []ErrorItem{{Message: msgInternal}}})
}

func items(apiErr *apierrors.APIError) []ErrorItem {
	if len(apiErr.Fields) == 0 {
		return []ErrorItem{{Message: apiErr.Message}}
	}

	out := make([]ErrorItem, 0, len(apiErr.Fields))
	for _, f := range apiErr.Fields {
		out = append(out, ErrorItem{Message: f.Message, Field: f.Field})
	}
	return out
}
