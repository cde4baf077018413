// Package respond writes JSON responses and maps the domain error taxonomy
// to HTTP status codes.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/ecopirates/internal/app/system/limits"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"go.uber.org/zap"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as a JSON error. Taxonomy errors keep their message;
// anything else is logged and reported as a generic server error.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status, code := Classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		msg = "internal server error"
	}
	JSON(w, status, errorResponse{Code: code, Message: msg})
}

// Classify returns the HTTP status and machine-readable code for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrAlreadyInClan):
		return http.StatusConflict, "already_in_clan"
	case errors.Is(err, errs.ErrNotInClan):
		return http.StatusConflict, "not_in_clan"
	case errors.Is(err, errs.ErrNameTaken):
		return http.StatusConflict, "name_taken"
	case errors.Is(err, errs.ErrDuplicateUser):
		return http.StatusConflict, "duplicate_user"
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// Decode reads a JSON body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return errs.Invalid("request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.Invalid("request body too large")
		}
		return errs.Invalid("malformed JSON body: " + err.Error())
	}
	return nil
}
