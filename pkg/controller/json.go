package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"modulith/pkg/logger"
	"modulith/pkg/serrors"

	"go.uber.org/zap"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(ctx, "could not encode response", zap.Error(err))
	}
}

// statusOf maps a semantic error kind to an HTTP status code.
func statusOf(k serrors.Kind) int {
	switch k {
	case serrors.ErrNotFound:
		return http.StatusNotFound
	case serrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case serrors.ErrForbidden:
		return http.StatusForbidden
	case serrors.ErrBadRequest:
		return http.StatusBadRequest
	case serrors.ErrConflict:
		return http.StatusConflict
	case serrors.ErrInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error response, mapping its semantic kind to a
// status code. Internal errors are logged and their details hidden from the
// client.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	kind := serrors.KindOf(err)
	status := statusOf(kind)

	var body errorBody
	body.Error.Code = string(kind)
	body.Error.Message = err.Error()

	if status == http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
		body.Error.Message = "internal server error"
	}

	JSON(ctx, w, status, body)
}
