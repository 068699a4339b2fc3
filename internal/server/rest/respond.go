package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/strengthsmap/internal/common"
	"github.com/dmitrijs2005/strengthsmap/internal/logging"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// JSONResponse writes data as JSON with the given status.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes an ErrorBody with the given status.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, ErrorBody{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// parseJSONBody decodes the request body into v. An empty body leaves v as is.
func parseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognised is logged and reported as 500 without detail.
func writeServiceError(ctx context.Context, w http.ResponseWriter, logger logging.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrDuplicateAccount):
		ErrorResponse(w, http.StatusBadRequest, common.ErrDuplicateAccount.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		ErrorResponse(w, http.StatusUnauthorized, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrInvalidToken):
		ErrorResponse(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, common.ErrAccountNotFound):
		ErrorResponse(w, http.StatusNotFound, "user not found")
	case errors.Is(err, common.ErrNotFound):
		ErrorResponse(w, http.StatusNotFound, "not found")
	default:
		logger.Error(ctx, "request failed", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}
