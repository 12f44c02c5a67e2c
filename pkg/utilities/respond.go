package utilities

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// WriteError maps err onto the error taxonomy. Store failures are logged
// with their cause and reach the client only as a generic message.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Store(err)
	}
	status := apperr.Status(appErr)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	WriteJSON(w, status, ErrorBody{Error: appErr.Message, Kind: string(appErr.Kind)})
}
