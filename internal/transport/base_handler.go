package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

func NewBaseHandler() *BaseHandler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &BaseHandler{Logger: lg}
}

// RespondJSON writes a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// DecodeJSON decodes the request body, rejecting unknown shapes early.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// HandleServiceError maps service errors onto HTTP responses: AppError
// carries its own status, anything else becomes a 500 with a generic body.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode >= http.StatusInternalServerError {
			logger.From(r.Context()).Error("internal error",
				"error", appErr.Error(), "path", r.URL.Path, "method", r.Method)
		} else {
			logger.From(r.Context()).Warn("request failed",
				"code", appErr.Code, "path", r.URL.Path, "method", r.Method)
		}
		status, body := appErr.ToHTTPResponse()
		h.RespondJSON(w, status, body)
		return
	}

	logger.From(r.Context()).Error("unhandled error",
		"error", err, "path", r.URL.Path, "method", r.Method)
	status, body := internal.NewInternalError("something went wrong", err).ToHTTPResponse()
	h.RespondJSON(w, status, body)
}
