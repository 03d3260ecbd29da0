package activity

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/leave-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Recorder *Recorder
}

func NewHandler(recorder *Recorder) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(),
		Recorder:    recorder,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.Recorder.Latest(limit)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, entries)
}
