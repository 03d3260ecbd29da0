package leavetype

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/transport"
)

type ServiceAPI interface {
	ListTypes() ([]*LeaveType, error)
	GetType(id int64) (*LeaveType, error)
	CreateType(actorID int64, dto CreateLeaveTypeDTO) (*LeaveType, error)
	UpdateType(actorID, id int64, dto UpdateLeaveTypeDTO) (*LeaveType, error)
	DeleteType(actorID, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(),
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.ListTypes()
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, types)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	t, err := h.Service.GetType(id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, t)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	var dto CreateLeaveTypeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	created, err := h.Service.CreateType(actor.ID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateLeaveTypeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	updated, err := h.Service.UpdateType(actor.ID, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	id, err := h.idParam(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteType(actor.ID, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "leave type deleted"})
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, internal.NewValidationError("invalid id", internal.ErrCodeValidationFailed)
	}
	return id, nil
}
