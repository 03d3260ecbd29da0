package user

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/transport"
)

type ServiceAPI interface {
	CreateUser(ctx context.Context, actorID int64, dto CreateUserDTO) (*User, error)
	UpdateUser(ctx context.Context, actorID, userID int64, dto UpdateUserDTO) (*User, error)
	DeleteUser(actorID, userID int64) error
	GetUser(id int64) (*User, error)
	ListUsers() ([]*User, error)
	ListManagers() ([]*User, error)
	UpdateProfile(userID int64, dto UpdateProfileDTO) (*User, error)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	created, err := h.Service.CreateUser(r.Context(), actor.ID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers()
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.idParam(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.GetUser(id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, u)
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

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	updated, err := h.Service.UpdateUser(r.Context(), actor.ID, id, dto)
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

	if id == actor.ID {
		h.HandleServiceError(w, r, internal.NewValidationError("you cannot delete your own account", internal.ErrCodeValidationFailed))
		return
	}

	if err := h.Service.DeleteUser(actor.ID, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "employee deleted"})
}

func (h *Handler) ListManagers(w http.ResponseWriter, r *http.Request) {
	managers, err := h.Service.ListManagers()
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, managers)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	u, err := h.Service.GetUser(actor.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	var dto UpdateProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	updated, err := h.Service.UpdateProfile(actor.ID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, internal.NewValidationError("invalid id", internal.ErrCodeValidationFailed)
	}
	return id, nil
}
