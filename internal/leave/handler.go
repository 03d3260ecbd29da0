package leave

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, applicant Applicant, dto SubmitLeaveDTO) (*Application, error)
	Decide(ctx context.Context, actor internal.Actor, applicationID int64, dto DecideLeaveDTO) (*Application, error)
	History(userID int64) ([]*Application, error)
	TeamRequests(managerID int64) ([]*Application, error)
	AllRequests() ([]*Application, error)
	Balances(userID int64) ([]balance.Balance, error)
	Dashboard(actor internal.Actor) (*DashboardSummary, error)
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

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	var dto SubmitLeaveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	applicant := Applicant{ID: actor.ID, Name: actor.Name, ManagerID: actor.ManagerID}
	created, err := h.Service.Submit(r.Context(), applicant, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, created)
}

// Decide handles both the manager decision and the HR override; the service
// derives the capability from the actor's role.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
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

	var dto DecideLeaveDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	decided, err := h.Service.Decide(r.Context(), actorFromUser(actor), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, decided)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	apps, err := h.Service.History(actor.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, apps)
}

func (h *Handler) TeamRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	apps, err := h.Service.TeamRequests(actor.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, apps)
}

func (h *Handler) AllRequests(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Service.AllRequests()
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, apps)
}

func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	balances, err := h.Service.Balances(actor.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, balances)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	summary, err := h.Service.Dashboard(actorFromUser(actor))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, summary)
}

// Report is the HR export: every application as flat rows.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Service.AllRequests()
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(apps),
		"applications": apps,
	})
}

func (h *Handler) idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, internal.NewValidationError("invalid id", internal.ErrCodeValidationFailed)
	}
	return id, nil
}

func actorFromUser(u *auth.User) internal.Actor {
	return internal.Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
