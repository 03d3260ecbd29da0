package auth

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(req LoginRequest) (*LoginResponse, error)
	RefreshTokens(refreshToken string) (*TokenPair, error)
	UserForToken(tokenString string) (*User, error)
	ChangePassword(userID int64, req ChangePasswordRequest) error
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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	resp, err := h.Service.Authenticate(req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := h.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		h.HandleServiceError(w, r, internal.NewValidationError("refresh_token is required", internal.ErrCodeMissingFields))
		return
	}

	tokens, err := h.Service.RefreshTokens(req.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, tokens)
}

// Logout is stateless: tokens expire on their own, the endpoint exists so
// clients have a uniform place to end a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	var req ChangePasswordRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	if err := h.Service.ChangePassword(user.ID, req); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}
	h.RespondJSON(w, http.StatusOK, user)
}

// Middleware authenticates the bearer token and stores the resolved user
// in the request context.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			h.HandleServiceError(w, r, internal.ErrInvalidToken)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := h.Service.UserForToken(token)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		ctx = logger.With(ctx, "user_id", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission guards a route group behind one permission.
func (h *Handler) RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				h.HandleServiceError(w, r, internal.ErrInvalidToken)
				return
			}
			if !user.HasPermission(perm) {
				h.HandleServiceError(w, r, internal.NewForbiddenError("insufficient permissions", internal.ErrCodeForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
