package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/campushr/claims-management/internal/transport"
	"github.com/campushr/claims-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	repo    RepositoryAPI
}

func NewHandler(svc ServiceAPI, repo RepositoryAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		repo:        repo,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)

		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case ErrUserInactive:
			h.WriteError(w, http.StatusUnauthorized, "user is inactive")
		default:
			h.WriteError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)

		switch err {
		case ErrInvalidToken, ErrTokenExpired:
			h.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		case ErrUserInactive:
			h.WriteError(w, http.StatusUnauthorized, "user is inactive")
		default:
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// Stateless tokens: logout is client-side discard.
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// AuthMiddleware resolves the bearer token into an Actor and stores it in
// the request context. Deactivated accounts are cut off here even if their
// token has not expired yet.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := h.ExtractTokenFromHeader(r)
		if tokenString == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(tokenString)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		role, err := ParseRole(claims.Role)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "invalid token role")
			return
		}

		active, err := h.repo.IsActive(claims.UserID)
		if err != nil || !active {
			h.WriteError(w, http.StatusForbidden, "user is inactive")
			return
		}

		actor := Actor{ID: claims.UserID, Role: role, Authenticated: true}
		next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
	})
}

// RequireRole gates a route subtree to one role. Lifecycle operations
// re-check authorization themselves; this keeps obviously foreign traffic
// out of role-scoped routes.
func (h *Handler) RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok || !actor.Authenticated {
				h.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if actor.Role != role {
				h.Logger.Warn("access denied: role mismatch",
					"user_id", actor.ID,
					"required_role", role,
					"actor_role", actor.Role)
				h.WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
