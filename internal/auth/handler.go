package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlaspay/atlas-console/internal/credentials"
	"github.com/atlaspay/atlas-console/internal/observability"
	"github.com/atlaspay/atlas-console/internal/platform/httpx"
	"github.com/atlaspay/atlas-console/internal/shared"
)

// GrantSource supplies the effective permissions and roles for an account at
// login time. Implemented by the rbac service.
type GrantSource interface {
	EffectiveGrants(ctx context.Context, accountID int64) ([]credentials.Permission, []credentials.Role, error)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	grants    GrantSource
	manager   *credentials.Manager
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, grants GrantSource, manager *credentials.Manager, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		grants:    grants,
		manager:   manager,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleSession)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	User      credentials.User `json:"user"`
	Token     string           `json:"token"`
	IssuedAt  time.Time        `json:"issued_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed login payload")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	account, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		// The credential store stays untouched on a failed login.
		h.metrics.RecordLogin("failure")
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
		return
	}

	store := shared.StoreFromContext(r.Context())
	if store == nil {
		h.logger.Error("credential store missing during login")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	perms, roles, err := h.grants.EffectiveGrants(r.Context(), account.ID)
	if err != nil {
		h.logger.Error("load effective grants", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	issuedAt := time.Now()
	expiresAt := issuedAt.Add(h.manager.TTL())
	token, err := h.service.IssueToken(account, issuedAt, expiresAt)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	user := credentials.User{
		ID:        account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
	}
	if err := store.SetCredentials(r.Context(), user, token, issuedAt, expiresAt, perms); err != nil {
		h.logger.Error("persist credentials", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if err := store.SyncRoles(r.Context(), roles); err != nil {
		h.logger.Warn("persist roles", slog.Any("error", err))
	}

	if sid := shared.SessionIDFromContext(r.Context()); sid != "" {
		if err := h.service.RegisterSession(r.Context(), sid, account.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
			h.logger.Warn("register session", slog.Any("error", err))
		}
	}

	h.metrics.RecordLogin("success")
	httpx.JSON(w, http.StatusOK, loginResponse{
		User:      user,
		Token:     token,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	store := shared.StoreFromContext(r.Context())
	if store != nil {
		if err := store.Clear(r.Context()); err != nil {
			h.logger.Warn("clear credentials", slog.Any("error", err))
		}
	}
	if sid := shared.SessionIDFromContext(r.Context()); sid != "" {
		if err := h.service.RemoveSession(r.Context(), sid); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
	}
	h.manager.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	User        credentials.User         `json:"user"`
	IssuedAt    time.Time                `json:"issued_at"`
	ExpiresAt   time.Time                `json:"expires_at"`
	Permissions []credentials.Permission `json:"permissions"`
	Roles       []credentials.Role       `json:"roles"`
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	store := shared.StoreFromContext(r.Context())
	if store == nil {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	cred := store.Credential()
	if !cred.Authenticated {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{
		User:        cred.User,
		IssuedAt:    cred.IssuedAt,
		ExpiresAt:   cred.ExpiresAt,
		Permissions: cred.Permissions,
		Roles:       cred.Roles,
	})
}
