package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlaspay/atlas-console/internal/credentials"
	"github.com/atlaspay/atlas-console/internal/platform/httpx"
	"github.com/atlaspay/atlas-console/internal/shared"
)

// Handler exposes the grant resynchronization endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches rbac routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/refresh", h.handleRefresh)
}

type refreshResponse struct {
	Permissions []credentials.Permission `json:"permissions"`
	Roles       []credentials.Role       `json:"roles"`
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.Refresh(r.Context(), cred.User.ID, store); err != nil {
		h.logger.Error("rbac refresh", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	refreshed := store.Credential()
	httpx.JSON(w, http.StatusOK, refreshResponse{
		Permissions: refreshed.Permissions,
		Roles:       refreshed.Roles,
	})
}
