package navigation

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlaspay/atlas-console/internal/platform/httpx"
	"github.com/atlaspay/atlas-console/internal/shared"
)

// Handler serves the filtered menu for the sidebar renderer.
type Handler struct {
	logger *slog.Logger
	items  []Item
}

// NewHandler constructs a Handler over an already-normalized item list.
func NewHandler(logger *slog.Logger, items []Item) *Handler {
	return &Handler{logger: logger, items: items}
}

// MountRoutes attaches navigation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleMenu)
}

func (h *Handler) handleMenu(w http.ResponseWriter, r *http.Request) {
	store := shared.StoreFromContext(r.Context())
	if store == nil {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	menu := Filter(store.Credential(), h.items)
	httpx.JSON(w, http.StatusOK, menu)
}
