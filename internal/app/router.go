package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/atlaspay/atlas-console/internal/auth"
	"github.com/atlaspay/atlas-console/internal/credentials"
	"github.com/atlaspay/atlas-console/internal/guard"
	"github.com/atlaspay/atlas-console/internal/navigation"
	"github.com/atlaspay/atlas-console/internal/observability"
	"github.com/atlaspay/atlas-console/internal/platform/httpx"
	"github.com/atlaspay/atlas-console/internal/rbac"
	"github.com/atlaspay/atlas-console/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Manager           *credentials.Manager
	AuthHandler       *auth.Handler
	RBACHandler       *rbac.Handler
	NavigationHandler *navigation.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Manager: params.Manager,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Landing page for the guard's unauthorized redirect target.
	r.Get("/unauthorized", func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "you do not have access to this screen")
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	gate := guard.Middleware{
		Logger:           params.Logger,
		SignInPath:       params.Config.SignInPath,
		UnauthorizedPath: params.Config.UnauthorizedPath,
		Metrics:          params.Metrics,
	}

	// Screens behind the guard: re-evaluated on every navigation.
	r.Group(func(r chi.Router) {
		r.Use(gate.Protect(guard.Requirement{}))
		r.Route("/navigation", params.NavigationHandler.MountRoutes)
		if params.RBACHandler != nil {
			r.Route("/rbac", params.RBACHandler.MountRoutes)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
