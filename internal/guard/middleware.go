package guard

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/atlaspay/atlas-console/internal/observability"
	"github.com/atlaspay/atlas-console/internal/shared"
)

// Middleware maps guard decisions onto the router: pass through, redirect to
// sign-in with the originating location, or redirect to the unauthorized
// page.
type Middleware struct {
	Logger           *slog.Logger
	SignInPath       string
	UnauthorizedPath string
	Metrics          *observability.Metrics
}

// Protect wraps a handler with the guard for the given requirement. The gate
// is re-evaluated on every request and holds no state of its own.
func (m Middleware) Protect(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := shared.StoreFromContext(r.Context())
			if store == nil {
				if m.Logger != nil {
					m.Logger.Error("guard: credential store missing from context", slog.String("path", r.URL.Path))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			result := Decide(store.Credential(), req, r.URL.RequestURI())
			m.Metrics.RecordGuardDecision(result.Decision.String())
			switch result.Decision {
			case DecisionSignIn:
				http.Redirect(w, r, m.signInURL(result.From), http.StatusSeeOther)
			case DecisionUnauthorized:
				if m.Logger != nil {
					m.Logger.Warn("guard: access denied", slog.String("path", r.URL.Path))
				}
				http.Redirect(w, r, m.UnauthorizedPath, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func (m Middleware) signInURL(from string) string {
	if from == "" {
		return m.SignInPath
	}
	return m.SignInPath + "?from=" + url.QueryEscape(from)
}
