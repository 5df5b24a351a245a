package credentials

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Manager resolves the per-browser credential store from the session cookie.
// Each session ID maps to its own keyring namespace, so two operators on the
// same deployment never share auth state.
type Manager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager constructs a Manager. A nil Redis client falls back to
// per-request in-memory keyrings, which keeps handlers working in tests.
func NewManager(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

// Load returns the store for the request's session, creating a fresh session
// ID when no cookie is present. The second return value reports whether the
// session is new and needs its cookie written.
func (m *Manager) Load(r *http.Request) (*Store, string, bool) {
	sessionID := ""
	isNew := false
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		sessionID = cookie.Value
	} else {
		sessionID = uuid.NewString()
		isNew = true
	}
	return NewStore(m.keyringFor(sessionID)), sessionID, isNew
}

// WriteCookie attaches the session cookie to the response.
func (m *Manager) WriteCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(m.ttl),
	})
}

// ClearCookie expires the session cookie on logout.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// CookieName returns the configured session cookie name.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// TTL exposes the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) keyringFor(sessionID string) Keyring {
	if m.client == nil {
		return NewMemoryKeyring()
	}
	return NewRedisKeyring(m.client, sessionID, m.ttl)
}
