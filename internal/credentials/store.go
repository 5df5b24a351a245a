package credentials

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Store is the single source of truth for the current session. State
// transitions are synchronous and atomic; persistence happens through the
// injected keyring as a side effect of each mutation. Only the login flow,
// logout, and RBAC resync ever write here.
type Store struct {
	mu      sync.RWMutex
	keyring Keyring
	cred    Credential
}

// NewStore constructs an empty, unauthenticated store backed by the given
// keyring.
func NewStore(keyring Keyring) *Store {
	return &Store{keyring: keyring}
}

// Rehydrate restores persisted state after a restart. A restored session is
// marked authenticated only when a token is present and its expiry is still
// in the future; anything else starts unauthenticated and waits for a fresh
// SetCredentials.
func (s *Store) Rehydrate(ctx context.Context) error {
	token, err := s.keyring.Get(ctx, KeyAccessToken)
	if err != nil {
		return err
	}
	issuedRaw, err := s.keyring.Get(ctx, KeyIssuedAt)
	if err != nil {
		return err
	}
	expiresRaw, err := s.keyring.Get(ctx, KeyExpiresAt)
	if err != nil {
		return err
	}
	userRaw, err := s.keyring.Get(ctx, KeyUser)
	if err != nil {
		return err
	}
	permsRaw, err := s.keyring.Get(ctx, KeyPermissions)
	if err != nil {
		return err
	}
	rolesRaw, err := s.keyring.Get(ctx, KeyRoles)
	if err != nil {
		return err
	}

	cred := Credential{Token: token}
	cred.IssuedAt = parseTime(issuedRaw)
	cred.ExpiresAt = parseTime(expiresRaw)
	if userRaw != "" {
		_ = json.Unmarshal([]byte(userRaw), &cred.User)
	}
	if permsRaw != "" {
		_ = json.Unmarshal([]byte(permsRaw), &cred.Permissions)
	}
	if rolesRaw != "" {
		_ = json.Unmarshal([]byte(rolesRaw), &cred.Roles)
	}
	cred.Authenticated = token != "" && time.Now().Before(cred.ExpiresAt)

	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	return nil
}

// SetCredentials replaces the entire authenticated state after a successful
// login and persists it. Roles are untouched; the RBAC authority pushes those
// separately via SyncRoles.
func (s *Store) SetCredentials(ctx context.Context, user User, token string, issuedAt, expiresAt time.Time, permissions []Permission) error {
	s.mu.Lock()
	s.cred.User = user
	s.cred.Token = token
	s.cred.IssuedAt = issuedAt
	s.cred.ExpiresAt = expiresAt
	s.cred.Permissions = clonePermissions(permissions)
	s.cred.Authenticated = true
	s.mu.Unlock()

	if err := s.keyring.Set(ctx, KeyAccessToken, token); err != nil {
		return err
	}
	if err := s.keyring.Set(ctx, KeyIssuedAt, issuedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	if err := s.keyring.Set(ctx, KeyExpiresAt, expiresAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	if err := s.setJSON(ctx, KeyUser, user); err != nil {
		return err
	}
	return s.setJSON(ctx, KeyPermissions, permissions)
}

// SyncPermissions replaces the permission collection without touching the
// token or the authenticated flag. Used when the RBAC authority changes what
// the current user can do without requiring a re-login.
func (s *Store) SyncPermissions(ctx context.Context, permissions []Permission) error {
	s.mu.Lock()
	s.cred.Permissions = clonePermissions(permissions)
	s.mu.Unlock()
	return s.setJSON(ctx, KeyPermissions, permissions)
}

// SyncRoles replaces the role collection, same contract as SyncPermissions.
func (s *Store) SyncRoles(ctx context.Context, roles []Role) error {
	s.mu.Lock()
	s.cred.Roles = cloneRoles(roles)
	s.mu.Unlock()
	return s.setJSON(ctx, KeyRoles, roles)
}

// Clear wipes the session on logout: token, timestamps, user, permissions,
// roles, and every persisted key.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cred = Credential{}
	s.mu.Unlock()
	return s.keyring.Delete(ctx, AllKeys()...)
}

// Credential returns a copy of the current snapshot. Safe to call any number
// of times per request; readers never observe a partial update.
func (s *Store) Credential() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred := s.cred
	cred.Permissions = clonePermissions(s.cred.Permissions)
	cred.Roles = cloneRoles(s.cred.Roles)
	return cred
}

func (s *Store) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.keyring.Set(ctx, key, string(data))
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func clonePermissions(perms []Permission) []Permission {
	if perms == nil {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

func cloneRoles(roles []Role) []Role {
	if roles == nil {
		return nil
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
