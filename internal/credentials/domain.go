package credentials

import "time"

// User carries the identity attributes of the signed-in operator. The
// evaluator never inspects these fields; they exist for display and for
// session bookkeeping.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Permission is a named capability grant, optionally scoped to an action
// and/or a route.
type Permission struct {
	Name   string `json:"permission_name"`
	Action string `json:"action,omitempty"`
	Route  string `json:"route,omitempty"`
}

// Role is a named bundle assigned by the platform backend. Checked by name
// only.
type Role struct {
	Name string `json:"role_name"`
}

// Credential is the snapshot of the current authenticated session. Values are
// copies; mutating a snapshot never affects the owning Store.
type Credential struct {
	Token         string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	User          User
	Permissions   []Permission
	Roles         []Role
	Authenticated bool
}

// Usable reports whether the snapshot represents a live session: the
// authenticated flag is set and the expiry window has not passed. The store
// does not enforce this on reads; callers that need expiry semantics consult
// this instead of Authenticated alone.
func (c Credential) Usable(now time.Time) bool {
	return c.Authenticated && c.Token != "" && now.Before(c.ExpiresAt)
}
