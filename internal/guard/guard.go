// Package guard implements the per-navigation access decision point: a
// two-step gate that first checks authentication, then evaluates the
// configured permission, role, and route requirements.
package guard

import (
	"github.com/atlaspay/atlas-console/internal/access"
	"github.com/atlaspay/atlas-console/internal/credentials"
)

// Decision is the outcome of a guard evaluation.
type Decision int

const (
	// DecisionAllow renders the requested screen.
	DecisionAllow Decision = iota
	// DecisionSignIn redirects to the sign-in flow; Result.From carries the
	// originally requested location so sign-in can return the user.
	DecisionSignIn
	// DecisionUnauthorized redirects to the unauthorized page. The session is
	// valid but lacks the required grant.
	DecisionUnauthorized
)

// String names the decision for logs and metrics labels.
func (d Decision) String() string {
	switch d {
	case DecisionSignIn:
		return "sign_in"
	case DecisionUnauthorized:
		return "unauthorized"
	default:
		return "allow"
	}
}

// Result pairs a decision with the location that triggered it.
type Result struct {
	Decision Decision
	From     string
}

// Requirement configures a guarded screen. All fields optional: Permission
// and Role become any-of criteria, and Path is used as an implicit
// route-permission key when no permission is configured.
type Requirement struct {
	Permission string
	Role       string
	Path       string
	Action     string
}

func (r Requirement) open() bool {
	return r.Permission == "" && r.Role == "" && r.Path == ""
}

// Decide evaluates the gate for one navigation. The authentication check is
// terminal: an unauthenticated credential short-circuits to sign-in without
// evaluating grants. location is the requested URL, preserved for the
// post-sign-in return.
func Decide(cred credentials.Credential, req Requirement, location string) Result {
	if !cred.Authenticated {
		return Result{Decision: DecisionSignIn, From: location}
	}
	if req.open() {
		return Result{Decision: DecisionAllow, From: location}
	}
	granted := access.HasAccess(cred, access.Requirement{
		Permission: req.Permission,
		Role:       req.Role,
		Route:      req.Path,
		Action:     req.Action,
	})
	if !granted {
		return Result{Decision: DecisionUnauthorized, From: location}
	}
	return Result{Decision: DecisionAllow, From: location}
}
