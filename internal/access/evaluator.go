// Package access holds the stateless authorization predicates evaluated over
// a credential snapshot. Every function here is pure: absence of a match
// yields false, nothing errors, and nothing mutates the snapshot.
package access

import (
	"strings"

	"github.com/atlaspay/atlas-console/internal/credentials"
)

// HasPermission reports whether the credential holds a permission whose
// trimmed name equals name. A non-empty action narrows the match to
// permissions carrying exactly that action; an empty action accepts any.
func HasPermission(cred credentials.Credential, name, action string) bool {
	for _, perm := range cred.Permissions {
		if strings.TrimSpace(perm.Name) != name {
			continue
		}
		if action != "" && perm.Action != action {
			continue
		}
		return true
	}
	return false
}

// HasRole reports whether the credential holds a role whose trimmed name
// equals name.
func HasRole(cred credentials.Credential, name string) bool {
	for _, role := range cred.Roles {
		if strings.TrimSpace(role.Name) == name {
			return true
		}
	}
	return false
}

// HasRouteAccess reports whether some permission grants the given route, with
// the same optional action narrowing as HasPermission.
func HasRouteAccess(cred credentials.Credential, route, action string) bool {
	for _, perm := range cred.Permissions {
		if perm.Route != route {
			continue
		}
		if action != "" && perm.Action != action {
			continue
		}
		return true
	}
	return false
}

// Criterion is a single way to pass an access rule. Exactly one of
// Permission, Role, or Route should be set; Action optionally narrows
// permission and route criteria.
type Criterion struct {
	Permission string
	Role       string
	Route      string
	Action     string
}

func (c Criterion) satisfiedBy(cred credentials.Credential) bool {
	switch {
	case c.Permission != "":
		return HasPermission(cred, c.Permission, c.Action)
	case c.Role != "":
		return HasRole(cred, c.Role)
	case c.Route != "":
		return HasRouteAccess(cred, c.Route, c.Action)
	default:
		return false
	}
}

// Rule combines criteria with any-of semantics. Supplying more criteria only
// ever adds ways to pass, never ways to require all of them; an all-of
// variant would be a new rule type, not a reinterpretation of this one.
type Rule struct {
	AnyOf []Criterion
}

// Evaluate reports whether any criterion of the rule passes. An empty rule
// grants nothing.
func Evaluate(cred credentials.Credential, rule Rule) bool {
	for _, criterion := range rule.AnyOf {
		if criterion.satisfiedBy(cred) {
			return true
		}
	}
	return false
}

// Requirement is the convenience form consumed by UI gating: whichever of
// permission, role, and route are supplied become any-of criteria. The route
// check only participates when no permission was supplied; route is a
// fallback key, not an additional independent grant path.
type Requirement struct {
	Permission string
	Role       string
	Route      string
	Action     string
}

// Rule expands the requirement into its any-of rule form.
func (r Requirement) Rule() Rule {
	var rule Rule
	if r.Permission != "" {
		rule.AnyOf = append(rule.AnyOf, Criterion{Permission: r.Permission, Action: r.Action})
	}
	if r.Role != "" {
		rule.AnyOf = append(rule.AnyOf, Criterion{Role: r.Role})
	}
	if r.Route != "" && r.Permission == "" {
		rule.AnyOf = append(rule.AnyOf, Criterion{Route: r.Route, Action: r.Action})
	}
	return rule
}

// HasAccess evaluates the requirement against the credential.
func HasAccess(cred credentials.Credential, req Requirement) bool {
	return Evaluate(cred, req.Rule())
}
