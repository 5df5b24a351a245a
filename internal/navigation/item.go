// Package navigation computes the visible sidebar menu for a credential: a
// static declarative item list filtered by the access rules and grouped by
// section.
package navigation

// Item declares one menu entry. RequiredPermissions and RequiredRoles are
// any-of lists; satisfying a single entry from either list makes the item
// visible. The legacy singular RequiredPermission and RequiredRole fields are
// folded into the plural lists by Normalize before any evaluation.
type Item struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Badge string `json:"badge,omitempty"`

	RequiredPermissions []string `json:"required_permissions,omitempty"`
	RequiredRoles       []string `json:"required_roles,omitempty"`
	RequiredAction      string   `json:"required_action,omitempty"`

	// Deprecated: kept for older menu declarations. Merged by Normalize.
	RequiredPermission string `json:"required_permission,omitempty"`
	RequiredRole       string `json:"required_role,omitempty"`
}

func (it Item) restricted() bool {
	return len(it.RequiredPermissions) > 0 || len(it.RequiredRoles) > 0
}

// Normalize folds legacy singular requirement fields into the plural lists.
// Run once when the menu declaration is loaded, not per access check.
func Normalize(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		if it.RequiredPermission != "" {
			it.RequiredPermissions = appendMissing(it.RequiredPermissions, it.RequiredPermission)
			it.RequiredPermission = ""
		}
		if it.RequiredRole != "" {
			it.RequiredRoles = appendMissing(it.RequiredRoles, it.RequiredRole)
			it.RequiredRole = ""
		}
		out[i] = it
	}
	return out
}

func appendMissing(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
