package navigation

import (
	"github.com/atlaspay/atlas-console/internal/access"
	"github.com/atlaspay/atlas-console/internal/credentials"
)

// Group is one rendered menu section. Items keep their declaration order.
type Group struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Menu is the ordered set of visible groups. Groups with zero visible items
// are dropped entirely rather than rendered as empty headers.
type Menu []Group

// Visible reports whether the item may be shown to the credential. An item
// with no requirements is always visible; otherwise any listed permission
// (narrowed by the item's action) or any listed role suffices.
func Visible(cred credentials.Credential, it Item) bool {
	if !it.restricted() {
		return true
	}
	var rule access.Rule
	for _, perm := range it.RequiredPermissions {
		rule.AnyOf = append(rule.AnyOf, access.Criterion{Permission: perm, Action: it.RequiredAction})
	}
	for _, role := range it.RequiredRoles {
		rule.AnyOf = append(rule.AnyOf, access.Criterion{Role: role})
	}
	return access.Evaluate(cred, rule)
}

// Filter computes the visible menu for a credential. Items are expected to be
// normalized already; group membership comes from the static path lookup and
// unlisted paths fall into the Other bucket.
func Filter(cred credentials.Credential, items []Item) Menu {
	buckets := make(map[string][]Item)
	for _, it := range items {
		if !Visible(cred, it) {
			continue
		}
		group := groupForPath(it.Path)
		buckets[group] = append(buckets[group], it)
	}

	menu := make(Menu, 0, len(groupOrder))
	for _, name := range groupOrder {
		if visible, ok := buckets[name]; ok {
			menu = append(menu, Group{Name: name, Items: visible})
		}
	}
	return menu
}
