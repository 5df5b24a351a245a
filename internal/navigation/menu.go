package navigation

// GroupOther collects items whose path is not listed in any section.
const GroupOther = "Other"

var groupOrder = []string{
	"Overview",
	"Payments",
	"Merchants",
	"Developers",
	"Administration",
	GroupOther,
}

// pathGroups maps menu paths to their sidebar section.
var pathGroups = map[string]string{
	"/dashboard":    "Overview",
	"/transactions": "Payments",
	"/payouts":      "Payments",
	"/refunds":      "Payments",
	"/merchants":    "Merchants",
	"/onboarding":   "Merchants",
	"/api-keys":     "Developers",
	"/webhooks":     "Developers",
	"/team":         "Administration",
	"/roles":        "Administration",
	"/settings":     "Administration",
}

func groupForPath(path string) string {
	if group, ok := pathGroups[path]; ok {
		return group
	}
	return GroupOther
}

// DefaultItems declares the console menu. Already normalized: callers can
// pass the result straight to Filter.
func DefaultItems() []Item {
	return Normalize([]Item{
		{Path: "/dashboard", Name: "Dashboard", Icon: "home"},
		{Path: "/transactions", Name: "Transactions", Icon: "arrow-left-right", RequiredPermissions: []string{"transactions.view"}},
		{Path: "/payouts", Name: "Payouts", Icon: "banknote", RequiredPermissions: []string{"payouts.view"}},
		{Path: "/refunds", Name: "Refunds", Icon: "rotate-ccw", RequiredPermissions: []string{"refunds.view", "transactions.manage"}},
		{Path: "/merchants", Name: "Merchants", Icon: "store", RequiredPermissions: []string{"merchants.view"}},
		{Path: "/onboarding", Name: "Onboarding", Icon: "clipboard-list", RequiredPermissions: []string{"merchants.onboard"}, Badge: "new"},
		{Path: "/api-keys", Name: "API Keys", Icon: "key", RequiredPermissions: []string{"apikeys.manage"}},
		{Path: "/webhooks", Name: "Webhooks", Icon: "webhook", RequiredPermissions: []string{"webhooks.manage"}},
		{Path: "/team", Name: "Team", Icon: "users", RequiredPermission: "team.view", RequiredRoles: []string{"Administrator"}},
		{Path: "/roles", Name: "Roles", Icon: "shield", RequiredRole: "Administrator"},
		{Path: "/settings", Name: "Settings", Icon: "settings", RequiredPermissions: []string{"settings.view"}},
	})
}
