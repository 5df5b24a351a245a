package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaspay/atlas-console/internal/credentials"
	"github.com/atlaspay/atlas-console/internal/navigation"
)

func credWith(permNames []string, roleNames []string) credentials.Credential {
	cred := credentials.Credential{Authenticated: true}
	for _, name := range permNames {
		cred.Permissions = append(cred.Permissions, credentials.Permission{Name: name})
	}
	for _, name := range roleNames {
		cred.Roles = append(cred.Roles, credentials.Role{Name: name})
	}
	return cred
}

func TestNormalizeMergesLegacyFields(t *testing.T) {
	items := navigation.Normalize([]navigation.Item{
		{Path: "/a", RequiredPermission: "a.view", RequiredPermissions: []string{"a.manage"}},
		{Path: "/b", RequiredRole: "Administrator"},
		{Path: "/c", RequiredPermission: "c.view", RequiredPermissions: []string{"c.view"}},
	})

	assert.ElementsMatch(t, []string{"a.manage", "a.view"}, items[0].RequiredPermissions)
	assert.Empty(t, items[0].RequiredPermission)
	assert.Equal(t, []string{"Administrator"}, items[1].RequiredRoles)
	assert.Empty(t, items[1].RequiredRole)
	// Merging does not duplicate an entry already present.
	assert.Equal(t, []string{"c.view"}, items[2].RequiredPermissions)
}

func TestVisibleNoRequirements(t *testing.T) {
	item := navigation.Item{Path: "/dashboard", Name: "Dashboard"}
	assert.True(t, navigation.Visible(credentials.Credential{}, item))
}

func TestVisibleOrOfOrs(t *testing.T) {
	item := navigation.Normalize([]navigation.Item{{
		Path:                "/x",
		RequiredPermissions: []string{"A", "B"},
		RequiredRoles:       []string{"R"},
	}})[0]

	assert.True(t, navigation.Visible(credWith([]string{"A"}, nil), item))
	assert.True(t, navigation.Visible(credWith([]string{"B"}, nil), item))
	assert.True(t, navigation.Visible(credWith(nil, []string{"R"}), item))
	assert.False(t, navigation.Visible(credWith([]string{"C"}, []string{"S"}), item))
}

func TestVisibleActionAppliesToPermissions(t *testing.T) {
	item := navigation.Item{
		Path:                "/t",
		RequiredPermissions: []string{"view_transactions"},
		RequiredAction:      "read",
	}
	readCred := credentials.Credential{Permissions: []credentials.Permission{
		{Name: "view_transactions", Action: "read"},
	}}
	writeCred := credentials.Credential{Permissions: []credentials.Permission{
		{Name: "view_transactions", Action: "write"},
	}}

	assert.True(t, navigation.Visible(readCred, item))
	assert.False(t, navigation.Visible(writeCred, item))
}

func TestFilterDropsEmptyGroups(t *testing.T) {
	items := navigation.DefaultItems()
	cred := credWith([]string{"transactions.view"}, nil)

	menu := navigation.Filter(cred, items)

	names := make([]string, 0, len(menu))
	for _, group := range menu {
		names = append(names, group.Name)
		require.NotEmptyf(t, group.Items, "group %s must not be rendered empty", group.Name)
	}
	assert.Equal(t, []string{"Overview", "Payments"}, names)
}

func TestFilterPreservesDeclarationOrder(t *testing.T) {
	cred := credWith([]string{"transactions.view", "payouts.view", "refunds.view"}, nil)

	menu := navigation.Filter(cred, navigation.DefaultItems())

	require.Len(t, menu, 2)
	payments := menu[1]
	require.Equal(t, "Payments", payments.Name)
	paths := make([]string, 0, len(payments.Items))
	for _, it := range payments.Items {
		paths = append(paths, it.Path)
	}
	assert.Equal(t, []string{"/transactions", "/payouts", "/refunds"}, paths)
}

func TestFilterUnlistedPathFallsIntoOther(t *testing.T) {
	items := navigation.Normalize([]navigation.Item{
		{Path: "/experimental", Name: "Experimental"},
	})

	menu := navigation.Filter(credentials.Credential{}, items)

	require.Len(t, menu, 1)
	assert.Equal(t, navigation.GroupOther, menu[0].Name)
}

func TestFilterAdministratorSeesAdminGroup(t *testing.T) {
	cred := credWith(nil, []string{"Administrator"})

	menu := navigation.Filter(cred, navigation.DefaultItems())

	var admin *navigation.Group
	for i := range menu {
		if menu[i].Name == "Administration" {
			admin = &menu[i]
		}
	}
	require.NotNil(t, admin)
	paths := make([]string, 0, len(admin.Items))
	for _, it := range admin.Items {
		paths = append(paths, it.Path)
	}
	// Team is reachable via the Administrator role even without team.view;
	// settings stays hidden.
	assert.Equal(t, []string{"/team", "/roles"}, paths)
}
