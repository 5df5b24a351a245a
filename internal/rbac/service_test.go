package rbac_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaspay/atlas-console/internal/credentials"
	"github.com/atlaspay/atlas-console/internal/rbac"
)

type mockRepo struct {
	perms     map[int64][]credentials.Permission
	roles     map[int64][]credentials.Role
	permErr   error
	roleErr   error
	permCalls int
}

func (m *mockRepo) EffectivePermissions(ctx context.Context, accountID int64) ([]credentials.Permission, error) {
	m.permCalls++
	if m.permErr != nil {
		return nil, m.permErr
	}
	return m.perms[accountID], nil
}

func (m *mockRepo) EffectiveRoles(ctx context.Context, accountID int64) ([]credentials.Role, error) {
	if m.roleErr != nil {
		return nil, m.roleErr
	}
	return m.roles[accountID], nil
}

func TestEffectiveGrants(t *testing.T) {
	repo := &mockRepo{
		perms: map[int64][]credentials.Permission{
			7: {{Name: "merchants.view", Action: "read"}},
		},
		roles: map[int64][]credentials.Role{
			7: {{Name: "Analyst"}},
		},
	}
	service := rbac.NewService(repo)

	perms, roles, err := service.EffectiveGrants(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, repo.perms[7], perms)
	assert.Equal(t, repo.roles[7], roles)
}

func TestEffectiveGrantsPropagatesErrors(t *testing.T) {
	repo := &mockRepo{permErr: errors.New("db down")}
	service := rbac.NewService(repo)

	_, _, err := service.EffectiveGrants(context.Background(), 7)
	assert.Error(t, err)
}

func TestRefreshReplacesGrantsOnStore(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{
		perms: map[int64][]credentials.Permission{
			7: {{Name: "webhooks.manage", Action: "write"}},
		},
		roles: map[int64][]credentials.Role{
			7: {{Name: "Administrator"}},
		},
	}
	service := rbac.NewService(repo)

	store := credentials.NewStore(credentials.NewMemoryKeyring())
	require.NoError(t, store.SetCredentials(ctx, credentials.User{ID: 7}, "tok",
		time.Now(), time.Now().Add(time.Hour),
		[]credentials.Permission{{Name: "old.permission"}}))

	require.NoError(t, service.Refresh(ctx, 7, store))

	cred := store.Credential()
	assert.Equal(t, repo.perms[7], cred.Permissions)
	assert.Equal(t, repo.roles[7], cred.Roles)
	// Token and auth flag survive a resync.
	assert.Equal(t, "tok", cred.Token)
	assert.True(t, cred.Authenticated)
}

func TestRefreshErrorLeavesStoreIntact(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{roleErr: errors.New("db down")}
	service := rbac.NewService(repo)

	store := credentials.NewStore(credentials.NewMemoryKeyring())
	original := []credentials.Permission{{Name: "keep.me"}}
	require.NoError(t, store.SetCredentials(ctx, credentials.User{ID: 7}, "tok",
		time.Now(), time.Now().Add(time.Hour), original))

	require.Error(t, service.Refresh(ctx, 7, store))
	assert.Equal(t, original, store.Credential().Permissions)
}

func TestRefreshIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{
		perms: map[int64][]credentials.Permission{7: {{Name: "a"}, {Name: "b"}}},
		roles: map[int64][]credentials.Role{7: {{Name: "R"}}},
	}
	service := rbac.NewService(repo)
	store := credentials.NewStore(credentials.NewMemoryKeyring())

	require.NoError(t, service.Refresh(ctx, 7, store))
	require.NoError(t, service.Refresh(ctx, 7, store))

	assert.Equal(t, repo.perms[7], store.Credential().Permissions)
	assert.Equal(t, repo.roles[7], store.Credential().Roles)
}
