package credentials_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaspay/atlas-console/internal/credentials"
)

func testUser() credentials.User {
	return credentials.User{ID: 7, FirstName: "Ada", LastName: "Okafor", Email: "ada@merchant.test"}
}

func TestSetCredentialsReplacesState(t *testing.T) {
	ctx := context.Background()
	keyring := credentials.NewMemoryKeyring()
	store := credentials.NewStore(keyring)

	issued := time.Now()
	expires := issued.Add(time.Hour)
	perms := []credentials.Permission{{Name: "transactions.view", Action: "read"}}

	require.NoError(t, store.SetCredentials(ctx, testUser(), "tok-1", issued, expires, perms))

	cred := store.Credential()
	assert.True(t, cred.Authenticated)
	assert.Equal(t, "tok-1", cred.Token)
	assert.Equal(t, "ada@merchant.test", cred.User.Email)
	assert.Equal(t, perms, cred.Permissions)

	token, err := keyring.Get(ctx, credentials.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	expiresRaw, err := keyring.Get(ctx, credentials.KeyExpiresAt)
	require.NoError(t, err)
	assert.NotEmpty(t, expiresRaw)
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewStore(credentials.NewMemoryKeyring())
	require.NoError(t, store.SetCredentials(ctx, testUser(), "tok", time.Now(), time.Now().Add(time.Hour),
		[]credentials.Permission{{Name: "merchants.view"}}))

	cred := store.Credential()
	cred.Permissions[0].Name = "mutated"

	assert.Equal(t, "merchants.view", store.Credential().Permissions[0].Name)
}

func TestSyncPermissionsLeavesTokenAlone(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewStore(credentials.NewMemoryKeyring())
	require.NoError(t, store.SetCredentials(ctx, testUser(), "tok", time.Now(), time.Now().Add(time.Hour), nil))

	updated := []credentials.Permission{{Name: "webhooks.manage", Action: "write"}}
	require.NoError(t, store.SyncPermissions(ctx, updated))

	cred := store.Credential()
	assert.Equal(t, "tok", cred.Token)
	assert.True(t, cred.Authenticated)
	assert.Equal(t, updated, cred.Permissions)
}

func TestSyncPermissionsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewStore(credentials.NewMemoryKeyring())

	perms := []credentials.Permission{{Name: "a"}, {Name: "b"}}
	require.NoError(t, store.SyncPermissions(ctx, perms))
	require.NoError(t, store.SyncPermissions(ctx, perms))

	assert.Equal(t, perms, store.Credential().Permissions)
}

func TestSyncRoles(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewStore(credentials.NewMemoryKeyring())
	roles := []credentials.Role{{Name: "Administrator"}, {Name: "Transaction Manager"}}

	require.NoError(t, store.SyncRoles(ctx, roles))

	assert.Equal(t, roles, store.Credential().Roles)
}

func TestClearWipesEverything(t *testing.T) {
	ctx := context.Background()
	keyring := credentials.NewMemoryKeyring()
	store := credentials.NewStore(keyring)

	require.NoError(t, store.SetCredentials(ctx, testUser(), "t1", time.Now(), time.Now().Add(time.Hour),
		[]credentials.Permission{{Name: "merchants.view"}}))
	require.NoError(t, store.SyncRoles(ctx, []credentials.Role{{Name: "Administrator"}}))

	require.NoError(t, store.Clear(ctx))

	cred := store.Credential()
	assert.False(t, cred.Authenticated)
	assert.Empty(t, cred.Token)
	assert.Empty(t, cred.Permissions)
	assert.Empty(t, cred.Roles)
	assert.True(t, cred.IssuedAt.IsZero())

	for _, key := range credentials.AllKeys() {
		value, err := keyring.Get(ctx, key)
		require.NoError(t, err)
		assert.Emptyf(t, value, "key %s should be removed on logout", key)
	}
}

func TestRehydrateRestoresLiveSession(t *testing.T) {
	ctx := context.Background()
	keyring := credentials.NewMemoryKeyring()
	first := credentials.NewStore(keyring)

	issued := time.Now().Add(-time.Minute)
	expires := time.Now().Add(time.Hour)
	require.NoError(t, first.SetCredentials(ctx, testUser(), "tok-re", issued, expires,
		[]credentials.Permission{{Name: "transactions.view", Action: "read"}}))
	require.NoError(t, first.SyncRoles(ctx, []credentials.Role{{Name: "Analyst"}}))

	second := credentials.NewStore(keyring)
	require.NoError(t, second.Rehydrate(ctx))

	cred := second.Credential()
	assert.True(t, cred.Authenticated, "unexpired persisted token counts as authenticated")
	assert.Equal(t, "tok-re", cred.Token)
	assert.Equal(t, testUser(), cred.User)
	assert.Len(t, cred.Permissions, 1)
	assert.Len(t, cred.Roles, 1)
	assert.WithinDuration(t, expires, cred.ExpiresAt, time.Second)
}

func TestRehydrateExpiredTokenStaysUnauthenticated(t *testing.T) {
	ctx := context.Background()
	keyring := credentials.NewMemoryKeyring()
	first := credentials.NewStore(keyring)

	issued := time.Now().Add(-2 * time.Hour)
	expires := time.Now().Add(-time.Hour)
	require.NoError(t, first.SetCredentials(ctx, testUser(), "stale", issued, expires, nil))

	second := credentials.NewStore(keyring)
	require.NoError(t, second.Rehydrate(ctx))

	cred := second.Credential()
	assert.False(t, cred.Authenticated)
	assert.Equal(t, "stale", cred.Token, "stale token is restored but not trusted")
}

func TestRehydrateEmptyKeyring(t *testing.T) {
	store := credentials.NewStore(credentials.NewMemoryKeyring())
	require.NoError(t, store.Rehydrate(context.Background()))

	cred := store.Credential()
	assert.False(t, cred.Authenticated)
	assert.Empty(t, cred.Token)
}

func TestUsable(t *testing.T) {
	now := time.Now()
	live := credentials.Credential{Token: "t", Authenticated: true, ExpiresAt: now.Add(time.Minute)}
	expired := credentials.Credential{Token: "t", Authenticated: true, ExpiresAt: now.Add(-time.Minute)}

	assert.True(t, live.Usable(now))
	assert.False(t, expired.Usable(now), "authenticated flag alone is not trustworthy")
	assert.False(t, credentials.Credential{}.Usable(now))
}
