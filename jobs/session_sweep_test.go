package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlaspay/atlas-console/internal/auth"
	"github.com/atlaspay/atlas-console/internal/credentials"
	jobmetrics "github.com/atlaspay/atlas-console/internal/jobs"
	"github.com/atlaspay/atlas-console/internal/rbac"
)

type sweepRepo struct {
	expired []string
	active  map[int64][]string
	deleted []string
}

func (r *sweepRepo) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return nil, nil
}

func (r *sweepRepo) CreateSession(ctx context.Context, id string, accountID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (r *sweepRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func (r *sweepRepo) ExpiredSessions(ctx context.Context, before time.Time) ([]string, error) {
	return r.expired, nil
}

func (r *sweepRepo) DeleteSessions(ctx context.Context, ids []string) (int64, error) {
	r.deleted = append(r.deleted, ids...)
	return int64(len(ids)), nil
}

func (r *sweepRepo) ActiveSessions(ctx context.Context, accountID int64) ([]string, error) {
	return r.active[accountID], nil
}

type grantRepo struct {
	perms []credentials.Permission
	roles []credentials.Role
}

func (r *grantRepo) EffectivePermissions(ctx context.Context, accountID int64) ([]credentials.Permission, error) {
	return r.perms, nil
}

func (r *grantRepo) EffectiveRoles(ctx context.Context, accountID int64) ([]credentials.Role, error) {
	return r.roles, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSessionSweepRemovesStateAndRecords(t *testing.T) {
	ctx := context.Background()
	client := testRedis(t)
	repo := &sweepRepo{expired: []string{"sid-a", "sid-b"}}

	for _, sid := range repo.expired {
		store := credentials.NewStore(credentials.NewRedisKeyring(client, sid, time.Hour))
		require.NoError(t, store.SetCredentials(ctx, credentials.User{ID: 1}, "tok",
			time.Now(), time.Now().Add(-time.Minute), nil))
	}

	job := NewSessionSweepJob(repo, client, testLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewSessionSweepTask(SessionSweepPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(ctx, task))

	assert.ElementsMatch(t, []string{"sid-a", "sid-b"}, repo.deleted)
	for _, sid := range []string{"sid-a", "sid-b"} {
		exists, err := client.Exists(ctx, credentials.StateKey(sid)).Result()
		require.NoError(t, err)
		assert.Zero(t, exists)
	}
}

func TestSessionSweepHonorsBatchCap(t *testing.T) {
	ctx := context.Background()
	repo := &sweepRepo{expired: []string{"sid-a", "sid-b", "sid-c"}}

	job := NewSessionSweepJob(repo, testRedis(t), testLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewSessionSweepTask(SessionSweepPayload{Batch: 2})
	require.NoError(t, err)
	require.NoError(t, job.Handle(ctx, task))

	assert.Len(t, repo.deleted, 2)
}

func TestGrantSyncUpdatesLiveSessions(t *testing.T) {
	ctx := context.Background()
	client := testRedis(t)
	repo := &sweepRepo{active: map[int64][]string{42: {"sid-live"}}}

	store := credentials.NewStore(credentials.NewRedisKeyring(client, "sid-live", time.Hour))
	require.NoError(t, store.SetCredentials(ctx, credentials.User{ID: 42}, "tok",
		time.Now(), time.Now().Add(time.Hour),
		[]credentials.Permission{{Name: "stale.permission"}}))

	svc := rbac.NewService(&grantRepo{
		perms: []credentials.Permission{{Name: "merchants.view", Action: "read"}},
		roles: []credentials.Role{{Name: "Analyst"}},
	})
	job := NewGrantSyncJob(repo, svc, client, time.Hour, testLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewGrantSyncTask(GrantSyncPayload{AccountID: 42})
	require.NoError(t, err)
	require.NoError(t, job.Handle(ctx, task))

	reloaded := credentials.NewStore(credentials.NewRedisKeyring(client, "sid-live", time.Hour))
	require.NoError(t, reloaded.Rehydrate(ctx))
	cred := reloaded.Credential()
	require.Len(t, cred.Permissions, 1)
	assert.Equal(t, "merchants.view", cred.Permissions[0].Name)
	require.Len(t, cred.Roles, 1)
	assert.Equal(t, "Analyst", cred.Roles[0].Name)
	assert.Equal(t, "tok", cred.Token)
	assert.True(t, cred.Authenticated)
}

func TestGrantSyncRejectsBadPayload(t *testing.T) {
	job := NewGrantSyncJob(&sweepRepo{}, rbac.NewService(&grantRepo{}), testRedis(t), time.Hour,
		testLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewGrantSyncTask(GrantSyncPayload{AccountID: 0})
	require.NoError(t, err)
	assert.Error(t, job.Handle(context.Background(), task))
}
