package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/atlaspay/atlas-console/internal/auth"
	"github.com/atlaspay/atlas-console/internal/credentials"
	jobmetrics "github.com/atlaspay/atlas-console/internal/jobs"
	"github.com/atlaspay/atlas-console/internal/rbac"
)

// GrantSyncJob re-resolves an account's grants and writes them into the auth
// state of every live session, so revocations land without waiting for the
// user to refresh.
type GrantSyncJob struct {
	Repo    auth.Repository
	RBAC    *rbac.Service
	Redis   *redis.Client
	TTL     time.Duration
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewGrantSyncJob wires dependencies for the grant-sync handler.
func NewGrantSyncJob(repo auth.Repository, rbacSvc *rbac.Service, client *redis.Client, ttl time.Duration, logger *slog.Logger, metrics *jobmetrics.Metrics) *GrantSyncJob {
	return &GrantSyncJob{
		Repo:    repo,
		RBAC:    rbacSvc,
		Redis:   client,
		TTL:     ttl,
		Logger:  logger,
		Metrics: metrics,
	}
}

// Handle processes grant-sync tasks.
func (j *GrantSyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil || j.RBAC == nil || j.Redis == nil {
		return errors.New("grant sync: handler not configured")
	}
	var payload GrantSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.AccountID <= 0 {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskTypeGrantSync)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int64("account_id", payload.AccountID))

	sessions, err := j.Repo.ActiveSessions(ctx, payload.AccountID)
	if err != nil {
		resultErr = err
		logger.Error("list active sessions", slog.Any("error", err))
		return resultErr
	}
	if len(sessions) == 0 {
		logger.Info("no live sessions to sync")
		return resultErr
	}

	synced := 0
	for _, sessionID := range sessions {
		store := credentials.NewStore(credentials.NewRedisKeyring(j.Redis, sessionID, j.TTL))
		if err := j.RBAC.Refresh(ctx, payload.AccountID, store); err != nil {
			resultErr = err
			logger.Error("refresh session grants", slog.String("session_id", sessionID), slog.Any("error", err))
			return resultErr
		}
		synced++
	}

	logger.Info("completed grant sync", slog.Int("sessions", synced))
	return resultErr
}

func (j *GrantSyncJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeGrantSync))
	}
	return slog.Default().With(slog.String("job", TaskTypeGrantSync))
}

func (j *GrantSyncJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
