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
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// SessionSweepJob deletes expired console sessions from PostgreSQL and drops
// their persisted auth state from Redis.
type SessionSweepJob struct {
	Repo    auth.Repository
	Redis   *redis.Client
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSessionSweepJob wires dependencies for the sweep handler.
func NewSessionSweepJob(repo auth.Repository, client *redis.Client, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionSweepJob {
	return &SessionSweepJob{
		Repo:    repo,
		Redis:   client,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes session sweep tasks.
func (j *SessionSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("session sweep: handler not configured")
	}
	var payload SessionSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskTypeSessionSweep)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	now := j.now()

	expired, err := j.Repo.ExpiredSessions(ctx, now)
	if err != nil {
		resultErr = err
		logger.Error("list expired sessions", slog.Any("error", err))
		return resultErr
	}
	if len(expired) == 0 {
		logger.Info("no expired sessions")
		return resultErr
	}
	if payload.Batch > 0 && len(expired) > payload.Batch {
		expired = expired[:payload.Batch]
	}

	removed, err := j.Repo.DeleteSessions(ctx, expired)
	if err != nil {
		resultErr = err
		logger.Error("delete expired sessions", slog.Any("error", err))
		return resultErr
	}

	if j.Redis != nil {
		keys := make([]string, 0, len(expired))
		for _, id := range expired {
			keys = append(keys, credentials.StateKey(id))
		}
		if err := j.Redis.Del(ctx, keys...).Err(); err != nil {
			resultErr = err
			logger.Error("drop session state", slog.Any("error", err))
			return resultErr
		}
	}

	j.metrics().AddSwept(int(removed))
	logger.Info("completed session sweep",
		slog.Int64("removed", removed),
		slog.Duration("duration", time.Since(now)))
	return resultErr
}

func (j *SessionSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeSessionSweep))
	}
	return slog.Default().With(slog.String("job", TaskTypeSessionSweep))
}

func (j *SessionSweepJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *SessionSweepJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
