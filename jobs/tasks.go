package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSessionSweep removes expired console sessions and their
	// persisted auth state.
	TaskTypeSessionSweep = "session:sweep"
	// TaskTypeGrantSync pushes freshly resolved grants into every live
	// session of an account.
	TaskTypeGrantSync = "rbac:sync"
)

// SessionSweepPayload carries optional tuning for a sweep run.
type SessionSweepPayload struct {
	// Batch caps how many sessions one run removes. Zero means no cap.
	Batch int `json:"batch,omitempty"`
}

// NewSessionSweepTask constructs an Asynq task for the session sweep.
func NewSessionSweepTask(payload SessionSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSessionSweep, data), nil
}

// GrantSyncPayload identifies the account whose sessions need fresh grants.
type GrantSyncPayload struct {
	AccountID int64 `json:"account_id"`
}

// NewGrantSyncTask constructs an Asynq task for a grant sync.
func NewGrantSyncTask(payload GrantSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeGrantSync, data), nil
}
