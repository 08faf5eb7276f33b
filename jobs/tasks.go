package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuthAuditPrune is the task type for pruning expired login audit rows.
	TaskAuthAuditPrune = "auth:audit:prune"
)

// AuditPrunePayload parameterizes an audit prune run.
type AuditPrunePayload struct {
	// Grace keeps rows around for this long past token expiry.
	Grace time.Duration `json:"grace"`
}

// NewAuditPruneTask constructs an Asynq task.
func NewAuditPruneTask(grace time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(AuditPrunePayload{Grace: grace})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuthAuditPrune, data), nil
}
