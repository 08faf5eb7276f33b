package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/acquisition-app/acquisition/internal/auth"
)

// AuditPruneJob deletes login audit rows whose token expiry has passed.
type AuditPruneJob struct {
	repo   auth.Repository
	logger *slog.Logger
}

// NewAuditPruneJob constructs the prune job.
func NewAuditPruneJob(repo auth.Repository, logger *slog.Logger) *AuditPruneJob {
	return &AuditPruneJob{repo: repo, logger: logger}
}

// Handle processes TaskAuthAuditPrune tasks.
func (j *AuditPruneJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	cutoff := time.Now().Add(-payload.Grace)
	deleted, err := j.repo.DeleteExpiredAudit(ctx, cutoff)
	if err != nil {
		j.logger.Error("prune auth audit", slog.Any("error", err))
		return err
	}
	j.logger.Info("pruned auth audit rows",
		slog.Int64("deleted", deleted), slog.Time("cutoff", cutoff))
	return nil
}
