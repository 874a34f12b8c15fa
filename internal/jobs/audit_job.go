package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// AuditJob periodically snapshots the cafe and appends the observation to
// the audit log. The trail is operational telemetry; losing an observation
// is logged but never propagated.
type AuditJob struct {
	handler  queries.GetCafeStateQueryHandler
	auditLog ports.AuditLog
	cron     *cron.Cron
	spec     string
	logger   *slog.Logger
}

// NewAuditJob creates the audit job with the given cron spec, for example
// "*/10 * * * * *" for one snapshot every ten seconds.
func NewAuditJob(
	handler queries.GetCafeStateQueryHandler,
	auditLog ports.AuditLog,
	spec string,
	logger *slog.Logger,
) *AuditJob {
	return &AuditJob{
		handler:  handler,
		auditLog: auditLog,
		cron:     cron.New(cron.WithSeconds()),
		spec:     spec,
		logger:   logger.With("component", "audit_job"),
	}
}

// Start begins the audit job on its configured schedule.
func (j *AuditJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()

		snapshot, err := j.handler.Handle(ctx, queries.NewGetCafeStateQuery())
		if err != nil {
			j.logger.ErrorContext(ctx, "Cafe state snapshot failed", "error", err)
			return
		}

		if err := j.auditLog.Append(ctx, snapshot); err != nil {
			j.logger.ErrorContext(ctx, "Audit log append failed", "error", err)
		}
	})

	if err != nil {
		return fmt.Errorf("invalid audit schedule %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Audit job started", "schedule", j.spec)
	return nil
}

// Stop stops the audit job.
func (j *AuditJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Audit job stopped")
}
