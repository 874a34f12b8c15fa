package jobs

import (
	"fmt"
	"log/slog"

	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchJob *DispatchJob
	auditJob    *AuditJob
}

// NewJobManager creates a job manager with all required jobs. auditLog may
// be nil when no audit store is configured; the audit job is then skipped.
func NewJobManager(
	kicker Kicker,
	cafeStateHandler queries.GetCafeStateQueryHandler,
	auditLog ports.AuditLog,
	auditSpec string,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{
		dispatchJob: NewDispatchJob(kicker, logger),
	}

	if auditLog != nil {
		jm.auditJob = NewAuditJob(cafeStateHandler, auditLog, auditSpec, logger)
	}

	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch job: %w", err)
	}

	if jm.auditJob != nil {
		if err := jm.auditJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.dispatchJob.Stop()
			return fmt.Errorf("failed to start audit job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.auditJob != nil {
		jm.auditJob.Stop()
	}
	jm.dispatchJob.Stop()
}
