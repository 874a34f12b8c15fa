// Package jobs provides scheduled background tasks for the cafe.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the fulfillment engine.
//
// # Available Jobs
//
// 1. DispatchJob - Runs every second as the scheduler's safety net, so a
// missed wake-up signal never strands a waiting item
// 2. AuditJob - Periodically snapshots the cafe and appends the observation
// to the audit log
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(scheduler, cafeStateHandler, auditLog, "*/10 * * * * *", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The dispatch job cannot fail; a kick of a halted scheduler is a no-op
// - The audit job logs snapshot and append failures without propagating them
// - Failed job starts will stop any already running jobs
package jobs
