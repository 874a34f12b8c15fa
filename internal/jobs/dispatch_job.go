package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Kicker wakes the fulfillment scheduler for a dispatch pass.
type Kicker interface {
	Kick()
}

// DispatchJob is the safety net of the fulfillment scheduler. The scheduler
// is woken explicitly after every submit, completion and discard; this job
// re-wakes it every second so a missed signal can only delay placement, not
// strand an item forever.
type DispatchJob struct {
	kicker Kicker
	cron   *cron.Cron
	logger *slog.Logger
}

// NewDispatchJob creates the periodic dispatch safety net.
func NewDispatchJob(kicker Kicker, logger *slog.Logger) *DispatchJob {
	return &DispatchJob{
		kicker: kicker,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "dispatch_job"),
	}
}

// Start begins the dispatch job to run every second.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		j.kicker.Kick()
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch job started (running every second)")
	return nil
}

// Stop stops the dispatch job.
func (j *DispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}
