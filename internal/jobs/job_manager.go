package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"jewelflow/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	overdueOrderJob    *OverdueOrderJob
	stalledInstanceJob *StalledInstanceJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes query handlers as dependencies to wire up the job execution.
func NewJobManager(
	getOpenOrdersHandler queries.GetOpenOrdersQueryHandler,
	getStalledInstancesHandler queries.GetStalledInstancesQueryHandler,
	stalledAfter time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		overdueOrderJob:    NewOverdueOrderJob(getOpenOrdersHandler, logger),
		stalledInstanceJob: NewStalledInstanceJob(getStalledInstancesHandler, stalledAfter, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueOrderJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue order job: %w", err)
	}

	if err := jm.stalledInstanceJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.overdueOrderJob.Stop()
		return fmt.Errorf("failed to start stalled instance job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overdueOrderJob.Stop()
	jm.stalledInstanceJob.Stop()
}
