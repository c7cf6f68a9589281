package jobs

import (
	"context"
	"log/slog"
	"time"

	"jewelflow/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// StalledInstanceJob periodically reports batches that were started but have
// made no progress past the configured threshold. Blocked batches are
// included so material waiting on a decision stays visible.
type StalledInstanceJob struct {
	handler      queries.GetStalledInstancesQueryHandler
	stalledAfter time.Duration
	cron         *cron.Cron
	logger       *slog.Logger
}

// NewStalledInstanceJob creates a job that reports stalled batches every
// 15 minutes.
func NewStalledInstanceJob(
	handler queries.GetStalledInstancesQueryHandler,
	stalledAfter time.Duration,
	logger *slog.Logger,
) *StalledInstanceJob {
	return &StalledInstanceJob{
		handler:      handler,
		stalledAfter: stalledAfter,
		cron:         cron.New(),
		logger:       logger.With("component", "stalled_instance_job"),
	}
}

// Start begins the stalled batch scan on a 15 minute schedule.
func (j *StalledInstanceJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * *", func() {
		ctx := context.Background()

		query, queryErr := queries.NewGetStalledInstancesQuery(j.stalledAfter)
		if queryErr != nil {
			j.logger.ErrorContext(ctx, "Stalled instance scan misconfigured", "error", queryErr)
			return
		}

		stalled, handleErr := j.handler.Handle(ctx, query)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Stalled instance scan failed", "error", handleErr)
			return
		}

		for _, batch := range stalled {
			j.logger.WarnContext(ctx, "Step batch is stalled",
				"instance_id", batch.ID.String(),
				"order_id", batch.OrderID.String(),
				"step", batch.StepName,
				"instance_number", batch.InstanceNumber,
				"status", batch.Status,
				"started_at", batch.StartedAt,
			)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stalled instance job started (running every 15 minutes)")
	return nil
}

// Stop stops the stalled instance job.
func (j *StalledInstanceJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stalled instance job stopped")
}
