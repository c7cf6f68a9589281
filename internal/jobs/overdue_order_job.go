package jobs

import (
	"context"
	"log/slog"
	"time"

	"jewelflow/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// OverdueOrderJob periodically scans the open work queue and logs every order
// whose due date has passed. It never mutates state; transitions stay
// operator-driven.
type OverdueOrderJob struct {
	handler queries.GetOpenOrdersQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOverdueOrderJob creates a job that reports overdue orders every minute.
func NewOverdueOrderJob(handler queries.GetOpenOrdersQueryHandler, logger *slog.Logger) *OverdueOrderJob {
	return &OverdueOrderJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "overdue_order_job"),
	}
}

// Start begins the overdue order scan on a minute schedule.
func (j *OverdueOrderJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		query := queries.NewGetOpenOrdersQuery()

		orders, handleErr := j.handler.Handle(ctx, query)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Overdue order scan failed", "error", handleErr)
			return
		}

		now := time.Now().UTC()
		for _, ord := range orders {
			if ord.DueDate == nil || ord.DueDate.After(now) {
				continue
			}
			j.logger.WarnContext(ctx, "Order is overdue",
				"order_id", ord.ID.String(),
				"order_number", ord.OrderNumber,
				"priority", ord.Priority,
				"due_date", ord.DueDate,
			)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue order job started (running every minute)")
	return nil
}

// Stop stops the overdue order job.
func (j *OverdueOrderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Overdue order job stopped")
}
