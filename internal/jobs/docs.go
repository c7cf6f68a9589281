// Package jobs provides scheduled background tasks for the progression engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic observability scans over the read side.
//
// # Available Jobs
//
// 1. OverdueOrderJob - Runs every minute to report open orders past their due date
// 2. StalledInstanceJob - Runs every 15 minutes to report in-flight batches older than a threshold
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(getOpenOrdersHandler, getStalledInstancesHandler, 8*time.Hour, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs use standard five-field cron expressions. The scans are read-only:
// no job ever transitions an order or a batch, state changes stay with the
// operators on the shop floor.
//
// # Error Handling
//
// - Scan failures are logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
