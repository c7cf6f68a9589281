package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each
// request/command. This ensures proper isolation between concurrent
// operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. It provides
// transaction control and tracks aggregate changes. Client code must
// explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// WorkflowRepository returns a WorkflowRepository bound to the current
	// transaction.
	WorkflowRepository() WorkflowRepository

	// OrderRepository returns an OrderRepository bound to the current
	// transaction.
	OrderRepository() OrderRepository

	// StepInstanceRepository returns a StepInstanceRepository bound to the
	// current transaction.
	StepInstanceRepository() StepInstanceRepository

	// InventoryReconciler returns an InventoryReconciler bound to the current
	// transaction, so a tag-in fact commits or rolls back together with the
	// order's status change.
	InventoryReconciler() InventoryReconciler
}
