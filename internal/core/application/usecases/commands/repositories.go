// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"jewelflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// WorkflowRepoFactory provides access to the workflow repository within a transaction.
	WorkflowRepoFactory interface {
		WorkflowRepository() ports.WorkflowRepository
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// StepInstanceRepoFactory provides access to the step instance repository within a transaction.
	StepInstanceRepoFactory interface {
		StepInstanceRepository() ports.StepInstanceRepository
	}

	// InventoryReconcilerFactory provides access to the inventory reconciler
	// within a transaction.
	InventoryReconcilerFactory interface {
		InventoryReconciler() ports.InventoryReconciler
	}

	// OrderUoW manages transactions for operations touching orders and their
	// workflow definition but no step instances.
	OrderUoW interface {
		TxManager
		WorkflowRepoFactory
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// EngineUoW manages transactions across orders, workflows, and step
	// instances. Used by every command that advances the instance graph.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   instanceRepo := uow.StepInstanceRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	EngineUoW interface {
		TxManager
		WorkflowRepoFactory
		OrderRepoFactory
		StepInstanceRepoFactory
		InventoryReconcilerFactory
	}

	// EngineUoWFactory creates new unit of work instances for instance graph operations.
	EngineUoWFactory interface {
		Create() EngineUoW
	}
)
