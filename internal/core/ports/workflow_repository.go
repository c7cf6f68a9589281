// Package ports defines the boundary contracts of the step progression
// engine. These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/workflow"
)

// WorkflowRepository defines the persistence contract for workflow
// aggregates. Workflows change rarely; steps are never deleted while
// instances reference them, only deactivated.
type WorkflowRepository interface {
	// Add persists a new workflow aggregate with its steps and field
	// definitions.
	Add(ctx context.Context, aggregate *workflow.Workflow) error

	// Update persists changes to an existing workflow aggregate.
	Update(ctx context.Context, aggregate *workflow.Workflow) error

	// Get retrieves a workflow by its unique identifier, with all step and
	// field definitions. Returns ObjectNotFoundError when no such workflow
	// exists.
	Get(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error)
}
