package ports

import (
	"context"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/stepinstance"
)

// StepInstanceRepository defines the persistence contract for step
// instances.
//
// Add relies on a uniqueness constraint over (orderID, stepDefinitionID,
// instanceNumber): when two concurrent creations race for the same batch
// number, exactly one succeeds and the loser receives a
// ConcurrentModificationError after a single retry from fresh state fails.
type StepInstanceRepository interface {
	// Add persists a new step instance. Returns ConcurrentModificationError
	// when the instance's batch number was taken by a concurrent creation.
	Add(ctx context.Context, aggregate *stepinstance.Instance) error

	// Update persists changes to an existing step instance.
	Update(ctx context.Context, aggregate *stepinstance.Instance) error

	// Get retrieves a step instance by its unique identifier. Returns
	// ObjectNotFoundError when no such instance exists.
	Get(ctx context.Context, id kernel.UUID) (*stepinstance.Instance, error)

	// GetForUpdate retrieves a step instance and locks its row for the rest
	// of the transaction. Used for writes into a terminal state, which must
	// be atomic with the ledger's read of the instance's yield.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*stepinstance.Instance, error)

	// GetAllForOrder retrieves every instance belonging to the order,
	// ordered by step definition and batch number.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*stepinstance.Instance, error)

	// GetReworkChildren retrieves every instance, across all orders, whose
	// rework origin is the given instance.
	GetReworkChildren(ctx context.Context, originInstanceID kernel.UUID) ([]*stepinstance.Instance, error)
}
