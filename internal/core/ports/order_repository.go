package ports

import (
	"context"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for manufacturing order
// aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.ManufacturingOrder) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.ManufacturingOrder) error

	// Get retrieves an order aggregate by its unique identifier. Returns
	// ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.ManufacturingOrder, error)

	// NextOrderNumber issues the next value of the global, sequential order
	// number. Issued atomically; two concurrent callers never receive the
	// same number.
	NextOrderNumber(ctx context.Context) (int64, error)

	// GetReworkOrders retrieves the rework orders whose parent is the given
	// order.
	GetReworkOrders(ctx context.Context, parentOrderID kernel.UUID) ([]*order.ManufacturingOrder, error)
}
