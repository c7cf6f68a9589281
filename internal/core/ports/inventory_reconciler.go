package ports

import (
	"context"

	"jewelflow/internal/core/domain/model/kernel"
)

// TagInFact is the single fact emitted when an order's output is reconciled
// into finished goods inventory. FinalWeight is zero for quantity-measured
// workflows that track no weight.
type TagInFact struct {
	OrderID       kernel.UUID
	FinalQuantity kernel.Quantity
	FinalWeight   kernel.Weight
}

// InventoryReconciler consumes tag-in facts exactly once. Tagging in is
// irreversible, so the order id serves as the idempotency key: recording the
// same fact twice is a no-op.
type InventoryReconciler interface {
	RecordTagIn(ctx context.Context, fact TagInFact) error
}
