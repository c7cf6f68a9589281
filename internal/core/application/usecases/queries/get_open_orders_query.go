package queries

import (
	"errors"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var (
	ErrGetOpenOrdersQueryIsNotConstructed = errors.New(
		"GetOpenOrdersQuery must be created via NewGetOpenOrdersQuery constructor",
	)
)

// GetOpenOrdersQuery retrieves all orders still on the shop floor.
// Returns orders in "pending" or "in_progress" status for workload visibility.
//
// Example:
//
//	query := NewGetOpenOrdersQuery()
//	handler := NewGetOpenOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get open orders: %w", err)
//	}
//
//	for _, ord := range orders {
//	    fmt.Printf("Order #%d (%s)\n", ord.OrderNumber, ord.Status)
//	}
type GetOpenOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOpenOrdersQuery creates a query to retrieve open orders.
// This is a parameterless query that fetches every non-terminal order.
func NewGetOpenOrdersQuery() GetOpenOrdersQuery {
	return GetOpenOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOpenOrdersQueryIsNotConstructed if validation fails.
func (q GetOpenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenOrdersQueryIsNotConstructed)
}

// GetOpenOrdersQueryResponse represents one open order on the work queue.
// Rework orders carry their parent linkage so the UI can group branches.
type GetOpenOrdersQueryResponse struct {
	ID               kernel.UUID
	OrderNumber      int64
	WorkflowID       kernel.UUID
	QuantityRequired int
	Priority         string
	Status           string
	DueDate          *time.Time
	ParentOrderID    *kernel.UUID
	OriginStepOrder  *int
}
