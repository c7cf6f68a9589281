package queries

import (
	"errors"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var (
	ErrGetOrderProgressQueryIsNotConstructed = errors.New(
		"GetOrderProgressQuery must be created via NewGetOrderProgressQuery constructor",
	)
)

// GetOrderProgressQuery retrieves every step batch recorded for one order,
// joined with the step names from the order's workflow.
//
// Example:
//
//	query, err := NewGetOrderProgressQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetOrderProgressQueryHandler(db)
//	batches, err := handler.Handle(ctx, query)
type GetOrderProgressQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderProgressQuery creates a query for one order's step batches.
func NewGetOrderProgressQuery(orderID kernel.UUID) (GetOrderProgressQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderProgressQuery{}, err
	}
	return GetOrderProgressQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderProgressQueryIsNotConstructed if validation fails.
func (q GetOrderProgressQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderProgressQueryIsNotConstructed)
}

// OrderID returns the order whose batches are requested.
func (q GetOrderProgressQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderProgressQueryResponse represents one step batch of an order.
// StepName and StepOrder come from the workflow's step definition.
type GetOrderProgressQueryResponse struct {
	ID                kernel.UUID
	StepDefinitionID  kernel.UUID
	StepName          string
	StepOrder         int
	InstanceNumber    int
	Status            string
	QuantityAssigned  int
	QuantityReceived  int
	WeightAssigned    float64
	WeightReceived    float64
	ShortfallAccepted bool
	StartedAt         *time.Time
	CompletedAt       *time.Time
}
