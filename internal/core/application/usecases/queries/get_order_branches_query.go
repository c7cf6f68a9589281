package queries

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var (
	ErrGetOrderBranchesQueryIsNotConstructed = errors.New(
		"GetOrderBranchesQuery must be created via NewGetOrderBranchesQuery constructor",
	)
)

// GetOrderBranchesQuery retrieves the rework orders spawned from one parent
// order, so a planner can trace where shortfall material went.
type GetOrderBranchesQuery struct {
	parentOrderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderBranchesQuery creates a query for one order's rework branches.
func NewGetOrderBranchesQuery(parentOrderID kernel.UUID) (GetOrderBranchesQuery, error) {
	if err := parentOrderID.Validate(); err != nil {
		return GetOrderBranchesQuery{}, err
	}
	return GetOrderBranchesQuery{
		parentOrderID: parentOrderID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderBranchesQueryIsNotConstructed if validation fails.
func (q GetOrderBranchesQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderBranchesQueryIsNotConstructed)
}

// ParentOrderID returns the order whose branches are requested.
func (q GetOrderBranchesQuery) ParentOrderID() kernel.UUID {
	return q.parentOrderID
}

// GetOrderBranchesQueryResponse represents one rework order branched off a
// parent order. OriginStepOrder names the workflow step whose shortfall the
// branch reworks.
type GetOrderBranchesQueryResponse struct {
	ID               kernel.UUID
	OrderNumber      int64
	OriginStepOrder  int
	QuantityRequired int
	Priority         string
	Status           string
}
