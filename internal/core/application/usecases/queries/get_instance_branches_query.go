package queries

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var (
	ErrGetInstanceBranchesQueryIsNotConstructed = errors.New(
		"GetInstanceBranchesQuery must be created via NewGetInstanceBranchesQuery constructor",
	)
)

// GetInstanceBranchesQuery retrieves one step batch's outgoing edges: where
// its accepted yield went and where its shortfall is being reworked. This is
// the read behind the production graph rendering.
type GetInstanceBranchesQuery struct {
	instanceID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetInstanceBranchesQuery creates a query for one batch's outgoing branches.
func NewGetInstanceBranchesQuery(instanceID kernel.UUID) (GetInstanceBranchesQuery, error) {
	if err := instanceID.Validate(); err != nil {
		return GetInstanceBranchesQuery{}, err
	}
	return GetInstanceBranchesQuery{
		instanceID: instanceID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetInstanceBranchesQueryIsNotConstructed if validation fails.
func (q GetInstanceBranchesQuery) Validate() error {
	return q.guard.Validate(ErrGetInstanceBranchesQueryIsNotConstructed)
}

// InstanceID returns the batch whose branches are requested.
func (q GetInstanceBranchesQuery) InstanceID() kernel.UUID {
	return q.instanceID
}

// GetInstanceBranchesQueryResponse represents one outgoing edge of a step
// batch. Type is "progression" or "rework". Exactly one of TargetInstanceID
// and TargetOrderID is set: in-order edges target a batch, cross-order rework
// edges target the rework order.
type GetInstanceBranchesQueryResponse struct {
	Type             string
	TargetInstanceID *kernel.UUID
	TargetOrderID    *kernel.UUID
	Quantity         int
	Weight           float64
}
