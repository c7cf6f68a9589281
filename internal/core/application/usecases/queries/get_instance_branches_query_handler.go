package queries

import (
	"context"

	"jewelflow/internal/core/domain/services"
	"jewelflow/internal/core/ports"
)

// GetInstanceBranchesQueryHandler answers the branch query by loading the
// batch's order neighborhood and handing it to the branch explorer. Unlike
// the raw SQL read models, this query reasons over lineage, so it goes
// through the aggregates rather than joining rows by hand.
type GetInstanceBranchesQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	explorer   services.BranchExplorer
}

// NewGetInstanceBranchesQueryHandler creates a handler for branch queries.
func NewGetInstanceBranchesQueryHandler(uowFactory ports.UnitOfWorkFactory) GetInstanceBranchesQueryHandler {
	return GetInstanceBranchesQueryHandler{
		uowFactory: uowFactory,
		explorer:   services.NewBranchExplorer(),
	}
}

// Handle executes the query. The read runs outside any transaction; the
// repositories fall back to the shared connection.
func (h GetInstanceBranchesQueryHandler) Handle(
	ctx context.Context,
	query GetInstanceBranchesQuery,
) ([]GetInstanceBranchesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	instanceRepo := uow.StepInstanceRepository()

	inst, err := instanceRepo.Get(ctx, query.InstanceID())
	if err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, inst.OrderID())
	if err != nil {
		return nil, err
	}

	wf, err := uow.WorkflowRepository().Get(ctx, ord.WorkflowID())
	if err != nil {
		return nil, err
	}

	instances, err := instanceRepo.GetAllForOrder(ctx, inst.OrderID())
	if err != nil {
		return nil, err
	}

	// entry instances of rework orders branched off this batch live in other
	// orders; GetAllForOrder does not see them
	children, err := instanceRepo.GetReworkChildren(ctx, inst.ID())
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if !child.OrderID().IsEqual(inst.OrderID()) {
			instances = append(instances, child)
		}
	}

	reworkOrders, err := orderRepo.GetReworkOrders(ctx, inst.OrderID())
	if err != nil {
		return nil, err
	}

	branches, err := h.explorer.OutgoingBranches(inst, wf, instances, reworkOrders)
	if err != nil {
		return nil, err
	}

	return toBranchResponses(branches), nil
}

func toBranchResponses(branches []services.Branch) []GetInstanceBranchesQueryResponse {
	responses := make([]GetInstanceBranchesQueryResponse, len(branches))
	for i, branch := range branches {
		responses[i] = GetInstanceBranchesQueryResponse{
			Type:             branch.Type.String(),
			TargetInstanceID: branch.TargetInstanceID,
			TargetOrderID:    branch.TargetOrderID,
			Quantity:         branch.Quantity.Value(),
			Weight:           branch.Weight.Grams(),
		}
	}
	return responses
}
