package services

import (
	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/core/domain/model/workflow"
)

// BranchType discriminates an outgoing edge of the instance graph.
type BranchType int

const (
	// BranchProgression is the forward edge carrying accepted yield to the
	// next step's instance.
	BranchProgression BranchType = iota

	// BranchRework is the edge carrying shortfall into a reprocessing batch,
	// in the same order or in a dedicated rework order.
	BranchRework
)

// String returns the rendering layer's name for the branch type.
func (t BranchType) String() string {
	if t == BranchRework {
		return "rework"
	}
	return "progression"
}

// Branch is one outgoing edge of a step instance. Exactly one of
// TargetInstanceID and TargetOrderID is set: an in-order edge targets an
// instance, a cross-order rework edge targets the rework order.
type Branch struct {
	Type             BranchType
	TargetInstanceID *kernel.UUID
	TargetOrderID    *kernel.UUID
	Quantity         kernel.Quantity
	Weight           kernel.Weight
}

// BranchExplorer answers the rendering layer's only topology question: what
// are an instance's outgoing branches. Edges are read from stored lineage
// (parent and origin references, rework order records), so consumers never
// inspect raw statuses or step names to infer the graph.
type BranchExplorer struct{}

// NewBranchExplorer creates a new BranchExplorer instance.
func NewBranchExplorer() BranchExplorer {
	return BranchExplorer{}
}

// OutgoingBranches lists the instance's outgoing edges.
//
// instances must include the order's own instances plus any entry instances
// of rework orders descending from it; reworkOrders the rework orders opened
// against the instance's order. A rework order whose entry instance exists
// appears once, as a cross-order edge targeting the order.
func (e BranchExplorer) OutgoingBranches(
	inst *stepinstance.Instance,
	wf *workflow.Workflow,
	instances []*stepinstance.Instance,
	reworkOrders []*order.ManufacturingOrder,
) ([]Branch, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}

	branches := make([]Branch, 0)
	coveredOrders := make(map[kernel.UUID]bool)

	for _, candidate := range instances {
		if candidate.ID().IsEqual(inst.ID()) {
			continue
		}

		if parentID := candidate.ParentInstanceID(); parentID != nil && parentID.IsEqual(inst.ID()) {
			targetID := candidate.ID()
			branches = append(branches, Branch{
				Type:             BranchProgression,
				TargetInstanceID: &targetID,
				Quantity:         candidate.QuantityAssigned(),
				Weight:           candidate.WeightAssigned(),
			})
			continue
		}

		originID := candidate.OriginInstanceID()
		if originID == nil || !originID.IsEqual(inst.ID()) {
			continue
		}

		if candidate.OrderID().IsEqual(inst.OrderID()) {
			targetID := candidate.ID()
			branches = append(branches, Branch{
				Type:             BranchRework,
				TargetInstanceID: &targetID,
				Quantity:         candidate.QuantityAssigned(),
				Weight:           candidate.WeightAssigned(),
			})
			continue
		}

		// entry instance of a cross-order rework order
		targetOrderID := candidate.OrderID()
		coveredOrders[targetOrderID] = true
		branches = append(branches, Branch{
			Type:          BranchRework,
			TargetOrderID: &targetOrderID,
			Quantity:      candidate.QuantityAssigned(),
			Weight:        candidate.WeightAssigned(),
		})
	}

	// rework orders opened against this instance's step but not started yet
	step, err := wf.StepByID(inst.StepDefinitionID())
	if err != nil {
		return nil, err
	}
	for _, reworkOrder := range reworkOrders {
		if coveredOrders[reworkOrder.ID()] {
			continue
		}
		parentOrderID := reworkOrder.ParentOrderID()
		originStepOrder := reworkOrder.OriginStepOrder()
		if parentOrderID == nil || originStepOrder == nil {
			continue
		}
		if !parentOrderID.IsEqual(inst.OrderID()) || *originStepOrder != step.StepOrder() {
			continue
		}

		targetOrderID := reworkOrder.ID()
		branches = append(branches, Branch{
			Type:          BranchRework,
			TargetOrderID: &targetOrderID,
			Quantity:      reworkOrder.QuantityRequired(),
		})
	}

	return branches, nil
}
