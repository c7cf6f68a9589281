package services

import (
	"fmt"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/core/domain/model/workflow"
	"jewelflow/internal/pkg/errs"
)

// Progression is the instance factory of the engine. Every new step instance
// is created through it, which is where the entry-step rule, ancestor
// terminality, batch numbering, and shortfall claims are enforced.
//
// Batch numbers are computed as max+1 over the instances passed in; the
// store's uniqueness constraint on (orderID, stepDefinitionID,
// instanceNumber) is what makes the allocation atomic under concurrent
// creation, surfacing the loser as a ConcurrentModificationError.
//
// Business rules:
//   - An order's very first instance must be the workflow's first active step.
//   - A progression or rework child requires its ancestor to hold a recorded
//     yield (completed or partially completed).
//   - A progression assignment may not exceed the ancestor's unclaimed yield.
//   - A rework assignment may not exceed the ancestor's remaining shortfall.
//   - An accepted shortfall is terminally written off and cannot be reworked.
type Progression struct {
	ledger ConservationLedger
}

// NewProgression creates a new Progression instance.
func NewProgression() Progression {
	return Progression{ledger: NewConservationLedger()}
}

// CreateEntryInstance creates instance #1 of the workflow's first active
// step for an order with no instances yet.
//
// For a rework order, reworkOrigin must be the partially completed instance
// whose shortfall the order reprocesses, and originSiblings the existing
// rework children of that instance; the order's required quantity is
// validated against the remaining shortfall. For a normal order both must be
// nil.
func (p Progression) CreateEntryInstance(
	ord *order.ManufacturingOrder,
	wf *workflow.Workflow,
	existing []*stepinstance.Instance,
	reworkOrigin *stepinstance.Instance,
	originSiblings []*stepinstance.Instance,
	weightAssigned kernel.Weight,
) (*stepinstance.Instance, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	if len(existing) != 0 {
		return nil, errs.NewInvalidTransitionError(ord.ID().String(),
			"order already has step instances; advance it through progression")
	}

	first := wf.FirstActiveStep()
	if first == nil {
		return nil, errs.NewInvalidTransitionError(wf.ID().String(),
			"workflow has no active steps")
	}

	origin := stepinstance.NoOrigin()
	if ord.IsRework() {
		if reworkOrigin == nil {
			return nil, errs.NewValueIsRequiredError("reworkOrigin")
		}
		if err := p.validateReworkOrigin(reworkOrigin); err != nil {
			return nil, err
		}
		err := p.ledger.ValidateReworkClaim(reworkOrigin, originSiblings, wf.Measure(),
			ord.QuantityRequired(), weightAssigned)
		if err != nil {
			return nil, err
		}
		origin = stepinstance.FromRework(reworkOrigin.ID())
	} else if reworkOrigin != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("reworkOrigin",
			fmt.Errorf("order %s is not a rework order", ord.ID()))
	}

	return stepinstance.NewInstance(kernel.NewUUID(), ord.ID(), first.ID(), 1,
		origin, ord.QuantityRequired(), weightAssigned)
}

// CreateProgressionInstance creates the next step's instance from an
// ancestor's accepted yield. reworkChildren must be the existing rework
// instances originating from the ancestor (in-order or cross-order), so the
// unclaimed yield can be computed.
func (p Progression) CreateProgressionInstance(
	ord *order.ManufacturingOrder,
	wf *workflow.Workflow,
	existing []*stepinstance.Instance,
	from *stepinstance.Instance,
	reworkChildren []*stepinstance.Instance,
	quantityAssigned kernel.Quantity,
	weightAssigned kernel.Weight,
) (*stepinstance.Instance, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if !from.OrderID().IsEqual(ord.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("from",
			fmt.Errorf("instance %s belongs to another order", from.ID()))
	}
	if !from.Status().HasYield() {
		return nil, errs.NewInvalidTransitionError(from.ID().String(),
			fmt.Sprintf("ancestor is %s, not terminal", from.Status()))
	}

	step, err := wf.StepByID(from.StepDefinitionID())
	if err != nil {
		return nil, err
	}
	next := wf.NextActiveStep(step.StepOrder())
	if next == nil {
		return nil, errs.NewInvalidTransitionError(from.ID().String(),
			"no active step follows; the workflow is complete")
	}

	available, err := p.ledger.AvailableForNextStep(from, reworkChildren)
	if err != nil {
		return nil, err
	}
	switch wf.Measure() {
	case kernel.MeasureQuantity:
		if quantityAssigned.GreaterThan(available.Quantity) {
			return nil, errs.NewOverAllocationError(from.ID().String(),
				quantityAssigned.Value(), available.Quantity.Value())
		}
	case kernel.MeasureWeight:
		if weightAssigned.GreaterThan(available.Weight) {
			return nil, errs.NewOverAllocationError(from.ID().String(),
				weightAssigned.Grams(), available.Weight.Grams())
		}
	}

	number := nextInstanceNumber(existing, next.ID())
	return stepinstance.NewInstance(kernel.NewUUID(), ord.ID(), next.ID(), number,
		stepinstance.FromParent(from.ID()), quantityAssigned, weightAssigned)
}

// CreateReworkInstance creates an in-order rework batch reprocessing part of
// the origin's shortfall. The new instance targets the same step definition
// as the origin; its assignment is validated against the remaining shortfall
// given the existing rework children.
func (p Progression) CreateReworkInstance(
	ord *order.ManufacturingOrder,
	wf *workflow.Workflow,
	existing []*stepinstance.Instance,
	origin *stepinstance.Instance,
	reworkChildren []*stepinstance.Instance,
	quantityAssigned kernel.Quantity,
	weightAssigned kernel.Weight,
) (*stepinstance.Instance, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}
	if err := wf.Validate(); err != nil {
		return nil, err
	}
	if err := p.validateReworkOrigin(origin); err != nil {
		return nil, err
	}
	if !origin.OrderID().IsEqual(ord.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("origin",
			fmt.Errorf("instance %s belongs to another order", origin.ID()))
	}
	if _, err := wf.StepByID(origin.StepDefinitionID()); err != nil {
		return nil, err
	}

	err := p.ledger.ValidateReworkClaim(origin, reworkChildren, wf.Measure(),
		quantityAssigned, weightAssigned)
	if err != nil {
		return nil, err
	}

	number := nextInstanceNumber(existing, origin.StepDefinitionID())
	return stepinstance.NewInstance(kernel.NewUUID(), ord.ID(), origin.StepDefinitionID(),
		number, stepinstance.FromRework(origin.ID()), quantityAssigned, weightAssigned)
}

func (p Progression) validateReworkOrigin(origin *stepinstance.Instance) error {
	if err := origin.Validate(); err != nil {
		return err
	}
	if origin.Status() != stepinstance.StatusPartiallyCompleted {
		return errs.NewInvalidTransitionError(origin.ID().String(),
			fmt.Sprintf("rework origin is %s, not partially completed", origin.Status()))
	}
	if origin.ShortfallAccepted() {
		return errs.NewInvalidTransitionError(origin.ID().String(),
			"shortfall was accepted; nothing left to rework")
	}
	return nil
}

// nextInstanceNumber allocates max+1 over the order's instances of one step
// definition. Uniqueness under concurrent allocation is the store's job.
func nextInstanceNumber(instances []*stepinstance.Instance, stepDefID kernel.UUID) int {
	max := 0
	for _, inst := range instances {
		if inst.StepDefinitionID().IsEqual(stepDefID) && inst.InstanceNumber() > max {
			max = inst.InstanceNumber()
		}
	}
	return max + 1
}
