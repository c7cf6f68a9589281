package services

import (
	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/pkg/errs"
)

// Reconciliation splits an instance's yield into the accepted portion
// (received back from the step) and the shortfall (assigned but not
// received), on both measures.
type Reconciliation struct {
	AcceptedQuantity  kernel.Quantity
	ShortfallQuantity kernel.Quantity
	AcceptedWeight    kernel.Weight
	ShortfallWeight   kernel.Weight
}

// Availability is the amount of an instance's yield not yet claimed by
// downstream rework, on both measures.
type Availability struct {
	Quantity kernel.Quantity
	Weight   kernel.Weight
}

// ConservationLedger is the read-side quantity and weight accounting over an
// order's instance graph.
//
// The ledger owns no mutable state. Every method is a computation over the
// instances passed in; the caller is responsible for reading those instances
// from a consistent snapshot (within a transaction when the result gates a
// write, see the application layer's unit of work).
//
// All figures fail closed: a computation that would go negative indicates a
// double allocation and is surfaced as an OverAllocationError, never clamped
// or returned as a negative number.
type ConservationLedger struct{}

// NewConservationLedger creates a new ConservationLedger instance.
func NewConservationLedger() ConservationLedger {
	return ConservationLedger{}
}

// Reconcile splits the instance's yield into accepted and shortfall.
func (l ConservationLedger) Reconcile(inst *stepinstance.Instance) (Reconciliation, error) {
	if err := inst.Validate(); err != nil {
		return Reconciliation{}, err
	}

	return Reconciliation{
		AcceptedQuantity:  inst.QuantityReceived(),
		ShortfallQuantity: inst.ShortfallQuantity(),
		AcceptedWeight:    inst.WeightReceived(),
		ShortfallWeight:   inst.ShortfallWeight(),
	}, nil
}

// AvailableForNextStep computes how much of the instance's received yield is
// still assignable downstream: received minus the sum assigned to rework
// instances originating from it. Rework children belonging to other orders
// (entry instances of cross-order rework orders) count the same as in-order
// rework instances.
//
// Instances in reworkChildren that do not originate from inst are ignored.
func (l ConservationLedger) AvailableForNextStep(
	inst *stepinstance.Instance,
	reworkChildren []*stepinstance.Instance,
) (Availability, error) {
	if err := inst.Validate(); err != nil {
		return Availability{}, err
	}

	claimedQty, claimedWeight := l.reworkClaims(inst.ID(), reworkChildren)

	availableQty, err := inst.QuantityReceived().Sub(claimedQty)
	if err != nil {
		return Availability{}, errs.NewOverAllocationError(inst.ID().String(),
			claimedQty.Value(), inst.QuantityReceived().Value())
	}

	availableWeight, err := inst.WeightReceived().Sub(claimedWeight)
	if err != nil {
		return Availability{}, errs.NewOverAllocationError(inst.ID().String(),
			claimedWeight.Grams(), inst.WeightReceived().Grams())
	}

	return Availability{Quantity: availableQty, Weight: availableWeight}, nil
}

// RemainingShortfall computes how much of the instance's shortfall is still
// unclaimed by rework: shortfall minus the sum assigned to rework instances
// originating from it.
func (l ConservationLedger) RemainingShortfall(
	inst *stepinstance.Instance,
	reworkChildren []*stepinstance.Instance,
) (Availability, error) {
	if err := inst.Validate(); err != nil {
		return Availability{}, err
	}

	claimedQty, claimedWeight := l.reworkClaims(inst.ID(), reworkChildren)

	remainingQty, err := inst.ShortfallQuantity().Sub(claimedQty)
	if err != nil {
		return Availability{}, errs.NewOverAllocationError(inst.ID().String(),
			claimedQty.Value(), inst.ShortfallQuantity().Value())
	}

	remainingWeight, err := inst.ShortfallWeight().Sub(claimedWeight)
	if err != nil {
		return Availability{}, errs.NewOverAllocationError(inst.ID().String(),
			claimedWeight.Grams(), inst.ShortfallWeight().Grams())
	}

	return Availability{Quantity: remainingQty, Weight: remainingWeight}, nil
}

// ValidateReworkClaim checks that assigning the requested workload to a new
// rework instance would not exceed the origin's remaining shortfall on the
// authoritative measure. Returns OverAllocationError when it would.
func (l ConservationLedger) ValidateReworkClaim(
	origin *stepinstance.Instance,
	existingChildren []*stepinstance.Instance,
	measure kernel.Measure,
	requestedQuantity kernel.Quantity,
	requestedWeight kernel.Weight,
) error {
	if err := measure.Validate(); err != nil {
		return err
	}

	remaining, err := l.RemainingShortfall(origin, existingChildren)
	if err != nil {
		return err
	}

	switch measure {
	case kernel.MeasureQuantity:
		if requestedQuantity.GreaterThan(remaining.Quantity) {
			return errs.NewOverAllocationError(origin.ID().String(),
				requestedQuantity.Value(), remaining.Quantity.Value())
		}
	case kernel.MeasureWeight:
		if requestedWeight.GreaterThan(remaining.Weight) {
			return errs.NewOverAllocationError(origin.ID().String(),
				requestedWeight.Grams(), remaining.Weight.Grams())
		}
	}
	return nil
}

// reworkClaims sums the assigned workload of the children originating from
// originID via a rework edge.
func (l ConservationLedger) reworkClaims(
	originID kernel.UUID,
	children []*stepinstance.Instance,
) (kernel.Quantity, kernel.Weight) {
	var (
		qty    kernel.Quantity
		weight kernel.Weight
	)
	for _, child := range children {
		childOrigin := child.OriginInstanceID()
		if childOrigin == nil || !childOrigin.IsEqual(originID) {
			continue
		}
		qty = qty.Add(child.QuantityAssigned())
		weight = weight.Add(child.WeightAssigned())
	}
	return qty, weight
}
