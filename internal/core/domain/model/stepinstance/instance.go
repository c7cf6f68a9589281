package stepinstance

import (
	"errors"
	"fmt"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/workflow"
	"jewelflow/internal/pkg/errs"
)

var (
	// ErrInstanceIsNotConstructed is returned when an Instance was not created
	// through the NewInstance factory method.
	ErrInstanceIsNotConstructed = errors.New("Instance must be created via NewInstance constructor")
)

// Instance is one batch of work against a step definition for one order.
//
// Instance follows these invariants:
//   - instanceNumber is positive; uniqueness per (orderID, stepDefinitionID)
//     is enforced by the store at creation
//   - quantityReceived <= quantityAssigned and weightReceived <= weightAssigned,
//     never violated by any sequence of valid transitions
//   - parent and rework lineage are mutually exclusive (see Origin)
//   - terminal yield states are final; an instance is never reopened
//
// Yield recording validates everything before mutating, so a rejected write
// leaves the instance unchanged.
type Instance struct {
	// id is the unique identifier for the instance
	id kernel.UUID

	// orderID is the owning manufacturing order
	orderID kernel.UUID

	// stepDefinitionID references the workflow step this batch executes
	stepDefinitionID kernel.UUID

	// instanceNumber is 1-based and unique within (orderID, stepDefinitionID)
	instanceNumber int

	// status is the current lifecycle state
	status Status

	// origin records how this instance entered the workflow
	origin Origin

	quantityAssigned kernel.Quantity
	quantityReceived kernel.Quantity
	weightAssigned   kernel.Weight
	weightReceived   kernel.Weight

	// assignedWorkerID is the karigar working the batch, nil until started
	assignedWorkerID *kernel.UUID

	startedAt   *time.Time
	completedAt *time.Time

	// shortfallAccepted marks a partial's shortfall as terminally written off
	shortfallAccepted bool

	// fieldValues holds the step's collected field values by field key
	fieldValues workflow.FieldValues

	// guard ensures the instance was created via NewInstance
	guard kernel.ConstructorGuard
}

// NewInstance creates a pending instance with its assigned workload.
//
// The caller (normally the progression service) is responsible for choosing
// the instance number and for the store-level uniqueness of that number.
func NewInstance(
	id kernel.UUID,
	orderID kernel.UUID,
	stepDefinitionID kernel.UUID,
	instanceNumber int,
	origin Origin,
	quantityAssigned kernel.Quantity,
	weightAssigned kernel.Weight,
) (*Instance, error) {
	inst := &Instance{
		status:      StatusPending,
		fieldValues: workflow.FieldValues{},
		guard:       kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		inst.setID(id),
		inst.setOrderID(orderID),
		inst.setStepDefinitionID(stepDefinitionID),
		inst.setInstanceNumber(instanceNumber),
		inst.setOrigin(origin),
	); err != nil {
		return nil, err
	}

	inst.quantityAssigned = quantityAssigned
	inst.weightAssigned = weightAssigned
	return inst, nil
}

// RestoreInstance reconstructs an instance from persistence, including its
// status, stamps, yield, and collected field values.
func RestoreInstance(
	id kernel.UUID,
	orderID kernel.UUID,
	stepDefinitionID kernel.UUID,
	instanceNumber int,
	status Status,
	origin Origin,
	quantityAssigned kernel.Quantity,
	quantityReceived kernel.Quantity,
	weightAssigned kernel.Weight,
	weightReceived kernel.Weight,
	assignedWorkerID *kernel.UUID,
	startedAt *time.Time,
	completedAt *time.Time,
	shortfallAccepted bool,
	fieldValues workflow.FieldValues,
) (*Instance, error) {
	inst, err := NewInstance(id, orderID, stepDefinitionID, instanceNumber, origin,
		quantityAssigned, weightAssigned)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if quantityReceived.GreaterThan(quantityAssigned) {
		return nil, errs.NewConservationViolationError(id.String(), "quantity",
			quantityReceived.Value(), quantityAssigned.Value())
	}
	if weightReceived.GreaterThan(weightAssigned) {
		return nil, errs.NewConservationViolationError(id.String(), "weight",
			weightReceived.Grams(), weightAssigned.Grams())
	}

	inst.status = status
	inst.quantityReceived = quantityReceived
	inst.weightReceived = weightReceived
	inst.assignedWorkerID = assignedWorkerID
	inst.startedAt = startedAt
	inst.completedAt = completedAt
	inst.shortfallAccepted = shortfallAccepted
	if fieldValues != nil {
		inst.fieldValues = fieldValues.Clone()
	}
	return inst, nil
}

// Validate ensures the instance was properly constructed through NewInstance.
func (i *Instance) Validate() error {
	if i == nil {
		return ErrInstanceIsNotConstructed
	}
	return i.guard.Validate(ErrInstanceIsNotConstructed)
}

// IsEqual compares two instances by their unique identifiers.
func (i *Instance) IsEqual(other *Instance) bool {
	return other != nil && i.id.IsEqual(other.id)
}

// ID returns the instance's unique identifier.
func (i *Instance) ID() kernel.UUID {
	return i.id
}

// OrderID returns the owning manufacturing order's identifier.
func (i *Instance) OrderID() kernel.UUID {
	return i.orderID
}

// StepDefinitionID returns the workflow step this batch executes.
func (i *Instance) StepDefinitionID() kernel.UUID {
	return i.stepDefinitionID
}

// InstanceNumber returns the 1-based batch number within the step.
func (i *Instance) InstanceNumber() int {
	return i.instanceNumber
}

// Status returns the current lifecycle state.
func (i *Instance) Status() Status {
	return i.status
}

// Origin returns the instance's upstream lineage.
func (i *Instance) Origin() Origin {
	return i.origin
}

// ParentInstanceID returns the upstream instance whose accepted output fed
// this one, nil unless this is a normal-progression child.
func (i *Instance) ParentInstanceID() *kernel.UUID {
	if i.origin.Kind() != OriginParent {
		return nil
	}
	id, _ := i.origin.InstanceID()
	return &id
}

// OriginInstanceID returns the upstream instance whose shortfall this one
// reprocesses, nil unless this is a rework child.
func (i *Instance) OriginInstanceID() *kernel.UUID {
	if i.origin.Kind() != OriginRework {
		return nil
	}
	id, _ := i.origin.InstanceID()
	return &id
}

// ChainAncestorID returns the upstream instance id regardless of edge type,
// nil for an order's entry instance.
func (i *Instance) ChainAncestorID() *kernel.UUID {
	id, ok := i.origin.InstanceID()
	if !ok {
		return nil
	}
	return &id
}

// QuantityAssigned returns the piece count handed to the step.
func (i *Instance) QuantityAssigned() kernel.Quantity {
	return i.quantityAssigned
}

// QuantityReceived returns the piece count received back.
func (i *Instance) QuantityReceived() kernel.Quantity {
	return i.quantityReceived
}

// WeightAssigned returns the metal weight handed to the step.
func (i *Instance) WeightAssigned() kernel.Weight {
	return i.weightAssigned
}

// WeightReceived returns the metal weight received back.
func (i *Instance) WeightReceived() kernel.Weight {
	return i.weightReceived
}

// AssignedWorkerID returns the worker processing the batch, nil before start.
func (i *Instance) AssignedWorkerID() *kernel.UUID {
	return i.assignedWorkerID
}

// StartedAt returns when the batch entered InProgress, nil before start.
func (i *Instance) StartedAt() *time.Time {
	return i.startedAt
}

// CompletedAt returns when the batch reached a terminal yield state.
func (i *Instance) CompletedAt() *time.Time {
	return i.completedAt
}

// ShortfallAccepted reports whether a partial's shortfall was terminally
// written off instead of reworked.
func (i *Instance) ShortfallAccepted() bool {
	return i.shortfallAccepted
}

// FieldValues returns a copy of the collected field values.
func (i *Instance) FieldValues() workflow.FieldValues {
	return i.fieldValues.Clone()
}

// ShortfallQuantity returns the piece count not received back.
func (i *Instance) ShortfallQuantity() kernel.Quantity {
	shortfall, err := i.quantityAssigned.Sub(i.quantityReceived)
	if err != nil {
		// received <= assigned is enforced on every write
		return kernel.Quantity{}
	}
	return shortfall
}

// ShortfallWeight returns the metal weight not received back.
func (i *Instance) ShortfallWeight() kernel.Weight {
	shortfall, err := i.weightAssigned.Sub(i.weightReceived)
	if err != nil {
		return kernel.Weight{}
	}
	return shortfall
}

// Start assigns a worker and moves the batch to InProgress, stamping
// startedAt. The workflow's authoritative measure must carry a positive
// assigned workload.
func (i *Instance) Start(workerID kernel.UUID, measure kernel.Measure, at time.Time) error {
	if err := workerID.Validate(); err != nil {
		return err
	}
	if err := measure.Validate(); err != nil {
		return err
	}

	switch measure {
	case kernel.MeasureQuantity:
		if !i.quantityAssigned.IsPositive() {
			return errs.NewInvalidTransitionError(i.id.String(),
				"cannot start with zero assigned quantity")
		}
	case kernel.MeasureWeight:
		if !i.weightAssigned.IsPositive() {
			return errs.NewInvalidTransitionError(i.id.String(),
				"cannot start with zero assigned weight")
		}
	}

	newStatus, err := i.status.Start()
	if err != nil {
		return errs.NewInvalidTransitionErrorWithCause(i.id.String(), "cannot start instance", err)
	}

	i.status = newStatus
	i.assignedWorkerID = &workerID
	i.startedAt = &at
	return nil
}

// Complete records a full yield and moves the batch to Completed, stamping
// completedAt. The received amount must equal the assigned amount on the
// authoritative measure and may not exceed it on either measure.
func (i *Instance) Complete(
	measure kernel.Measure,
	quantityReceived kernel.Quantity,
	weightReceived kernel.Weight,
	values workflow.FieldValues,
	at time.Time,
) error {
	if err := i.checkConservation(quantityReceived, weightReceived); err != nil {
		return err
	}

	full, err := i.isFullYield(measure, quantityReceived, weightReceived)
	if err != nil {
		return err
	}
	if !full {
		return errs.NewInvalidTransitionError(i.id.String(),
			"received amount is short of assigned; record a partial completion instead")
	}

	newStatus, err := i.status.Complete()
	if err != nil {
		return errs.NewInvalidTransitionErrorWithCause(i.id.String(), "cannot complete instance", err)
	}

	i.applyYield(newStatus, quantityReceived, weightReceived, values, at)
	return nil
}

// CompletePartial records a partial yield and moves the batch to
// PartiallyCompleted, stamping completedAt. The received amount must be
// positive and strictly short of assigned on the authoritative measure. The
// resulting shortfall stays reclaimable until it is reworked or accepted.
func (i *Instance) CompletePartial(
	measure kernel.Measure,
	quantityReceived kernel.Quantity,
	weightReceived kernel.Weight,
	values workflow.FieldValues,
	at time.Time,
) error {
	if err := i.checkConservation(quantityReceived, weightReceived); err != nil {
		return err
	}

	full, err := i.isFullYield(measure, quantityReceived, weightReceived)
	if err != nil {
		return err
	}
	if full {
		return errs.NewInvalidTransitionError(i.id.String(),
			"received amount equals assigned; record a full completion instead")
	}

	received := quantityReceived.IsPositive()
	if measure == kernel.MeasureWeight {
		received = weightReceived.IsPositive()
	}
	if !received {
		return errs.NewInvalidTransitionError(i.id.String(),
			"cannot partially complete with zero received; block the instance instead")
	}

	newStatus, err := i.status.CompletePartial()
	if err != nil {
		return errs.NewInvalidTransitionErrorWithCause(i.id.String(),
			"cannot partially complete instance", err)
	}

	i.applyYield(newStatus, quantityReceived, weightReceived, values, at)
	return nil
}

// Block records an operational stall. No yield precondition; the batch can
// be unblocked later.
func (i *Instance) Block() error {
	newStatus, err := i.status.Block()
	if err != nil {
		return errs.NewInvalidTransitionErrorWithCause(i.id.String(), "cannot block instance", err)
	}

	i.status = newStatus
	return nil
}

// Unblock returns a blocked batch to InProgress.
func (i *Instance) Unblock() error {
	newStatus, err := i.status.Unblock()
	if err != nil {
		return errs.NewInvalidTransitionErrorWithCause(i.id.String(), "cannot unblock instance", err)
	}

	i.status = newStatus
	return nil
}

// AcceptShortfall terminally writes off a partial's shortfall so the
// instance needs no rework. The engine never drops a shortfall silently;
// this is the explicit disposition path.
func (i *Instance) AcceptShortfall() error {
	if i.status != StatusPartiallyCompleted {
		return errs.NewInvalidTransitionError(i.id.String(),
			fmt.Sprintf("cannot accept shortfall in status %s", i.status))
	}
	if i.shortfallAccepted {
		return nil
	}

	i.shortfallAccepted = true
	return nil
}

// checkConservation rejects any received amount exceeding the assigned
// amount, on either measure.
func (i *Instance) checkConservation(quantityReceived kernel.Quantity, weightReceived kernel.Weight) error {
	if quantityReceived.GreaterThan(i.quantityAssigned) {
		return errs.NewConservationViolationError(i.id.String(), "quantity",
			quantityReceived.Value(), i.quantityAssigned.Value())
	}
	if weightReceived.GreaterThan(i.weightAssigned) {
		return errs.NewConservationViolationError(i.id.String(), "weight",
			weightReceived.Grams(), i.weightAssigned.Grams())
	}
	return nil
}

// isFullYield reports whether received equals assigned on the authoritative measure.
func (i *Instance) isFullYield(
	measure kernel.Measure,
	quantityReceived kernel.Quantity,
	weightReceived kernel.Weight,
) (bool, error) {
	if err := measure.Validate(); err != nil {
		return false, err
	}
	if measure == kernel.MeasureWeight {
		return weightReceived.Equals(i.weightAssigned), nil
	}
	return quantityReceived.Equals(i.quantityAssigned), nil
}

// applyYield mutates the instance after all validations passed.
func (i *Instance) applyYield(
	newStatus Status,
	quantityReceived kernel.Quantity,
	weightReceived kernel.Weight,
	values workflow.FieldValues,
	at time.Time,
) {
	i.status = newStatus
	i.quantityReceived = quantityReceived
	i.weightReceived = weightReceived
	i.completedAt = &at
	for k, v := range values {
		i.fieldValues[k] = v
	}
}

func (i *Instance) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Instance) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	i.orderID = orderID
	return nil
}

func (i *Instance) setStepDefinitionID(stepDefinitionID kernel.UUID) error {
	if err := stepDefinitionID.Validate(); err != nil {
		return err
	}
	i.stepDefinitionID = stepDefinitionID
	return nil
}

func (i *Instance) setInstanceNumber(instanceNumber int) error {
	if instanceNumber <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("instanceNumber",
			fmt.Errorf("%d is not greater than 0", instanceNumber))
	}
	i.instanceNumber = instanceNumber
	return nil
}

func (i *Instance) setOrigin(origin Origin) error {
	if err := origin.Validate(); err != nil {
		return err
	}
	i.origin = origin
	return nil
}
