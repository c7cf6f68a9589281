package order

import (
	"errors"
	"fmt"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when a ManufacturingOrder instance
	// was not created through one of the factory methods.
	ErrOrderIsNotConstructed = errors.New(
		"ManufacturingOrder must be created via NewManufacturingOrder or NewReworkOrder constructor")
)

// ManufacturingOrder represents an order for a quantity of jewelry pieces
// moving through a workflow. It is the aggregate root for the order lifecycle;
// the per-step work lives in step instances that reference it.
//
// ManufacturingOrder follows these invariants:
//   - Order numbers are positive and globally unique (issued sequentially)
//   - Quantity required is positive
//   - Status transitions follow the Status state machine
//   - parentOrderID and originStepOrder are set together, only on rework orders
//   - Can only be created through its factory constructors
type ManufacturingOrder struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// orderNumber is the globally unique, sequentially issued business number
	orderNumber int64

	// workflowID references the workflow definition this order progresses through
	workflowID kernel.UUID

	// quantityRequired is the piece count the order was placed for
	quantityRequired kernel.Quantity

	// priority ranks the order on the shop floor
	priority Priority

	// status is the current lifecycle state
	status Status

	// dueDate is the promised delivery date, nil when open-ended
	dueDate *time.Time

	// parentOrderID is set only on rework orders
	parentOrderID *kernel.UUID

	// originStepOrder is the step order in the parent that produced the
	// shortfall this rework order reprocesses
	originStepOrder *int

	// isConstructed ensures the order was created via a factory constructor
	isConstructed bool
}

// NewManufacturingOrder creates a new order in Pending status.
//
// The order number must be positive; uniqueness is the repository's concern.
// The quantity required must be a positive piece count.
func NewManufacturingOrder(
	id kernel.UUID,
	orderNumber int64,
	workflowID kernel.UUID,
	quantityRequired kernel.Quantity,
	priority Priority,
	dueDate *time.Time,
) (*ManufacturingOrder, error) {
	o := &ManufacturingOrder{
		status:        StatusPending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setWorkflowID(workflowID),
		o.setQuantityRequired(quantityRequired),
		o.setPriority(priority),
	); err != nil {
		return nil, err
	}

	o.dueDate = dueDate
	return o, nil
}

// NewReworkOrder creates a new pending order that reprocesses a shortfall
// from a step of another order. It is a normal order in every respect except
// for its parent lineage, which is preserved for audit and conservation
// accounting.
func NewReworkOrder(
	id kernel.UUID,
	orderNumber int64,
	workflowID kernel.UUID,
	quantityRequired kernel.Quantity,
	priority Priority,
	dueDate *time.Time,
	parentOrderID kernel.UUID,
	originStepOrder int,
) (*ManufacturingOrder, error) {
	o, err := NewManufacturingOrder(id, orderNumber, workflowID, quantityRequired, priority, dueDate)
	if err != nil {
		return nil, err
	}

	if err = parentOrderID.Validate(); err != nil {
		return nil, err
	}
	if originStepOrder <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("originStepOrder",
			fmt.Errorf("%d is not greater than 0", originStepOrder))
	}

	o.parentOrderID = &parentOrderID
	o.originStepOrder = &originStepOrder
	return o, nil
}

// RestoreManufacturingOrder reconstructs an order aggregate from persistence,
// including its status and rework lineage. The restored order behaves
// identically to one created through normal domain operations.
func RestoreManufacturingOrder(
	id kernel.UUID,
	orderNumber int64,
	workflowID kernel.UUID,
	quantityRequired kernel.Quantity,
	priority Priority,
	status Status,
	dueDate *time.Time,
	parentOrderID *kernel.UUID,
	originStepOrder *int,
) (*ManufacturingOrder, error) {
	var o *ManufacturingOrder
	var err error

	if parentOrderID != nil || originStepOrder != nil {
		if parentOrderID == nil || originStepOrder == nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("parentOrderID",
				errors.New("rework lineage requires both parentOrderID and originStepOrder"))
		}
		o, err = NewReworkOrder(id, orderNumber, workflowID, quantityRequired, priority, dueDate,
			*parentOrderID, *originStepOrder)
	} else {
		o, err = NewManufacturingOrder(id, orderNumber, workflowID, quantityRequired, priority, dueDate)
	}
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	o.status = status
	return o, nil
}

// Validate ensures the order was properly constructed through a factory method.
func (o *ManufacturingOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *ManufacturingOrder) IsEqual(other *ManufacturingOrder) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *ManufacturingOrder) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the globally unique business number.
func (o *ManufacturingOrder) OrderNumber() int64 {
	return o.orderNumber
}

// WorkflowID returns the workflow definition this order progresses through.
func (o *ManufacturingOrder) WorkflowID() kernel.UUID {
	return o.workflowID
}

// QuantityRequired returns the piece count the order was placed for.
func (o *ManufacturingOrder) QuantityRequired() kernel.Quantity {
	return o.quantityRequired
}

// Priority returns the order's shop-floor priority.
func (o *ManufacturingOrder) Priority() Priority {
	return o.priority
}

// Status returns the current lifecycle state.
func (o *ManufacturingOrder) Status() Status {
	return o.status
}

// DueDate returns the promised delivery date, nil when open-ended.
func (o *ManufacturingOrder) DueDate() *time.Time {
	return o.dueDate
}

// ParentOrderID returns the parent order's id for rework orders, nil otherwise.
func (o *ManufacturingOrder) ParentOrderID() *kernel.UUID {
	return o.parentOrderID
}

// OriginStepOrder returns the parent's step order that produced the
// reprocessed shortfall, nil for normal orders.
func (o *ManufacturingOrder) OriginStepOrder() *int {
	return o.originStepOrder
}

// IsRework reports whether this order reprocesses another order's shortfall.
func (o *ManufacturingOrder) IsRework() bool {
	return o.parentOrderID != nil
}

// Start marks the order as in progress.
// Called when the order's first step instance starts.
func (o *ManufacturingOrder) Start() error {
	newStatus, err := o.status.Start()
	if err != nil {
		return errs.NewInvalidTransitionErrorWithCause(o.id.String(), "cannot start order", err)
	}

	o.status = newStatus
	return nil
}

// Complete marks the order as completed.
// Called when the terminal step instance completes with full yield.
func (o *ManufacturingOrder) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return errs.NewInvalidTransitionErrorWithCause(o.id.String(), "cannot complete order", err)
	}

	o.status = newStatus
	return nil
}

// TagIn marks the order's output as reconciled into finished-goods inventory.
// Irreversible; the inventory fact is emitted exactly once by the caller.
func (o *ManufacturingOrder) TagIn() error {
	newStatus, err := o.status.TagIn()
	if err != nil {
		return errs.NewInvalidTransitionErrorWithCause(o.id.String(), "cannot tag in order", err)
	}

	o.status = newStatus
	return nil
}

// Cancel abandons the order before completion.
func (o *ManufacturingOrder) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return errs.NewInvalidTransitionErrorWithCause(o.id.String(), "cannot cancel order", err)
	}

	o.status = newStatus
	return nil
}

func (o *ManufacturingOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *ManufacturingOrder) setOrderNumber(orderNumber int64) error {
	if orderNumber <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderNumber",
			fmt.Errorf("%d is not greater than 0", orderNumber))
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *ManufacturingOrder) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}
	o.workflowID = workflowID
	return nil
}

func (o *ManufacturingOrder) setQuantityRequired(quantity kernel.Quantity) error {
	if !quantity.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("quantityRequired",
			fmt.Errorf("%s is not greater than 0", quantity))
	}
	o.quantityRequired = quantity
	return nil
}

func (o *ManufacturingOrder) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}
