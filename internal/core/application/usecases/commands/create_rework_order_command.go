package commands

import (
	"errors"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/pkg/guard"
)

var ErrCreateReworkOrderCommandIsNotConstructed = errors.New(
	"CreateReworkOrderCommand must be created via NewCreateReworkOrderCommand constructor",
)

// CreateReworkOrderCommand requests a cross-order rework branch: a new
// manufacturing order tracking the shortfall of a partially completed
// instance as an independent unit of work. The new order and its entry
// instance are created in one transaction, so the rework lineage is never
// half-recorded.
type CreateReworkOrderCommand struct { //nolint:recvcheck //using for validation
	reworkOrderID    kernel.UUID
	originInstanceID kernel.UUID
	quantityRequired kernel.Quantity
	weightAssigned   kernel.Weight
	priority         order.Priority
	dueDate          *time.Time

	guard guard.ConstructorGuard
}

// NewCreateReworkOrderCommand creates a command to open a rework order
// against the given origin instance.
func NewCreateReworkOrderCommand(
	reworkOrderID kernel.UUID,
	originInstanceID kernel.UUID,
	quantityRequired int,
	weightAssigned float64,
	priority order.Priority,
	dueDate *time.Time,
) (CreateReworkOrderCommand, error) {
	cmd := CreateReworkOrderCommand{
		dueDate: dueDate,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setReworkOrderID(reworkOrderID),
		cmd.setOriginInstanceID(originInstanceID),
		cmd.setQuantityRequired(quantityRequired),
		cmd.setWeightAssigned(weightAssigned),
		cmd.setPriority(priority),
	); err != nil {
		return CreateReworkOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateReworkOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateReworkOrderCommandIsNotConstructed)
}

// ReworkOrderID returns the unique identifier for the new rework order.
func (c CreateReworkOrderCommand) ReworkOrderID() kernel.UUID {
	return c.reworkOrderID
}

// OriginInstanceID returns the instance whose shortfall is reworked.
func (c CreateReworkOrderCommand) OriginInstanceID() kernel.UUID {
	return c.originInstanceID
}

// QuantityRequired returns the piece count claimed from the shortfall.
func (c CreateReworkOrderCommand) QuantityRequired() kernel.Quantity {
	return c.quantityRequired
}

// WeightAssigned returns the metal weight claimed from the shortfall.
func (c CreateReworkOrderCommand) WeightAssigned() kernel.Weight {
	return c.weightAssigned
}

// Priority returns the rework order's scheduling priority.
func (c CreateReworkOrderCommand) Priority() order.Priority {
	return c.priority
}

// DueDate returns the optional due date.
func (c CreateReworkOrderCommand) DueDate() *time.Time {
	return c.dueDate
}

func (c *CreateReworkOrderCommand) setReworkOrderID(reworkOrderID kernel.UUID) error {
	if err := reworkOrderID.Validate(); err != nil {
		return err
	}

	c.reworkOrderID = reworkOrderID
	return nil
}

func (c *CreateReworkOrderCommand) setOriginInstanceID(originInstanceID kernel.UUID) error {
	if err := originInstanceID.Validate(); err != nil {
		return err
	}

	c.originInstanceID = originInstanceID
	return nil
}

func (c *CreateReworkOrderCommand) setQuantityRequired(quantityRequired int) error {
	qty, err := kernel.NewQuantity(quantityRequired)
	if err != nil {
		return err
	}
	if qty.IsZero() {
		return ErrQuantityIsInvalid
	}

	c.quantityRequired = qty
	return nil
}

func (c *CreateReworkOrderCommand) setWeightAssigned(weightAssigned float64) error {
	weight, err := kernel.NewWeight(weightAssigned)
	if err != nil {
		return err
	}

	c.weightAssigned = weight
	return nil
}

func (c *CreateReworkOrderCommand) setPriority(priority order.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}

	c.priority = priority
	return nil
}
