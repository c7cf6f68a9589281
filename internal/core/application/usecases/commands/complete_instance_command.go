package commands

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/workflow"
	"jewelflow/internal/pkg/guard"
)

var ErrCompleteInstanceCommandIsNotConstructed = errors.New(
	"CompleteInstanceCommand must be created via NewCompleteInstanceCommand constructor",
)

// CompleteInstanceCommand records the yield received back from a batch. The
// handler decides between full and partial completion by comparing the
// received amount against the assigned amount on the workflow's
// authoritative measure.
type CompleteInstanceCommand struct { //nolint:recvcheck //using for validation
	instanceID       kernel.UUID
	quantityReceived kernel.Quantity
	weightReceived   kernel.Weight
	fieldValues      workflow.FieldValues

	guard guard.ConstructorGuard
}

// NewCompleteInstanceCommand creates a command to record a batch's yield and
// collected field values.
func NewCompleteInstanceCommand(
	instanceID kernel.UUID,
	quantityReceived int,
	weightReceived float64,
	fieldValues workflow.FieldValues,
) (CompleteInstanceCommand, error) {
	cmd := CompleteInstanceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setInstanceID(instanceID),
		cmd.setQuantityReceived(quantityReceived),
		cmd.setWeightReceived(weightReceived),
	); err != nil {
		return CompleteInstanceCommand{}, err
	}

	if fieldValues != nil {
		cmd.fieldValues = fieldValues.Clone()
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteInstanceCommand) Validate() error {
	return c.guard.Validate(ErrCompleteInstanceCommandIsNotConstructed)
}

// InstanceID returns the batch being completed.
func (c CompleteInstanceCommand) InstanceID() kernel.UUID {
	return c.instanceID
}

// QuantityReceived returns the piece count received back.
func (c CompleteInstanceCommand) QuantityReceived() kernel.Quantity {
	return c.quantityReceived
}

// WeightReceived returns the metal weight received back.
func (c CompleteInstanceCommand) WeightReceived() kernel.Weight {
	return c.weightReceived
}

// FieldValues returns the step's collected field values.
func (c CompleteInstanceCommand) FieldValues() workflow.FieldValues {
	return c.fieldValues
}

func (c *CompleteInstanceCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}

	c.instanceID = instanceID
	return nil
}

func (c *CompleteInstanceCommand) setQuantityReceived(quantityReceived int) error {
	qty, err := kernel.NewQuantity(quantityReceived)
	if err != nil {
		return err
	}

	c.quantityReceived = qty
	return nil
}

func (c *CompleteInstanceCommand) setWeightReceived(weightReceived float64) error {
	weight, err := kernel.NewWeight(weightReceived)
	if err != nil {
		return err
	}

	c.weightReceived = weight
	return nil
}
