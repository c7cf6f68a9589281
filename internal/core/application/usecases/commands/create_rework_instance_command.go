package commands

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var ErrCreateReworkInstanceCommandIsNotConstructed = errors.New(
	"CreateReworkInstanceCommand must be created via NewCreateReworkInstanceCommand constructor",
)

// CreateReworkInstanceCommand requests a same-order rework batch that
// reprocesses part of a partially completed instance's shortfall. The new
// batch runs the same step as its origin.
type CreateReworkInstanceCommand struct { //nolint:recvcheck //using for validation
	originInstanceID kernel.UUID
	quantityAssigned kernel.Quantity
	weightAssigned   kernel.Weight

	guard guard.ConstructorGuard
}

// NewCreateReworkInstanceCommand creates a command to open a rework batch
// against the given origin instance.
func NewCreateReworkInstanceCommand(
	originInstanceID kernel.UUID,
	quantityAssigned int,
	weightAssigned float64,
) (CreateReworkInstanceCommand, error) {
	cmd := CreateReworkInstanceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOriginInstanceID(originInstanceID),
		cmd.setQuantityAssigned(quantityAssigned),
		cmd.setWeightAssigned(weightAssigned),
	); err != nil {
		return CreateReworkInstanceCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateReworkInstanceCommand) Validate() error {
	return c.guard.Validate(ErrCreateReworkInstanceCommandIsNotConstructed)
}

// OriginInstanceID returns the instance whose shortfall is reworked.
func (c CreateReworkInstanceCommand) OriginInstanceID() kernel.UUID {
	return c.originInstanceID
}

// QuantityAssigned returns the piece count claimed from the shortfall.
func (c CreateReworkInstanceCommand) QuantityAssigned() kernel.Quantity {
	return c.quantityAssigned
}

// WeightAssigned returns the metal weight claimed from the shortfall.
func (c CreateReworkInstanceCommand) WeightAssigned() kernel.Weight {
	return c.weightAssigned
}

func (c *CreateReworkInstanceCommand) setOriginInstanceID(originInstanceID kernel.UUID) error {
	if err := originInstanceID.Validate(); err != nil {
		return err
	}

	c.originInstanceID = originInstanceID
	return nil
}

func (c *CreateReworkInstanceCommand) setQuantityAssigned(quantityAssigned int) error {
	qty, err := kernel.NewQuantity(quantityAssigned)
	if err != nil {
		return err
	}

	c.quantityAssigned = qty
	return nil
}

func (c *CreateReworkInstanceCommand) setWeightAssigned(weightAssigned float64) error {
	weight, err := kernel.NewWeight(weightAssigned)
	if err != nil {
		return err
	}

	c.weightAssigned = weight
	return nil
}
