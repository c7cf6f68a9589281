package commands

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var ErrStartNextStepCommandIsNotConstructed = errors.New(
	"StartNextStepCommand must be created via NewStartNextStepCommand constructor",
)

// StartNextStepCommand requests that the order's currently valid advance
// action is executed: the first step for a fresh order, or the next step
// from the latest yielded instance. The resolver decides which; the caller
// only names the order.
//
// weightAssigned sets the metal weight handed to the entry step of a
// weight-measured workflow. It is ignored when the resolver advances past
// the entry step, where the ancestor's unclaimed yield is carried forward.
type StartNextStepCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	weightAssigned kernel.Weight

	guard guard.ConstructorGuard
}

// NewStartNextStepCommand creates a command to advance the order.
func NewStartNextStepCommand(orderID kernel.UUID, weightAssigned float64) (StartNextStepCommand, error) {
	cmd := StartNextStepCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setWeightAssigned(weightAssigned),
	); err != nil {
		return StartNextStepCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartNextStepCommand) Validate() error {
	return c.guard.Validate(ErrStartNextStepCommandIsNotConstructed)
}

// OrderID returns the order to advance.
func (c StartNextStepCommand) OrderID() kernel.UUID {
	return c.orderID
}

// WeightAssigned returns the metal weight for the entry step, zero when the
// workflow tracks quantity only.
func (c StartNextStepCommand) WeightAssigned() kernel.Weight {
	return c.weightAssigned
}

func (c *StartNextStepCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *StartNextStepCommand) setWeightAssigned(weightAssigned float64) error {
	weight, err := kernel.NewWeight(weightAssigned)
	if err != nil {
		return err
	}

	c.weightAssigned = weight
	return nil
}
