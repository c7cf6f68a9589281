package commands

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var ErrTagInOrderCommandIsNotConstructed = errors.New(
	"TagInOrderCommand must be created via NewTagInOrderCommand constructor",
)

// TagInOrderCommand reconciles a completed order's output into finished
// goods inventory. Tagging in is irreversible.
type TagInOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewTagInOrderCommand creates a command to tag in a completed order.
func NewTagInOrderCommand(orderID kernel.UUID) (TagInOrderCommand, error) {
	cmd := TagInOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return TagInOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TagInOrderCommand) Validate() error {
	return c.guard.Validate(ErrTagInOrderCommandIsNotConstructed)
}

// OrderID returns the order to tag in.
func (c TagInOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *TagInOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
