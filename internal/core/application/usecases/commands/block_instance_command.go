package commands

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var ErrBlockInstanceCommandIsNotConstructed = errors.New(
	"BlockInstanceCommand must be created via NewBlockInstanceCommand constructor",
)

// BlockInstanceCommand records an operational stall on an in progress batch,
// for example missing material. Blocking is reversible.
type BlockInstanceCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID

	guard guard.ConstructorGuard
}

// NewBlockInstanceCommand creates a command to block a step instance.
func NewBlockInstanceCommand(instanceID kernel.UUID) (BlockInstanceCommand, error) {
	cmd := BlockInstanceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setInstanceID(instanceID); err != nil {
		return BlockInstanceCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BlockInstanceCommand) Validate() error {
	return c.guard.Validate(ErrBlockInstanceCommandIsNotConstructed)
}

// InstanceID returns the batch to block.
func (c BlockInstanceCommand) InstanceID() kernel.UUID {
	return c.instanceID
}

func (c *BlockInstanceCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}

	c.instanceID = instanceID
	return nil
}
