package commands

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var ErrUnblockInstanceCommandIsNotConstructed = errors.New(
	"UnblockInstanceCommand must be created via NewUnblockInstanceCommand constructor",
)

// UnblockInstanceCommand returns a blocked batch to in progress.
type UnblockInstanceCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnblockInstanceCommand creates a command to unblock a step instance.
func NewUnblockInstanceCommand(instanceID kernel.UUID) (UnblockInstanceCommand, error) {
	cmd := UnblockInstanceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setInstanceID(instanceID); err != nil {
		return UnblockInstanceCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UnblockInstanceCommand) Validate() error {
	return c.guard.Validate(ErrUnblockInstanceCommandIsNotConstructed)
}

// InstanceID returns the batch to unblock.
func (c UnblockInstanceCommand) InstanceID() kernel.UUID {
	return c.instanceID
}

func (c *UnblockInstanceCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}

	c.instanceID = instanceID
	return nil
}
