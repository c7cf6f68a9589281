package commands

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var ErrAcceptShortfallCommandIsNotConstructed = errors.New(
	"AcceptShortfallCommand must be created via NewAcceptShortfallCommand constructor",
)

// AcceptShortfallCommand terminally writes off a partially completed batch's
// shortfall, the explicit alternative to reworking it. Shortfall is never
// dropped silently.
type AcceptShortfallCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptShortfallCommand creates a command to accept an instance's shortfall.
func NewAcceptShortfallCommand(instanceID kernel.UUID) (AcceptShortfallCommand, error) {
	cmd := AcceptShortfallCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setInstanceID(instanceID); err != nil {
		return AcceptShortfallCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptShortfallCommand) Validate() error {
	return c.guard.Validate(ErrAcceptShortfallCommandIsNotConstructed)
}

// InstanceID returns the partially completed batch.
func (c AcceptShortfallCommand) InstanceID() kernel.UUID {
	return c.instanceID
}

func (c *AcceptShortfallCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}

	c.instanceID = instanceID
	return nil
}
