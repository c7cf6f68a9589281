package commands

import (
	"errors"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/pkg/guard"
)

var ErrBeginInstanceCommandIsNotConstructed = errors.New(
	"BeginInstanceCommand must be created via NewBeginInstanceCommand constructor",
)

// BeginInstanceCommand assigns a worker to a pending batch and starts it.
type BeginInstanceCommand struct { //nolint:recvcheck //using for validation
	instanceID kernel.UUID
	workerID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewBeginInstanceCommand creates a command to start a step instance.
func NewBeginInstanceCommand(instanceID, workerID kernel.UUID) (BeginInstanceCommand, error) {
	cmd := BeginInstanceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setInstanceID(instanceID),
		cmd.setWorkerID(workerID),
	); err != nil {
		return BeginInstanceCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BeginInstanceCommand) Validate() error {
	return c.guard.Validate(ErrBeginInstanceCommandIsNotConstructed)
}

// InstanceID returns the batch to start.
func (c BeginInstanceCommand) InstanceID() kernel.UUID {
	return c.instanceID
}

// WorkerID returns the karigar taking the batch.
func (c BeginInstanceCommand) WorkerID() kernel.UUID {
	return c.workerID
}

func (c *BeginInstanceCommand) setInstanceID(instanceID kernel.UUID) error {
	if err := instanceID.Validate(); err != nil {
		return err
	}

	c.instanceID = instanceID
	return nil
}

func (c *BeginInstanceCommand) setWorkerID(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}

	c.workerID = workerID
	return nil
}
