package commands

import (
	"context"
)

// BlockInstanceCommandHandler moves an in progress batch to blocked.
type BlockInstanceCommandHandler struct {
	uowFactory EngineUoWFactory
}

// NewBlockInstanceCommandHandler creates a handler for blocking step instances.
func NewBlockInstanceCommandHandler(uowFactory EngineUoWFactory) BlockInstanceCommandHandler {
	return BlockInstanceCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the block command.
func (h BlockInstanceCommandHandler) Handle(ctx context.Context, cmd BlockInstanceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	instanceRepo := uow.StepInstanceRepository()

	inst, err := instanceRepo.GetForUpdate(ctx, cmd.InstanceID())
	if err != nil {
		return err
	}

	if err = inst.Block(); err != nil {
		return err
	}

	if err = instanceRepo.Update(ctx, inst); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
