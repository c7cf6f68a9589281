package commands

import (
	"context"
)

// UnblockInstanceCommandHandler moves a blocked batch back to in progress,
// the state machine's only re-entrant edge.
type UnblockInstanceCommandHandler struct {
	uowFactory EngineUoWFactory
}

// NewUnblockInstanceCommandHandler creates a handler for unblocking step instances.
func NewUnblockInstanceCommandHandler(uowFactory EngineUoWFactory) UnblockInstanceCommandHandler {
	return UnblockInstanceCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the unblock command.
func (h UnblockInstanceCommandHandler) Handle(ctx context.Context, cmd UnblockInstanceCommand) error {
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

	if err = inst.Unblock(); err != nil {
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
