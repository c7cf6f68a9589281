package commands

import (
	"context"
)

// AcceptShortfallCommandHandler flags a partial batch's remaining shortfall
// as terminally accepted. The row lock serializes the write-off against
// concurrent rework claims on the same instance.
type AcceptShortfallCommandHandler struct {
	uowFactory EngineUoWFactory
}

// NewAcceptShortfallCommandHandler creates a handler for shortfall write-offs.
func NewAcceptShortfallCommandHandler(uowFactory EngineUoWFactory) AcceptShortfallCommandHandler {
	return AcceptShortfallCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the write-off command. Accepting twice is a no-op;
// accepting anything but a partially completed batch fails with
// InvalidTransitionError.
func (h AcceptShortfallCommandHandler) Handle(ctx context.Context, cmd AcceptShortfallCommand) error {
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

	if err = inst.AcceptShortfall(); err != nil {
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
