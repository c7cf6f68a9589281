package commands

import (
	"context"
	"errors"

	"jewelflow/internal/core/domain/services"
	"jewelflow/internal/pkg/errs"
)

// CreateReworkInstanceCommandHandler opens a same-order rework batch. The
// origin row is locked for the transaction so concurrent claims against the
// same shortfall serialize; the claim is validated against the remaining
// shortfall before the batch is created.
type CreateReworkInstanceCommandHandler struct {
	uowFactory  EngineUoWFactory
	progression services.Progression
}

// NewCreateReworkInstanceCommandHandler creates a handler for rework batch creation.
func NewCreateReworkInstanceCommandHandler(uowFactory EngineUoWFactory) CreateReworkInstanceCommandHandler {
	return CreateReworkInstanceCommandHandler{
		uowFactory:  uowFactory,
		progression: services.NewProgression(),
	}
}

// Handle processes the rework batch command. Over-claiming the shortfall
// fails with OverAllocationError; losing a batch number race retries once
// and then fails with ConcurrentModificationError.
func (h CreateReworkInstanceCommandHandler) Handle(ctx context.Context, cmd CreateReworkInstanceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	err := h.attempt(ctx, cmd)
	if errors.Is(err, errs.ErrConcurrentModification) {
		err = h.attempt(ctx, cmd)
	}
	return err
}

func (h CreateReworkInstanceCommandHandler) attempt(ctx context.Context, cmd CreateReworkInstanceCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	instanceRepo := uow.StepInstanceRepository()

	origin, err := instanceRepo.GetForUpdate(ctx, cmd.OriginInstanceID())
	if err != nil {
		return err
	}

	ord, err := uow.OrderRepository().Get(ctx, origin.OrderID())
	if err != nil {
		return err
	}

	wf, err := uow.WorkflowRepository().Get(ctx, ord.WorkflowID())
	if err != nil {
		return err
	}

	instances, err := instanceRepo.GetAllForOrder(ctx, ord.ID())
	if err != nil {
		return err
	}

	reworkChildren, err := instanceRepo.GetReworkChildren(ctx, origin.ID())
	if err != nil {
		return err
	}

	inst, err := h.progression.CreateReworkInstance(ord, wf, instances, origin,
		reworkChildren, cmd.QuantityAssigned(), cmd.WeightAssigned())
	if err != nil {
		return err
	}

	if err = instanceRepo.Add(ctx, inst); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
