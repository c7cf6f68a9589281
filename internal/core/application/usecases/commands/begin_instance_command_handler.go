package commands

import (
	"context"
	"fmt"
	"time"

	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/core/ports"
	"jewelflow/internal/pkg/errs"
)

// BeginInstanceCommandHandler starts a pending batch: assigns the worker,
// stamps startedAt, and moves a pending order to in progress the first time
// one of its batches starts.
type BeginInstanceCommandHandler struct {
	uowFactory EngineUoWFactory
}

// NewBeginInstanceCommandHandler creates a handler for starting step instances.
func NewBeginInstanceCommandHandler(uowFactory EngineUoWFactory) BeginInstanceCommandHandler {
	return BeginInstanceCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the start command. Starting anything but a pending batch
// fails with InvalidTransitionError.
func (h BeginInstanceCommandHandler) Handle(ctx context.Context, cmd BeginInstanceCommand) error {
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

	if err = checkAncestorYield(ctx, instanceRepo, inst); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, inst.OrderID())
	if err != nil {
		return err
	}

	wf, err := uow.WorkflowRepository().Get(ctx, ord.WorkflowID())
	if err != nil {
		return err
	}

	if err = inst.Start(cmd.WorkerID(), wf.Measure(), time.Now().UTC()); err != nil {
		return err
	}

	if ord.Status() == order.StatusPending {
		if err = ord.Start(); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, ord); err != nil {
			return err
		}
	}

	if err = instanceRepo.Update(ctx, inst); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// checkAncestorYield requires the batch's ancestor, when it has one, to hold
// a recorded yield. Creation already enforces this and no transition leaves a
// terminal state, so this only trips on inconsistent stored lineage.
func checkAncestorYield(
	ctx context.Context,
	instanceRepo ports.StepInstanceRepository,
	inst *stepinstance.Instance,
) error {
	ancestorID := inst.ParentInstanceID()
	if ancestorID == nil {
		ancestorID = inst.OriginInstanceID()
	}
	if ancestorID == nil {
		return nil
	}

	ancestor, err := instanceRepo.Get(ctx, *ancestorID)
	if err != nil {
		return err
	}
	if !ancestor.Status().HasYield() {
		return errs.NewInvalidTransitionError(inst.ID().String(),
			fmt.Sprintf("ancestor %s is %s, not terminal", ancestor.ID(), ancestor.Status()))
	}
	return nil
}
