package commands

import (
	"context"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/workflow"
)

// CompleteInstanceCommandHandler records a batch's yield. The instance row
// is locked for the transaction, making the terminal write atomic with the
// conservation checks against it; a concurrent writer waits and then sees
// the already-terminal state.
//
// Full yield on the authoritative measure completes the batch; a positive
// short yield partially completes it, leaving the shortfall reclaimable.
// Full completion of the workflow's last active step also completes the
// order.
type CompleteInstanceCommandHandler struct {
	uowFactory EngineUoWFactory
}

// NewCompleteInstanceCommandHandler creates a handler for batch completion.
func NewCompleteInstanceCommandHandler(uowFactory EngineUoWFactory) CompleteInstanceCommandHandler {
	return CompleteInstanceCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the completion command. Field values are validated
// against the step's definitions, with required fields enforced, before any
// state changes.
func (h CompleteInstanceCommandHandler) Handle(ctx context.Context, cmd CompleteInstanceCommand) error {
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

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, inst.OrderID())
	if err != nil {
		return err
	}

	wf, err := uow.WorkflowRepository().Get(ctx, ord.WorkflowID())
	if err != nil {
		return err
	}

	defs, err := wf.FieldsFor(inst.StepDefinitionID())
	if err != nil {
		return err
	}
	if err = workflow.ValidateFieldValues(defs, cmd.FieldValues(), true); err != nil {
		return err
	}

	now := time.Now().UTC()
	full := h.isFullYield(wf.Measure(), inst.QuantityAssigned(), inst.WeightAssigned(), cmd)

	if full {
		err = inst.Complete(wf.Measure(), cmd.QuantityReceived(), cmd.WeightReceived(), cmd.FieldValues(), now)
	} else {
		err = inst.CompletePartial(wf.Measure(), cmd.QuantityReceived(), cmd.WeightReceived(), cmd.FieldValues(), now)
	}
	if err != nil {
		return err
	}

	if full {
		last, lastErr := wf.IsLastActiveStep(inst.StepDefinitionID())
		if lastErr != nil {
			return lastErr
		}
		if last {
			if err = ord.Complete(); err != nil {
				return err
			}
			if err = orderRepo.Update(ctx, ord); err != nil {
				return err
			}
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

func (h CompleteInstanceCommandHandler) isFullYield(
	measure kernel.Measure,
	quantityAssigned kernel.Quantity,
	weightAssigned kernel.Weight,
	cmd CompleteInstanceCommand,
) bool {
	if measure == kernel.MeasureWeight {
		return cmd.WeightReceived().Equals(weightAssigned)
	}
	return cmd.QuantityReceived().Equals(quantityAssigned)
}
