package commands

import (
	"context"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/core/domain/model/workflow"
	"jewelflow/internal/core/ports"
)

// TagInOrderCommandHandler moves a completed order to tagged in and emits
// one tag-in fact to the inventory subsystem.
//
// The reconciler is resolved from the unit of work, so the fact commits or
// rolls back together with the status change. The facts table is keyed by
// order id, so a retry after a failed commit records the fact again as a
// no-op; the order is never tagged in without its fact.
type TagInOrderCommandHandler struct {
	uowFactory EngineUoWFactory
}

// NewTagInOrderCommandHandler creates a handler for tagging in orders.
func NewTagInOrderCommandHandler(uowFactory EngineUoWFactory) TagInOrderCommandHandler {
	return TagInOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the tag-in command. The final yield is the sum received
// by the last active step's batches. Tagging in anything but a completed
// order fails with InvalidTransitionError.
func (h TagInOrderCommandHandler) Handle(ctx context.Context, cmd TagInOrderCommand) error {
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

	orderRepo := uow.OrderRepository()

	ord, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	wf, err := uow.WorkflowRepository().Get(ctx, ord.WorkflowID())
	if err != nil {
		return err
	}

	instances, err := uow.StepInstanceRepository().GetAllForOrder(ctx, ord.ID())
	if err != nil {
		return err
	}

	if err = ord.TagIn(); err != nil {
		return err
	}

	finalQuantity, finalWeight, err := h.finalYield(wf, instances)
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.InventoryReconciler().RecordTagIn(ctx, ports.TagInFact{
		OrderID:       ord.ID(),
		FinalQuantity: finalQuantity,
		FinalWeight:   finalWeight,
	}); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// finalYield sums the yield received by the workflow's last active step.
func (h TagInOrderCommandHandler) finalYield(
	wf *workflow.Workflow,
	instances []*stepinstance.Instance,
) (kernel.Quantity, kernel.Weight, error) {
	var (
		quantity kernel.Quantity
		weight   kernel.Weight
	)
	for _, inst := range instances {
		if !inst.Status().HasYield() {
			continue
		}
		last, err := wf.IsLastActiveStep(inst.StepDefinitionID())
		if err != nil {
			return kernel.Quantity{}, kernel.Weight{}, err
		}
		if !last {
			continue
		}
		quantity = quantity.Add(inst.QuantityReceived())
		weight = weight.Add(inst.WeightReceived())
	}
	return quantity, weight, nil
}
