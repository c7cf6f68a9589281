package commands

import (
	"context"
	"errors"

	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/core/domain/services"
	"jewelflow/internal/pkg/errs"
)

// CreateReworkOrderCommandHandler opens a cross-order rework branch: a new
// order carrying parent lineage plus its entry instance pointing back at the
// origin through a rework edge, committed atomically.
type CreateReworkOrderCommandHandler struct {
	uowFactory  EngineUoWFactory
	progression services.Progression
}

// NewCreateReworkOrderCommandHandler creates a handler for rework order creation.
func NewCreateReworkOrderCommandHandler(uowFactory EngineUoWFactory) CreateReworkOrderCommandHandler {
	return CreateReworkOrderCommandHandler{
		uowFactory:  uowFactory,
		progression: services.NewProgression(),
	}
}

// Handle processes the rework order command. The origin row is locked so
// concurrent shortfall claims serialize; over-claiming fails with
// OverAllocationError.
func (h CreateReworkOrderCommandHandler) Handle(ctx context.Context, cmd CreateReworkOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	err := h.attempt(ctx, cmd)
	if errors.Is(err, errs.ErrConcurrentModification) {
		err = h.attempt(ctx, cmd)
	}
	return err
}

func (h CreateReworkOrderCommandHandler) attempt(ctx context.Context, cmd CreateReworkOrderCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	instanceRepo := uow.StepInstanceRepository()

	origin, err := instanceRepo.GetForUpdate(ctx, cmd.OriginInstanceID())
	if err != nil {
		return err
	}

	parent, err := orderRepo.Get(ctx, origin.OrderID())
	if err != nil {
		return err
	}

	wf, err := uow.WorkflowRepository().Get(ctx, parent.WorkflowID())
	if err != nil {
		return err
	}

	originStep, err := wf.StepByID(origin.StepDefinitionID())
	if err != nil {
		return err
	}

	orderNumber, err := orderRepo.NextOrderNumber(ctx)
	if err != nil {
		return err
	}

	reworkOrd, err := order.NewReworkOrder(cmd.ReworkOrderID(), orderNumber,
		parent.WorkflowID(), cmd.QuantityRequired(), cmd.Priority(), cmd.DueDate(),
		parent.ID(), originStep.StepOrder())
	if err != nil {
		return err
	}

	reworkChildren, err := instanceRepo.GetReworkChildren(ctx, origin.ID())
	if err != nil {
		return err
	}

	entry, err := h.progression.CreateEntryInstance(reworkOrd, wf, nil, origin,
		reworkChildren, cmd.WeightAssigned())
	if err != nil {
		return err
	}

	if err = orderRepo.Add(ctx, reworkOrd); err != nil {
		return err
	}

	if err = instanceRepo.Add(ctx, entry); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
