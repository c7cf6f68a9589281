package commands

import (
	"context"
	"errors"

	"jewelflow/internal/core/domain/services"
	"jewelflow/internal/pkg/errs"
)

// ErrNoNextAction is returned when the resolver finds nothing to start: the
// order is mid-flight, blocked, or already past its last active step.
var ErrNoNextAction = errors.New("no next action available for order")

// StartNextStepCommandHandler executes the order's currently valid advance
// action. The next-action resolver picks the step, the progression service
// builds the instance, and the store's uniqueness constraint arbitrates
// concurrent attempts.
//
// When two callers advance the same order at once, the loser's insert fails
// with a ConcurrentModificationError. The handler retries once from fresh
// state (the resolver usually finds nothing left to start); a second
// conflict is surfaced to the caller.
type StartNextStepCommandHandler struct {
	uowFactory  EngineUoWFactory
	resolver    services.NextActionResolver
	progression services.Progression
	ledger      services.ConservationLedger
}

// NewStartNextStepCommandHandler creates a handler for advancing orders.
func NewStartNextStepCommandHandler(uowFactory EngineUoWFactory) StartNextStepCommandHandler {
	return StartNextStepCommandHandler{
		uowFactory:  uowFactory,
		resolver:    services.NewNextActionResolver(),
		progression: services.NewProgression(),
		ledger:      services.NewConservationLedger(),
	}
}

// Handle processes the advance command. Returns ErrNoNextAction when the
// resolver finds nothing to start.
func (h StartNextStepCommandHandler) Handle(ctx context.Context, cmd StartNextStepCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	err := h.attempt(ctx, cmd)
	if errors.Is(err, errs.ErrConcurrentModification) {
		// one retry from fresh state; a second conflict surfaces
		err = h.attempt(ctx, cmd)
	}
	return err
}

func (h StartNextStepCommandHandler) attempt(ctx context.Context, cmd StartNextStepCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	instanceRepo := uow.StepInstanceRepository()

	ord, err := orderRepo.Get(ctx, cmd.OrderID())
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

	action, err := h.resolver.Resolve(ord, instances, wf)
	if err != nil {
		return err
	}

	switch action.Kind {
	case services.NextActionNone:
		return ErrNoNextAction

	case services.NextActionStartFirstStep:
		if ord.IsRework() {
			// rework orders get their entry instance together with the order
			return errs.NewInvalidTransitionError(ord.ID().String(),
				"rework order has no entry instance; it must be recreated")
		}
		inst, err := h.progression.CreateEntryInstance(ord, wf, instances, nil, nil, cmd.WeightAssigned())
		if err != nil {
			return err
		}
		if err = instanceRepo.Add(ctx, inst); err != nil {
			return err
		}

	case services.NextActionStartStep:
		from, err := instanceRepo.Get(ctx, *action.FromInstanceID)
		if err != nil {
			return err
		}
		reworkChildren, err := instanceRepo.GetReworkChildren(ctx, from.ID())
		if err != nil {
			return err
		}
		available, err := h.ledger.AvailableForNextStep(from, reworkChildren)
		if err != nil {
			return err
		}
		inst, err := h.progression.CreateProgressionInstance(ord, wf, instances,
			from, reworkChildren, available.Quantity, available.Weight)
		if err != nil {
			return err
		}
		if err = instanceRepo.Add(ctx, inst); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
