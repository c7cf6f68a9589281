package commands

import (
	"context"

	"jewelflow/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Issues the next global order number and persists a pending order bound to
// its workflow.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command. The referenced workflow must
// exist; the order number is issued atomically inside the transaction, so
// two concurrent creations never share a number.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	if _, err := uow.WorkflowRepository().Get(ctx, cmd.WorkflowID()); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	orderNumber, err := orderRepo.NextOrderNumber(ctx)
	if err != nil {
		return err
	}

	aggregate, err := order.NewManufacturingOrder(cmd.OrderID(), orderNumber,
		cmd.WorkflowID(), cmd.QuantityRequired(), cmd.Priority(), cmd.DueDate())
	if err != nil {
		return err
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
