package commands

import (
	"errors"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrQuantityIsInvalid = errors.New("quantity must be greater than 0")
)

// CreateOrderCommand represents a request to open a new manufacturing order
// against a workflow. The order number is issued by the handler, not the
// caller.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), workflowID, 50, order.PriorityHigh, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	workflowID       kernel.UUID
	quantityRequired kernel.Quantity
	priority         order.Priority
	dueDate          *time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to open a manufacturing order.
// Validates that both ids are valid, the quantity is positive, and the
// priority is known.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	workflowID kernel.UUID,
	quantityRequired int,
	priority order.Priority,
	dueDate *time.Time,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		dueDate: dueDate,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setWorkflowID(workflowID),
		cmd.setQuantityRequired(quantityRequired),
		cmd.setPriority(priority),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// WorkflowID returns the workflow the order will run through.
func (c CreateOrderCommand) WorkflowID() kernel.UUID {
	return c.workflowID
}

// QuantityRequired returns the piece count the order must produce.
func (c CreateOrderCommand) QuantityRequired() kernel.Quantity {
	return c.quantityRequired
}

// Priority returns the order's scheduling priority.
func (c CreateOrderCommand) Priority() order.Priority {
	return c.priority
}

// DueDate returns the optional due date.
func (c CreateOrderCommand) DueDate() *time.Time {
	return c.dueDate
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}

	c.workflowID = workflowID
	return nil
}

func (c *CreateOrderCommand) setQuantityRequired(quantityRequired int) error {
	qty, err := kernel.NewQuantity(quantityRequired)
	if err != nil {
		return err
	}
	if qty.IsZero() {
		return ErrQuantityIsInvalid
	}

	c.quantityRequired = qty
	return nil
}

func (c *CreateOrderCommand) setPriority(priority order.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}

	c.priority = priority
	return nil
}
