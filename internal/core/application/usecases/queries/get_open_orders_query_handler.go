package queries

import (
	"context"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenOrdersQueryHandler retrieves the shop floor work queue from the
// database. Filters out terminal orders and sorts by priority, then by the
// closest due date.
//
// Example:
//
//	handler := NewGetOpenOrdersQueryHandler(db)
//	query := NewGetOpenOrdersQuery()
//
//	openOrders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get open orders: %v", err)
//	    return err
//	}
type GetOpenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenOrdersQueryHandler creates a handler for open order queries.
// Requires a GORM database connection for query execution.
func NewGetOpenOrdersQueryHandler(db *gorm.DB) GetOpenOrdersQueryHandler {
	return GetOpenOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all open orders.
// Returns orders in "pending" or "in_progress" status, highest priority
// first and earliest due date first within a priority band.
func (h GetOpenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenOrdersQuery,
) ([]GetOpenOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOpenOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			workflow_id,
			quantity_required,
			priority,
			status,
			due_date,
			parent_order_id,
			origin_step_order
		FROM orders
		WHERE status IN (?, ?)
		ORDER BY priority DESC, due_date ASC NULLS LAST, order_number ASC
	`, int(order.StatusPending), int(order.StatusInProgress)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOpenOrdersQueryResponse
		var id, workflowID uuid.UUID
		var parentOrderID uuid.NullUUID
		var priority, status int

		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&workflowID,
			&resp.QuantityRequired,
			&priority,
			&status,
			&resp.DueDate,
			&parentOrderID,
			&resp.OriginStepOrder,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		wfID, idErr := kernel.UUIDFromBytes(workflowID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.WorkflowID = wfID

		if parentOrderID.Valid {
			parentID, idErr := kernel.UUIDFromBytes(parentOrderID.UUID[:])
			if idErr != nil {
				return nil, idErr
			}
			resp.ParentOrderID = &parentID
		}

		resp.Priority = order.Priority(priority).String()
		resp.Status = order.Status(status).String()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
