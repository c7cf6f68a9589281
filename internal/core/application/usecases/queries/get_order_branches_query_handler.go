package queries

import (
	"context"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderBranchesQueryHandler lists the rework orders that claim shortfall
// from one parent order.
type GetOrderBranchesQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderBranchesQueryHandler creates a handler for rework branch queries.
// Requires a GORM database connection for query execution.
func NewGetOrderBranchesQueryHandler(db *gorm.DB) GetOrderBranchesQueryHandler {
	return GetOrderBranchesQueryHandler{db: db}
}

// Handle executes the query to retrieve all rework branches of one order.
// Results are sorted by order number, which follows creation order.
func (h GetOrderBranchesQueryHandler) Handle(
	ctx context.Context,
	query GetOrderBranchesQuery,
) ([]GetOrderBranchesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	branches := make([]GetOrderBranchesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			origin_step_order,
			quantity_required,
			priority,
			status
		FROM orders
		WHERE parent_order_id = ?
		ORDER BY order_number ASC
	`, query.ParentOrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrderBranchesQueryResponse
		var id uuid.UUID
		var priority, status int

		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&resp.OriginStepOrder,
			&resp.QuantityRequired,
			&priority,
			&status,
		)
		if err != nil {
			return nil, err
		}

		branchID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = branchID

		resp.Priority = order.Priority(priority).String()
		resp.Status = order.Status(status).String()
		branches = append(branches, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return branches, nil
}
