package queries

import (
	"context"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/stepinstance"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderProgressQueryHandler reads one order's batches together with the
// step names configured on its workflow. Batches for deactivated steps keep
// resolving because step rows are never deleted.
type GetOrderProgressQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderProgressQueryHandler creates a handler for order progress queries.
// Requires a GORM database connection for query execution.
func NewGetOrderProgressQueryHandler(db *gorm.DB) GetOrderProgressQueryHandler {
	return GetOrderProgressQueryHandler{db: db}
}

// Handle executes the query to retrieve all batches of one order.
// Results follow workflow step order, then batch number.
func (h GetOrderProgressQueryHandler) Handle(
	ctx context.Context,
	query GetOrderProgressQuery,
) ([]GetOrderProgressQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	batches := make([]GetOrderProgressQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			si.id,
			si.step_definition_id,
			sd.name,
			sd.step_order,
			si.instance_number,
			si.status,
			si.quantity_assigned,
			si.quantity_received,
			si.weight_assigned,
			si.weight_received,
			si.shortfall_accepted,
			si.started_at,
			si.completed_at
		FROM step_instances si
		JOIN step_definitions sd ON sd.id = si.step_definition_id
		WHERE si.order_id = ?
		ORDER BY sd.step_order ASC, si.instance_number ASC
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrderProgressQueryResponse
		var id, stepDefinitionID uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&stepDefinitionID,
			&resp.StepName,
			&resp.StepOrder,
			&resp.InstanceNumber,
			&status,
			&resp.QuantityAssigned,
			&resp.QuantityReceived,
			&resp.WeightAssigned,
			&resp.WeightReceived,
			&resp.ShortfallAccepted,
			&resp.StartedAt,
			&resp.CompletedAt,
		)
		if err != nil {
			return nil, err
		}

		batchID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = batchID

		stepID, idErr := kernel.UUIDFromBytes(stepDefinitionID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.StepDefinitionID = stepID

		resp.Status = stepinstance.Status(status).String()
		batches = append(batches, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return batches, nil
}
