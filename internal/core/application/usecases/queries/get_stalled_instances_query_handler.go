package queries

import (
	"context"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/stepinstance"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStalledInstancesQueryHandler finds batches that were started but have
// not reached a terminal state within the query's threshold. Blocked batches
// count as stalled regardless of why they were blocked.
type GetStalledInstancesQueryHandler struct {
	db *gorm.DB
}

// NewGetStalledInstancesQueryHandler creates a handler for stalled batch queries.
// Requires a GORM database connection for query execution.
func NewGetStalledInstancesQueryHandler(db *gorm.DB) GetStalledInstancesQueryHandler {
	return GetStalledInstancesQueryHandler{db: db}
}

// Handle executes the query to retrieve all stalled batches, oldest first.
func (h GetStalledInstancesQueryHandler) Handle(
	ctx context.Context,
	query GetStalledInstancesQuery,
) ([]GetStalledInstancesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-query.StalledAfter())
	stalled := make([]GetStalledInstancesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			si.id,
			si.order_id,
			sd.name,
			si.instance_number,
			si.status,
			si.started_at
		FROM step_instances si
		JOIN step_definitions sd ON sd.id = si.step_definition_id
		WHERE si.status IN (?, ?)
		  AND si.started_at < ?
		ORDER BY si.started_at ASC
	`, int(stepinstance.StatusInProgress), int(stepinstance.StatusBlocked), cutoff).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetStalledInstancesQueryResponse
		var id, orderID uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&orderID,
			&resp.StepName,
			&resp.InstanceNumber,
			&status,
			&resp.StartedAt,
		)
		if err != nil {
			return nil, err
		}

		instanceID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = instanceID

		ordID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.OrderID = ordID

		resp.Status = stepinstance.Status(status).String()
		stalled = append(stalled, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stalled, nil
}
