package http

import (
	"fmt"
	"time"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/workflow"
)

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	WorkflowID       string     `json:"workflowId"`
	QuantityRequired int        `json:"quantityRequired"`
	Priority         string     `json:"priority"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
}

// CreateOrderResponse returns the id assigned to the new order.
type CreateOrderResponse struct {
	ID string `json:"id"`
}

// StartNextStepRequest is the body of POST /api/v1/orders/:id/next-step.
// WeightAssigned is only meaningful for weight-measured workflows.
type StartNextStepRequest struct {
	WeightAssigned float64 `json:"weightAssigned"`
}

// BeginInstanceRequest is the body of POST /api/v1/instances/:id/begin.
type BeginInstanceRequest struct {
	WorkerID string `json:"workerId"`
}

// FieldValue is the wire shape of one recorded step field value. Kind selects
// which of the remaining fields carries the payload, mirroring the persisted
// field types.
type FieldValue struct {
	Kind      string     `json:"kind"`
	Text      string     `json:"text,omitempty"`
	Number    float64    `json:"number,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	WorkerRef string     `json:"workerRef,omitempty"`
	Choice    string     `json:"choice,omitempty"`
	Choices   []string   `json:"choices,omitempty"`
}

// CompleteInstanceRequest is the body of POST /api/v1/instances/:id/complete.
type CompleteInstanceRequest struct {
	QuantityReceived int                   `json:"quantityReceived"`
	WeightReceived   float64               `json:"weightReceived"`
	FieldValues      map[string]FieldValue `json:"fieldValues,omitempty"`
}

// CreateReworkInstanceRequest is the body of POST /api/v1/instances/:id/rework.
type CreateReworkInstanceRequest struct {
	QuantityAssigned int     `json:"quantityAssigned"`
	WeightAssigned   float64 `json:"weightAssigned"`
}

// CreateReworkOrderRequest is the body of POST /api/v1/instances/:id/rework-order.
type CreateReworkOrderRequest struct {
	QuantityRequired int        `json:"quantityRequired"`
	WeightAssigned   float64    `json:"weightAssigned"`
	Priority         string     `json:"priority"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
}

// CreateReworkOrderResponse returns the id assigned to the branch order.
type CreateReworkOrderResponse struct {
	ID string `json:"id"`
}

// OrderSummary is one row of GET /api/v1/orders/active.
type OrderSummary struct {
	ID               string     `json:"id"`
	OrderNumber      int64      `json:"orderNumber"`
	WorkflowID       string     `json:"workflowId"`
	QuantityRequired int        `json:"quantityRequired"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	ParentOrderID    *string    `json:"parentOrderId,omitempty"`
	OriginStepOrder  *int       `json:"originStepOrder,omitempty"`
}

// StepBatch is one row of GET /api/v1/orders/:id/progress.
type StepBatch struct {
	ID                string     `json:"id"`
	StepDefinitionID  string     `json:"stepDefinitionId"`
	StepName          string     `json:"stepName"`
	StepOrder         int        `json:"stepOrder"`
	InstanceNumber    int        `json:"instanceNumber"`
	Status            string     `json:"status"`
	QuantityAssigned  int        `json:"quantityAssigned"`
	QuantityReceived  int        `json:"quantityReceived"`
	WeightAssigned    float64    `json:"weightAssigned"`
	WeightReceived    float64    `json:"weightReceived"`
	ShortfallAccepted bool       `json:"shortfallAccepted"`
	StartedAt         *time.Time `json:"startedAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

// InstanceBranch is one outgoing edge of GET /api/v1/instances/:id/branches.
// Type is "progression" or "rework"; exactly one of TargetInstanceID and
// TargetOrderID is set.
type InstanceBranch struct {
	Type             string  `json:"type"`
	TargetInstanceID *string `json:"targetInstanceId,omitempty"`
	TargetOrderID    *string `json:"targetOrderId,omitempty"`
	Quantity         int     `json:"quantity"`
	Weight           float64 `json:"weight"`
}

// OrderBranch is one row of GET /api/v1/orders/:id/branches.
type OrderBranch struct {
	ID               string `json:"id"`
	OrderNumber      int64  `json:"orderNumber"`
	OriginStepOrder  int    `json:"originStepOrder"`
	QuantityRequired int    `json:"quantityRequired"`
	Priority         string `json:"priority"`
	Status           string `json:"status"`
}

// toFieldValues converts the wire field values into domain typed values.
// The value kinds are re-validated against the step's field definitions by
// the complete command handler.
func toFieldValues(raw map[string]FieldValue) (workflow.FieldValues, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	values := workflow.FieldValues{}
	for key, fv := range raw {
		kind, err := workflow.FieldTypeFromString(fv.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}

		switch kind {
		case workflow.FieldTypeText:
			values[key] = workflow.NewTextValue(fv.Text)
		case workflow.FieldTypeNumber:
			values[key] = workflow.NewNumberValue(fv.Number)
		case workflow.FieldTypeDate:
			if fv.Date == nil {
				return nil, fmt.Errorf("field %q: date value is missing", key)
			}
			values[key] = workflow.NewDateValue(*fv.Date)
		case workflow.FieldTypeWorkerReference:
			workerID, idErr := kernel.UUIDFromString(fv.WorkerRef)
			if idErr != nil {
				return nil, fmt.Errorf("field %q: %w", key, idErr)
			}
			values[key] = workflow.NewWorkerRefValue(workerID)
		case workflow.FieldTypeStatusEnum:
			values[key] = workflow.NewEnumValue(fv.Choice)
		case workflow.FieldTypeMultiSelect:
			values[key] = workflow.NewMultiSelectValue(fv.Choices)
		default:
			return nil, fmt.Errorf("field %q: unsupported kind %q", key, fv.Kind)
		}
	}
	return values, nil
}
