// Package orderrepo provides data transfer objects and mapping functions for
// manufacturing order persistence. This package implements the repository
// pattern for the order domain aggregate, handling the conversion between
// domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Rework lineage lives in two nullable columns; both are set for rework
// orders and both are null otherwise.
type OrderDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber      int64     `gorm:"uniqueIndex"`
	WorkflowID       uuid.UUID `gorm:"type:uuid;index"`
	QuantityRequired int
	Priority         int
	Status           int `gorm:"index"`
	DueDate          *time.Time
	ParentOrderID    *uuid.UUID `gorm:"type:uuid;index"`
	OriginStepOrder  *int
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.ManufacturingOrder) OrderDTO {
	var parentOrderID *uuid.UUID
	if id := aggregate.ParentOrderID(); id != nil {
		raw := id.Bytes()
		parentOrderID = &raw
	}

	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		OrderNumber:      aggregate.OrderNumber(),
		WorkflowID:       aggregate.WorkflowID().Bytes(),
		QuantityRequired: aggregate.QuantityRequired().Value(),
		Priority:         int(aggregate.Priority()),
		Status:           int(aggregate.Status()),
		DueDate:          aggregate.DueDate(),
		ParentOrderID:    parentOrderID,
		OriginStepOrder:  aggregate.OriginStepOrder(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreManufacturingOrder.
func toDomain(dto OrderDTO) (*order.ManufacturingOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	workflowID, err := kernel.UUIDFromBytes(dto.WorkflowID[:])
	if err != nil {
		return nil, err
	}

	quantity, err := kernel.NewQuantity(dto.QuantityRequired)
	if err != nil {
		return nil, err
	}

	var parentOrderID *kernel.UUID
	if dto.ParentOrderID != nil {
		pID, parentErr := kernel.UUIDFromBytes((*dto.ParentOrderID)[:])
		if parentErr != nil {
			return nil, parentErr
		}
		parentOrderID = &pID
	}

	return order.RestoreManufacturingOrder(id, dto.OrderNumber, workflowID, quantity,
		order.Priority(dto.Priority), order.Status(dto.Status), dto.DueDate,
		parentOrderID, dto.OriginStepOrder)
}
