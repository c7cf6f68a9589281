// Package inventoryrepo records tag-in facts for the inventory subsystem.
// The reconciler writes through the unit of work's connection, so a fact
// commits or rolls back with the order it belongs to. The facts table is
// keyed by order id, so recording the same order twice is a no-op and
// reconciliation stays exactly-once per order.
package inventoryrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jewelflow/internal/core/ports"
)

// TagInEventDTO represents one recorded tag-in fact.
type TagInEventDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FinalQuantity int
	FinalWeight   float64
	RecordedAt    time.Time
}

// TableName specifies the database table name for tag-in events.
func (TagInEventDTO) TableName() string {
	return "tag_in_events"
}

// GormInventoryReconciler implements InventoryReconciler using GORM.
type GormInventoryReconciler struct {
	db *gorm.DB
}

// NewGormInventoryReconciler creates a new GORM inventory reconciler.
func NewGormInventoryReconciler(db *gorm.DB) *GormInventoryReconciler {
	return &GormInventoryReconciler{db: db}
}

// RecordTagIn stores the fact that an order's output entered inventory.
// A second record for the same order id does nothing.
func (r *GormInventoryReconciler) RecordTagIn(ctx context.Context, fact ports.TagInFact) error {
	if err := fact.OrderID.Validate(); err != nil {
		return err
	}

	dto := TagInEventDTO{
		OrderID:       fact.OrderID.Bytes(),
		FinalQuantity: fact.FinalQuantity.Value(),
		FinalWeight:   fact.FinalWeight.Grams(),
		RecordedAt:    time.Now().UTC(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto).Error
}
