// Package postgres provides the GORM-based Unit of Work implementation that
// coordinates transactional writes across the workflow, order, and step
// instance repositories. Every command runs inside one unit of work; the
// progression invariants rely on the row locks and unique indexes those
// repositories take inside the shared transaction.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"jewelflow/internal/adapters/out/postgres/inventoryrepo"
	"jewelflow/internal/adapters/out/postgres/orderrepo"
	"jewelflow/internal/adapters/out/postgres/stepinstancerepo"
	"jewelflow/internal/adapters/out/postgres/workflowrepo"
	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/ports"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over a shared GORM
// connection. Each business operation gets a fresh unit of work with its
// own transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates modified within it. Repositories obtained from the unit of
// work share the transaction while it is open.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction. Calling Begin again on an
// open unit of work is a no-op rather than a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// WorkflowRepository provides workflow persistence within the unit of work.
func (uow *GormUnitOfWork) WorkflowRepository() ports.WorkflowRepository {
	return workflowrepo.NewGormWorkflowRepository(uow.conn(), uow)
}

// OrderRepository provides order persistence within the unit of work.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// StepInstanceRepository provides step instance persistence within the unit of work.
func (uow *GormUnitOfWork) StepInstanceRepository() ports.StepInstanceRepository {
	return stepinstancerepo.NewGormStepInstanceRepository(uow.conn(), uow)
}

// InventoryReconciler provides tag-in fact persistence within the unit of
// work, so the fact is written in the same transaction as the order update.
func (uow *GormUnitOfWork) InventoryReconciler() ports.InventoryReconciler {
	return inventoryrepo.NewGormInventoryReconciler(uow.conn())
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Called by the repositories on Add and Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
