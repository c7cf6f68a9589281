package postgres

import (
	"gorm.io/gorm"

	"jewelflow/internal/adapters/out/postgres/inventoryrepo"
	"jewelflow/internal/adapters/out/postgres/orderrepo"
	"jewelflow/internal/adapters/out/postgres/stepinstancerepo"
	"jewelflow/internal/adapters/out/postgres/workflowrepo"
)

// Migrate creates or updates the database schema for all repositories and
// the shared order number sequence.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&workflowrepo.WorkflowDTO{},
		&workflowrepo.StepDefinitionDTO{},
		&workflowrepo.StepFieldDefinitionDTO{},
		&orderrepo.OrderDTO{},
		&stepinstancerepo.StepInstanceDTO{},
		&inventoryrepo.TagInEventDTO{},
	); err != nil {
		return err
	}

	return db.Exec("CREATE SEQUENCE IF NOT EXISTS order_numbers START WITH 1001").Error
}
