package workflowrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	pgadapter "jewelflow/internal/adapters/out/postgres"
	"jewelflow/internal/adapters/out/postgres/workflowrepo"
	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/workflow"
	"jewelflow/internal/pkg/errs"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// WorkflowRepositoryIntegrationTestSuite provides integration tests for
// GormWorkflowRepository using a real PostgreSQL container.
type WorkflowRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *workflowrepo.GormWorkflowRepository
	tracker    *MockAggregateTracker
}

func (suite *WorkflowRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(pgadapter.Migrate(db))
}

func (suite *WorkflowRepositoryIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE workflows, step_definitions, step_field_definitions CASCADE").Error
	suite.Require().NoError(err)

	// Fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = workflowrepo.NewGormWorkflowRepository(suite.db, suite.tracker)
}

func (suite *WorkflowRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// newGoldChainWorkflow builds a two step workflow with a stamped field on the
// second step.
func (suite *WorkflowRepositoryIntegrationTestSuite) newGoldChainWorkflow() *workflow.Workflow {
	casting, err := workflow.NewStepDefinition(kernel.NewUUID(), 1, "Casting", false, 8)
	suite.Require().NoError(err)
	polishing, err := workflow.NewStepDefinition(kernel.NewUUID(), 2, "Polishing", true, 4)
	suite.Require().NoError(err)

	finish, err := workflow.NewStepFieldDefinition(kernel.NewUUID(), polishing.ID(),
		"finish", "Surface finish", workflow.FieldTypeStatusEnum, true, "",
		[]string{"matte", "mirror"})
	suite.Require().NoError(err)

	wf, err := workflow.NewWorkflow(kernel.NewUUID(), "gold-chain", 1, kernel.MeasureQuantity,
		[]*workflow.StepDefinition{casting, polishing},
		[]workflow.StepFieldDefinition{finish})
	suite.Require().NoError(err)
	return wf
}

func (suite *WorkflowRepositoryIntegrationTestSuite) addWorkflow(ctx context.Context, wf *workflow.Workflow) {
	suite.tracker.On("TrackAggregate", wf.ID(), wf).Once()
	err := suite.repository.Add(ctx, wf)
	suite.Require().NoError(err)
}

func (suite *WorkflowRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	wf := suite.newGoldChainWorkflow()

	suite.addWorkflow(ctx, wf)

	loaded, err := suite.repository.Get(ctx, wf.ID())
	suite.Require().NoError(err)
	suite.Equal(wf.ID(), loaded.ID())
	suite.Equal("gold-chain", loaded.Name())
	suite.Equal(1, loaded.Version())
	suite.Equal(kernel.MeasureQuantity, loaded.Measure())

	steps := loaded.Steps()
	suite.Require().Len(steps, 2)
	suite.Equal("Casting", steps[0].Name())
	suite.Equal(1, steps[0].StepOrder())
	suite.False(steps[0].QCRequired())
	suite.Equal(8, steps[0].EstimatedDurationHours())
	suite.Equal("Polishing", steps[1].Name())
	suite.True(steps[1].QCRequired())

	fields, err := loaded.FieldsFor(steps[1].ID())
	suite.Require().NoError(err)
	suite.Require().Len(fields, 1)
	suite.Equal("finish", fields[0].Key())
	suite.Equal(workflow.FieldTypeStatusEnum, fields[0].Type())
	suite.True(fields[0].IsRequired())
	suite.Equal([]string{"matte", "mirror"}, fields[0].Options())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkflowRepositoryIntegrationTestSuite) TestUpdate_DeactivatedStepSurvives() {
	ctx := context.Background()
	wf := suite.newGoldChainWorkflow()
	suite.addWorkflow(ctx, wf)

	castingID := wf.Steps()[0].ID()
	suite.Require().NoError(wf.DeactivateStep(castingID))

	suite.tracker.On("TrackAggregate", wf.ID(), wf).Once()
	err := suite.repository.Update(ctx, wf)
	suite.Require().NoError(err)

	loaded, err := suite.repository.Get(ctx, wf.ID())
	suite.Require().NoError(err)

	// deactivation keeps the row so historical instances stay resolvable
	steps := loaded.Steps()
	suite.Require().Len(steps, 2)
	suite.False(steps[0].IsActive())
	suite.True(steps[1].IsActive())

	active := loaded.ListActiveSteps()
	suite.Require().Len(active, 1)
	suite.Equal("Polishing", active[0].Name())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WorkflowRepositoryIntegrationTestSuite) TestUpdate_NonExistentWorkflow() {
	ctx := context.Background()
	wf := suite.newGoldChainWorkflow()

	err := suite.repository.Update(ctx, wf)

	suite.Require().Error(err)
}

func (suite *WorkflowRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestWorkflowRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowRepositoryIntegrationTestSuite))
}
