package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jewelflow/internal/core/application/usecases/commands"
	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/core/domain/model/workflow"
	"jewelflow/internal/core/ports"
)

type MockWorkflowRepository struct{ mock.Mock }

func (m *MockWorkflowRepository) Add(ctx context.Context, aggregate *workflow.Workflow) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockWorkflowRepository) Update(ctx context.Context, aggregate *workflow.Workflow) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockWorkflowRepository) Get(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Workflow), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.ManufacturingOrder) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.ManufacturingOrder) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.ManufacturingOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ManufacturingOrder), args.Error(1)
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetReworkOrders(ctx context.Context, parentOrderID kernel.UUID) ([]*order.ManufacturingOrder, error) {
	args := m.Called(ctx, parentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.ManufacturingOrder), args.Error(1)
}

type MockStepInstanceRepository struct{ mock.Mock }

func (m *MockStepInstanceRepository) Add(ctx context.Context, aggregate *stepinstance.Instance) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockStepInstanceRepository) Update(ctx context.Context, aggregate *stepinstance.Instance) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockStepInstanceRepository) Get(ctx context.Context, id kernel.UUID) (*stepinstance.Instance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stepinstance.Instance), args.Error(1)
}

func (m *MockStepInstanceRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*stepinstance.Instance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stepinstance.Instance), args.Error(1)
}

func (m *MockStepInstanceRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*stepinstance.Instance, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stepinstance.Instance), args.Error(1)
}

func (m *MockStepInstanceRepository) GetReworkChildren(ctx context.Context, originInstanceID kernel.UUID) ([]*stepinstance.Instance, error) {
	args := m.Called(ctx, originInstanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stepinstance.Instance), args.Error(1)
}

type MockEngineUoW struct{ mock.Mock }

func (m *MockEngineUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEngineUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEngineUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEngineUoW) WorkflowRepository() ports.WorkflowRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkflowRepository)
}

func (m *MockEngineUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockEngineUoW) StepInstanceRepository() ports.StepInstanceRepository {
	args := m.Called()
	return args.Get(0).(ports.StepInstanceRepository)
}

func (m *MockEngineUoW) InventoryReconciler() ports.InventoryReconciler {
	args := m.Called()
	return args.Get(0).(ports.InventoryReconciler)
}

type MockEngineUoWFactory struct{ mock.Mock }

func (m *MockEngineUoWFactory) Create() commands.EngineUoW {
	args := m.Called()
	return args.Get(0).(commands.EngineUoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) WorkflowRepository() ports.WorkflowRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkflowRepository)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockInventoryReconciler struct{ mock.Mock }

func (m *MockInventoryReconciler) RecordTagIn(ctx context.Context, fact ports.TagInFact) error {
	args := m.Called(ctx, fact)
	return args.Error(0)
}

// Shared fixtures for handler tests.

func testWorkflow(t *testing.T, stepNames ...string) *workflow.Workflow {
	t.Helper()
	steps := make([]*workflow.StepDefinition, 0, len(stepNames))
	for i, name := range stepNames {
		step, err := workflow.NewStepDefinition(kernel.NewUUID(), i+1, name, false, 8)
		require.NoError(t, err)
		steps = append(steps, step)
	}
	wf, err := workflow.NewWorkflow(kernel.NewUUID(), "gold-chain", 1, kernel.MeasureQuantity, steps, nil)
	require.NoError(t, err)
	return wf
}

func testOrder(t *testing.T, wf *workflow.Workflow, quantity int) *order.ManufacturingOrder {
	t.Helper()
	ord, err := order.NewManufacturingOrder(kernel.NewUUID(), 1001, wf.ID(),
		kernel.MustQuantity(quantity), order.PriorityMedium, nil)
	require.NoError(t, err)
	return ord
}

func testYieldedInstance(
	t *testing.T,
	ord *order.ManufacturingOrder,
	step *workflow.StepDefinition,
	number int,
	origin stepinstance.Origin,
	quantityAssigned, quantityReceived int,
) *stepinstance.Instance {
	t.Helper()
	inst, err := stepinstance.NewInstance(kernel.NewUUID(), ord.ID(), step.ID(), number,
		origin, kernel.MustQuantity(quantityAssigned), kernel.MustWeight(0))
	require.NoError(t, err)
	require.NoError(t, inst.Start(kernel.NewUUID(), kernel.MeasureQuantity, time.Now().Add(-time.Hour)))

	received := kernel.MustQuantity(quantityReceived)
	if quantityReceived == quantityAssigned {
		require.NoError(t, inst.Complete(kernel.MeasureQuantity, received, kernel.MustWeight(0), nil, time.Now()))
	} else {
		require.NoError(t, inst.CompletePartial(kernel.MeasureQuantity, received, kernel.MustWeight(0), nil, time.Now()))
	}
	return inst
}

func testPendingInstance(
	t *testing.T,
	ord *order.ManufacturingOrder,
	step *workflow.StepDefinition,
	number int,
	origin stepinstance.Origin,
	quantityAssigned int,
) *stepinstance.Instance {
	t.Helper()
	inst, err := stepinstance.NewInstance(kernel.NewUUID(), ord.ID(), step.ID(), number,
		origin, kernel.MustQuantity(quantityAssigned), kernel.MustWeight(0))
	require.NoError(t, err)
	return inst
}
