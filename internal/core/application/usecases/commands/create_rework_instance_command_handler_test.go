package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jewelflow/internal/core/application/usecases/commands"
	"jewelflow/internal/core/domain/model/stepinstance"
	"jewelflow/internal/pkg/errs"
)

func TestCreateReworkInstanceCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	wf := testWorkflow(t, "Cutting", "Polishing")
	ord := testOrder(t, wf, 50)
	origin := testYieldedInstance(t, ord, wf.FirstActiveStep(), 1, stepinstance.NoOrigin(), 50, 35)
	instances := []*stepinstance.Instance{origin}

	cmd, err := commands.NewCreateReworkInstanceCommand(origin.ID(), 15, 0)
	require.NoError(t, err)

	workflowRepo := new(MockWorkflowRepository)
	orderRepo := new(MockOrderRepository)
	instanceRepo := new(MockStepInstanceRepository)
	uow := new(MockEngineUoW)

	var created *stepinstance.Instance

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StepInstanceRepository").Return(instanceRepo).Once(),
		instanceRepo.On("GetForUpdate", ctx, origin.ID()).Return(origin, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ord.ID()).Return(ord, nil).Once(),
		uow.On("WorkflowRepository").Return(workflowRepo).Once(),
		workflowRepo.On("Get", ctx, wf.ID()).Return(wf, nil).Once(),
		instanceRepo.On("GetAllForOrder", ctx, ord.ID()).Return(instances, nil).Once(),
		instanceRepo.On("GetReworkChildren", ctx, origin.ID()).Return([]*stepinstance.Instance{}, nil).Once(),
		instanceRepo.On("Add", ctx, mock.AnythingOfType("*stepinstance.Instance")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*stepinstance.Instance)
			}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEngineUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateReworkInstanceCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, origin.StepDefinitionID(), created.StepDefinitionID())
	assert.Equal(t, 2, created.InstanceNumber())
	assert.Equal(t, 15, created.QuantityAssigned().Value())
	assert.Equal(t, stepinstance.OriginRework, created.Origin().Kind())
	require.NotNil(t, created.OriginInstanceID())
	assert.Equal(t, origin.ID(), *created.OriginInstanceID())
	instanceRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateReworkInstanceCommandHandler_Handle_OverClaimRejected(t *testing.T) {
	ctx := t.Context()

	wf := testWorkflow(t, "Cutting", "Polishing")
	ord := testOrder(t, wf, 50)
	origin := testYieldedInstance(t, ord, wf.FirstActiveStep(), 1, stepinstance.NoOrigin(), 50, 35)
	firstClaim := testPendingInstance(t, ord, wf.FirstActiveStep(), 2, stepinstance.FromRework(origin.ID()), 10)
	instances := []*stepinstance.Instance{origin, firstClaim}

	// 10 of the 15-piece shortfall is already claimed
	cmd, err := commands.NewCreateReworkInstanceCommand(origin.ID(), 10, 0)
	require.NoError(t, err)

	workflowRepo := new(MockWorkflowRepository)
	orderRepo := new(MockOrderRepository)
	instanceRepo := new(MockStepInstanceRepository)
	uow := new(MockEngineUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StepInstanceRepository").Return(instanceRepo).Once(),
		instanceRepo.On("GetForUpdate", ctx, origin.ID()).Return(origin, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ord.ID()).Return(ord, nil).Once(),
		uow.On("WorkflowRepository").Return(workflowRepo).Once(),
		workflowRepo.On("Get", ctx, wf.ID()).Return(wf, nil).Once(),
		instanceRepo.On("GetAllForOrder", ctx, ord.ID()).Return(instances, nil).Once(),
		instanceRepo.On("GetReworkChildren", ctx, origin.ID()).
			Return([]*stepinstance.Instance{firstClaim}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEngineUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateReworkInstanceCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrOverAllocation)
	instanceRepo.AssertNotCalled(t, "Add", ctx, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCreateReworkInstanceCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateReworkInstanceCommand{} // not constructed properly

	factory := new(MockEngineUoWFactory)
	handler := commands.NewCreateReworkInstanceCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCreateReworkInstanceCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
