package http

import (
	"errors"
	"net/http"

	"jewelflow/internal/core/application/usecases/commands"
	"jewelflow/internal/core/application/usecases/queries"
	"jewelflow/internal/core/domain/model/kernel"
	"jewelflow/internal/core/domain/model/order"
	"jewelflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server exposes the progression engine over HTTP.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler          commands.CreateOrderCommandHandler
	startNextStepHandler        commands.StartNextStepCommandHandler
	beginInstanceHandler        commands.BeginInstanceCommandHandler
	completeInstanceHandler     commands.CompleteInstanceCommandHandler
	createReworkInstanceHandler commands.CreateReworkInstanceCommandHandler
	createReworkOrderHandler    commands.CreateReworkOrderCommandHandler
	blockInstanceHandler        commands.BlockInstanceCommandHandler
	unblockInstanceHandler      commands.UnblockInstanceCommandHandler
	acceptShortfallHandler      commands.AcceptShortfallCommandHandler
	tagInOrderHandler           commands.TagInOrderCommandHandler

	// Query handlers
	getOpenOrdersHandler       queries.GetOpenOrdersQueryHandler
	getOrderProgressHandler    queries.GetOrderProgressQueryHandler
	getOrderBranchesHandler    queries.GetOrderBranchesQueryHandler
	getInstanceBranchesHandler queries.GetInstanceBranchesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	startNextStepHandler commands.StartNextStepCommandHandler,
	beginInstanceHandler commands.BeginInstanceCommandHandler,
	completeInstanceHandler commands.CompleteInstanceCommandHandler,
	createReworkInstanceHandler commands.CreateReworkInstanceCommandHandler,
	createReworkOrderHandler commands.CreateReworkOrderCommandHandler,
	blockInstanceHandler commands.BlockInstanceCommandHandler,
	unblockInstanceHandler commands.UnblockInstanceCommandHandler,
	acceptShortfallHandler commands.AcceptShortfallCommandHandler,
	tagInOrderHandler commands.TagInOrderCommandHandler,
	getOpenOrdersHandler queries.GetOpenOrdersQueryHandler,
	getOrderProgressHandler queries.GetOrderProgressQueryHandler,
	getOrderBranchesHandler queries.GetOrderBranchesQueryHandler,
	getInstanceBranchesHandler queries.GetInstanceBranchesQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		startNextStepHandler:        startNextStepHandler,
		beginInstanceHandler:        beginInstanceHandler,
		completeInstanceHandler:     completeInstanceHandler,
		createReworkInstanceHandler: createReworkInstanceHandler,
		createReworkOrderHandler:    createReworkOrderHandler,
		blockInstanceHandler:        blockInstanceHandler,
		unblockInstanceHandler:      unblockInstanceHandler,
		acceptShortfallHandler:      acceptShortfallHandler,
		tagInOrderHandler:           tagInOrderHandler,
		getOpenOrdersHandler:        getOpenOrdersHandler,
		getOrderProgressHandler:     getOrderProgressHandler,
		getOrderBranchesHandler:     getOrderBranchesHandler,
		getInstanceBranchesHandler:  getInstanceBranchesHandler,
	}
}

// RegisterRoutes attaches all engine endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetOpenOrders)
	api.POST("/orders/:id/next-step", s.StartNextStep)
	api.POST("/orders/:id/tag-in", s.TagInOrder)
	api.GET("/orders/:id/progress", s.GetOrderProgress)
	api.GET("/orders/:id/branches", s.GetOrderBranches)

	api.POST("/instances/:id/begin", s.BeginInstance)
	api.POST("/instances/:id/complete", s.CompleteInstance)
	api.POST("/instances/:id/block", s.BlockInstance)
	api.POST("/instances/:id/unblock", s.UnblockInstance)
	api.POST("/instances/:id/accept-shortfall", s.AcceptShortfall)
	api.POST("/instances/:id/rework", s.CreateReworkInstance)
	api.POST("/instances/:id/rework-order", s.CreateReworkOrder)
	api.GET("/instances/:id/branches", s.GetInstanceBranches)
}

// errorResponse maps the domain error taxonomy to HTTP status codes.
func errorResponse(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrConcurrentModification),
		errors.Is(err, commands.ErrNoNextAction):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrConservationViolation),
		errors.Is(err, errs.ErrOverAllocation),
		errors.Is(err, errs.ErrValueIsRequired):
		status = http.StatusUnprocessableEntity
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func pathID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

// CreateOrder handles POST /api/v1/orders - opens a new manufacturing order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	workflowID, err := kernel.UUIDFromString(req.WorkflowID)
	if err != nil {
		return badRequest(ctx, "Invalid workflow id: "+err.Error())
	}

	priority, err := order.PriorityFromString(req.Priority)
	if err != nil {
		return badRequest(ctx, "Invalid priority: "+err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, workflowID, req.QuantityRequired, priority, req.DueDate)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID.String()})
}

// StartNextStep handles POST /api/v1/orders/:id/next-step - advances the order
// by one step, as decided by the next action resolver.
func (s *Server) StartNextStep(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req StartNextStepRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewStartNextStepCommand(orderID, req.WeightAssigned)
	if err != nil {
		return badRequest(ctx, "Invalid step data: "+err.Error())
	}

	if handleErr := s.startNextStepHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusCreated)
}

// BeginInstance handles POST /api/v1/instances/:id/begin - assigns a worker
// and starts the batch.
func (s *Server) BeginInstance(ctx echo.Context) error {
	instanceID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid instance id")
	}

	var req BeginInstanceRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	workerID, err := kernel.UUIDFromString(req.WorkerID)
	if err != nil {
		return badRequest(ctx, "Invalid worker id: "+err.Error())
	}

	cmd, err := commands.NewBeginInstanceCommand(instanceID, workerID)
	if err != nil {
		return badRequest(ctx, "Invalid begin data: "+err.Error())
	}

	if handleErr := s.beginInstanceHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteInstance handles POST /api/v1/instances/:id/complete - records the
// batch yield, full or partial.
func (s *Server) CompleteInstance(ctx echo.Context) error {
	instanceID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid instance id")
	}

	var req CompleteInstanceRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	fieldValues, err := toFieldValues(req.FieldValues)
	if err != nil {
		return badRequest(ctx, "Invalid field values: "+err.Error())
	}

	cmd, err := commands.NewCompleteInstanceCommand(instanceID, req.QuantityReceived, req.WeightReceived, fieldValues)
	if err != nil {
		return badRequest(ctx, "Invalid completion data: "+err.Error())
	}

	if handleErr := s.completeInstanceHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateReworkInstance handles POST /api/v1/instances/:id/rework - opens a
// same-order rework batch claiming part of the origin's shortfall.
func (s *Server) CreateReworkInstance(ctx echo.Context) error {
	originInstanceID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid instance id")
	}

	var req CreateReworkInstanceRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateReworkInstanceCommand(originInstanceID, req.QuantityAssigned, req.WeightAssigned)
	if err != nil {
		return badRequest(ctx, "Invalid rework data: "+err.Error())
	}

	if handleErr := s.createReworkInstanceHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusCreated)
}

// CreateReworkOrder handles POST /api/v1/instances/:id/rework-order - branches
// the origin's shortfall into a separate rework order.
func (s *Server) CreateReworkOrder(ctx echo.Context) error {
	originInstanceID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid instance id")
	}

	var req CreateReworkOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	priority, err := order.PriorityFromString(req.Priority)
	if err != nil {
		return badRequest(ctx, "Invalid priority: "+err.Error())
	}

	reworkOrderID := kernel.NewUUID()
	cmd, err := commands.NewCreateReworkOrderCommand(reworkOrderID, originInstanceID,
		req.QuantityRequired, req.WeightAssigned, priority, req.DueDate)
	if err != nil {
		return badRequest(ctx, "Invalid rework order data: "+err.Error())
	}

	if handleErr := s.createReworkOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreateReworkOrderResponse{ID: reworkOrderID.String()})
}

// BlockInstance handles POST /api/v1/instances/:id/block.
func (s *Server) BlockInstance(ctx echo.Context) error {
	instanceID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid instance id")
	}

	cmd, err := commands.NewBlockInstanceCommand(instanceID)
	if err != nil {
		return badRequest(ctx, "Invalid block data: "+err.Error())
	}

	if handleErr := s.blockInstanceHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UnblockInstance handles POST /api/v1/instances/:id/unblock.
func (s *Server) UnblockInstance(ctx echo.Context) error {
	instanceID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid instance id")
	}

	cmd, err := commands.NewUnblockInstanceCommand(instanceID)
	if err != nil {
		return badRequest(ctx, "Invalid unblock data: "+err.Error())
	}

	if handleErr := s.unblockInstanceHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AcceptShortfall handles POST /api/v1/instances/:id/accept-shortfall.
func (s *Server) AcceptShortfall(ctx echo.Context) error {
	instanceID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid instance id")
	}

	cmd, err := commands.NewAcceptShortfallCommand(instanceID)
	if err != nil {
		return badRequest(ctx, "Invalid accept data: "+err.Error())
	}

	if handleErr := s.acceptShortfallHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// TagInOrder handles POST /api/v1/orders/:id/tag-in - reconciles a completed
// order's output into finished-goods inventory.
func (s *Server) TagInOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewTagInOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid tag-in data: "+err.Error())
	}

	if handleErr := s.tagInOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorResponse(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOpenOrders handles GET /api/v1/orders/active - lists the work queue.
func (s *Server) GetOpenOrders(ctx echo.Context) error {
	query := queries.NewGetOpenOrdersQuery()

	orders, err := s.getOpenOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]OrderSummary, len(orders))
	for i, ord := range orders {
		summary := OrderSummary{
			ID:               ord.ID.String(),
			OrderNumber:      ord.OrderNumber,
			WorkflowID:       ord.WorkflowID.String(),
			QuantityRequired: ord.QuantityRequired,
			Priority:         ord.Priority,
			Status:           ord.Status,
			DueDate:          ord.DueDate,
			OriginStepOrder:  ord.OriginStepOrder,
		}
		if ord.ParentOrderID != nil {
			parentID := ord.ParentOrderID.String()
			summary.ParentOrderID = &parentID
		}
		response[i] = summary
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderProgress handles GET /api/v1/orders/:id/progress - lists every step
// batch of one order with its workflow step names.
func (s *Server) GetOrderProgress(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderProgressQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid progress query: "+err.Error())
	}

	batches, err := s.getOrderProgressHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]StepBatch, len(batches))
	for i, batch := range batches {
		response[i] = StepBatch{
			ID:                batch.ID.String(),
			StepDefinitionID:  batch.StepDefinitionID.String(),
			StepName:          batch.StepName,
			StepOrder:         batch.StepOrder,
			InstanceNumber:    batch.InstanceNumber,
			Status:            batch.Status,
			QuantityAssigned:  batch.QuantityAssigned,
			QuantityReceived:  batch.QuantityReceived,
			WeightAssigned:    batch.WeightAssigned,
			WeightReceived:    batch.WeightReceived,
			ShortfallAccepted: batch.ShortfallAccepted,
			StartedAt:         batch.StartedAt,
			CompletedAt:       batch.CompletedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetInstanceBranches handles GET /api/v1/instances/:id/branches - lists one
// batch's outgoing edges for the production graph rendering.
func (s *Server) GetInstanceBranches(ctx echo.Context) error {
	instanceID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid instance id")
	}

	query, err := queries.NewGetInstanceBranchesQuery(instanceID)
	if err != nil {
		return badRequest(ctx, "Invalid branches query: "+err.Error())
	}

	branches, err := s.getInstanceBranchesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]InstanceBranch, len(branches))
	for i, branch := range branches {
		edge := InstanceBranch{
			Type:     branch.Type,
			Quantity: branch.Quantity,
			Weight:   branch.Weight,
		}
		if branch.TargetInstanceID != nil {
			targetID := branch.TargetInstanceID.String()
			edge.TargetInstanceID = &targetID
		}
		if branch.TargetOrderID != nil {
			targetID := branch.TargetOrderID.String()
			edge.TargetOrderID = &targetID
		}
		response[i] = edge
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderBranches handles GET /api/v1/orders/:id/branches - lists the rework
// orders branched off one parent order.
func (s *Server) GetOrderBranches(ctx echo.Context) error {
	orderID, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderBranchesQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid branches query: "+err.Error())
	}

	branches, err := s.getOrderBranchesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]OrderBranch, len(branches))
	for i, branch := range branches {
		response[i] = OrderBranch{
			ID:               branch.ID.String(),
			OrderNumber:      branch.OrderNumber,
			OriginStepOrder:  branch.OriginStepOrder,
			QuantityRequired: branch.QuantityRequired,
			Priority:         branch.Priority,
			Status:           branch.Status,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}
