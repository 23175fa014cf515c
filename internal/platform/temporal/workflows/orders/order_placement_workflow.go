package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
	// PlaceOrderActivityName runs the reservation protocol against the database.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
)

// OrderPlacementWorkflowInput captures the payload required to place an order.
type OrderPlacementWorkflowInput struct {
	Command ports.PlaceOrderInput
	TraceID string
}

// OrderPlacementWorkflow orchestrates the activity that runs the reservation
// protocol. The activity is all-or-nothing at the database level, so retrying
// it is safe; invalid or under-stocked requests are not retried.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	storeID := input.Command.Draft.StoreID
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "storeId", storeID)...)

	activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{"InvalidOrder", "InsufficientStock", "NotFound"},
		},
	})
	var order domain.Order
	if err := workflow.ExecuteActivity(activityCtx, PlaceOrderActivityName, input.Command).Get(ctx, &order); err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "storeId", storeID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return &order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
