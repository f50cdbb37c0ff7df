package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/averost/commerce-api/internal/domains/orders/domain"
	orderactivities "github.com/averost/commerce-api/internal/platform/temporal/activities/orders"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place an order.
type OrderPlacementWorkflowInput struct {
	Request ordersdomain.PurchaseRequest
	TraceID string
}

// OrderPlacementWorkflow is the thin retry wrapper around the purchase
// transaction. A rolled-back attempt leaves no residue, so resubmitting
// the whole request is safe; only transient failures are retried because
// the activity marks business outcomes non-retryable.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*ordersdomain.Receipt, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID,
		"productId", input.Request.ProductID, "quantity", input.Request.Quantity)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var receipt ordersdomain.Receipt
	err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, input.Request).Get(ctx, &receipt)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID,
			"productId", input.Request.ProductID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID,
		"orderId", receipt.Order.ID)...)
	return &receipt, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
