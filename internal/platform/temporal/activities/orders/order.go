package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersdomain "github.com/averost/commerce-api/internal/domains/orders/domain"
	ordersports "github.com/averost/commerce-api/internal/domains/orders/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

// PlaceOrderActivityName runs the purchase transaction exactly once per attempt.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder executes the purchase transaction. Business outcomes and
// persistence failures surface as non-retryable application errors so the
// workflow retry policy resubmits transient failures only.
func (a *Activities) PlaceOrder(ctx context.Context, req ordersdomain.PurchaseRequest) (*ordersdomain.Receipt, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized", "productId", req.ProductID)
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "productId", req.ProductID, "quantity", req.Quantity)
	receipt, err := a.service.PlaceOrder(ctx, req)
	if err != nil {
		kind := fault.KindOf(err)
		logger.Error("PlaceOrder activity failed", "productId", req.ProductID, "kind", kind.String(), "error", err)
		if kind == fault.KindTransient {
			return nil, err
		}
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), kind.String(), err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", receipt.Order.ID)
	return receipt, nil
}
