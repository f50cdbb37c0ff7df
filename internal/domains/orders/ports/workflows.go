package ports

import (
	"context"

	"github.com/averost/commerce-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator starts the durable order placement path. The
// durable path is the only place transient failures are retried; the
// core itself never resubmits.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, req domain.PurchaseRequest) (*domain.Receipt, error)
}
