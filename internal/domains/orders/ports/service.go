package ports

import (
	"context"

	"github.com/averost/commerce-api/internal/domains/orders/domain"
)

// Service exposes the ordering use case to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, req domain.PurchaseRequest) (*domain.Receipt, error)
}
