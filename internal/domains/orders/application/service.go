package application

import (
	"context"

	"github.com/averost/commerce-api/internal/domains/orders/domain"
	"github.com/averost/commerce-api/internal/domains/orders/ports"
)

// Service orchestrates the ordering use case. Validation happens here,
// before any transaction opens; everything transactional is delegated to
// the coordinator.
type Service struct {
	coordinator ports.Coordinator
}

func NewService(coordinator ports.Coordinator) *Service {
	return &Service{coordinator: coordinator}
}

func (s *Service) PlaceOrder(ctx context.Context, req domain.PurchaseRequest) (*domain.Receipt, error) {
	if err := req.Validate(); err != nil {
		return nil, mapError(err)
	}
	receipt, err := s.coordinator.PlaceOrder(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return receipt, nil
}

var _ ports.Service = (*Service)(nil)
