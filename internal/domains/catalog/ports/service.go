package ports

import (
	"context"

	"github.com/averost/commerce-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to transports.
type Service interface {
	Create(ctx context.Context, in domain.NewProductInput) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Update(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
