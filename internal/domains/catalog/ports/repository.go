package ports

import (
	"context"
	"errors"

	"github.com/averost/commerce-api/internal/domains/catalog/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUTaken        = errors.New("product sku already in use")
)

// Repository persists catalog products.
type Repository interface {
	Create(ctx context.Context, product domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Update(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
