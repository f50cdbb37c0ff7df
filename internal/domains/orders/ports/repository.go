package ports

import (
	"context"
	"errors"

	"github.com/averost/commerce-api/internal/domains/orders/domain"
)

var (
	// ErrProductNotFound is a business outcome: the referenced product
	// row does not exist. Always rolled back, never retried.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is a business outcome: the product's stock
	// cannot cover the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrCustomerNotFound means the aggregate update matched no customer
	// row; the whole transaction is rolled back rather than committing an
	// order with no aggregate effect.
	ErrCustomerNotFound = errors.New("customer not found")
)

// Coordinator executes a purchase as a single transaction: locking read
// on the product, stock guard and decrement, order insert, customer
// aggregate update. Implementations must guarantee all-or-nothing
// visibility and serialize concurrent purchases of the same product.
type Coordinator interface {
	PlaceOrder(ctx context.Context, req domain.PurchaseRequest) (*domain.Receipt, error)
}
