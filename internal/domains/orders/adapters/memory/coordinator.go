package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/averost/commerce-api/internal/domains/orders/domain"
	"github.com/averost/commerce-api/internal/domains/orders/ports"
)

var _ ports.Coordinator = (*Coordinator)(nil)

// Coordinator reproduces the transactional purchase semantics in
// process: a single mutex stands in for the product row lock, and all
// mutations are staged and applied together so a failure at any step
// leaves no residue.
type Coordinator struct {
	mu        sync.Mutex
	products  map[string]domain.ProductSnapshot
	customers map[string]*customerState
	orders    []domain.Order
}

type customerState struct {
	TotalPurchases   decimal.Decimal
	LastPurchaseDate time.Time
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		products:  map[string]domain.ProductSnapshot{},
		customers: map[string]*customerState{},
	}
}

// SeedProduct registers or replaces a product.
func (c *Coordinator) SeedProduct(p domain.ProductSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

// SeedCustomer registers a customer with a zero aggregate.
func (c *Coordinator) SeedCustomer(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customers[id] = &customerState{TotalPurchases: decimal.Zero}
}

// PlaceOrder mirrors the Postgres coordinator step for step. Every check
// happens before any mutation, so a failed step (missing product,
// insufficient stock, missing customer) leaves state untouched.
func (c *Coordinator) PlaceOrder(ctx context.Context, req domain.PurchaseRequest) (*domain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	product, ok := c.products[req.ProductID]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	if product.Stock < req.Quantity {
		return nil, ports.ErrInsufficientStock
	}
	customer, ok := c.customers[req.CustomerID]
	if !ok {
		return nil, ports.ErrCustomerNotFound
	}

	total := product.TotalFor(req.Quantity)
	now := time.Now().UTC()
	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalPrice: total,
		City:       req.City,
		CreatedAt:  now,
	}

	product.Stock -= req.Quantity
	c.products[req.ProductID] = product
	c.orders = append(c.orders, order)
	customer.TotalPurchases = customer.TotalPurchases.Add(total)
	customer.LastPurchaseDate = now

	return &domain.Receipt{Order: order, Product: product}, nil
}

// Product returns the current snapshot for assertions.
func (c *Coordinator) Product(id string) (domain.ProductSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	return p, ok
}

// CustomerTotal returns the customer's cumulative purchase total.
func (c *Coordinator) CustomerTotal(id string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cust, ok := c.customers[id]
	if !ok {
		return decimal.Zero, false
	}
	return cust.TotalPurchases, true
}

// Orders returns a copy of all committed orders.
func (c *Coordinator) Orders() []domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// Reset drops all state; used by contract test state handlers.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = map[string]domain.ProductSnapshot{}
	c.customers = map[string]*customerState{}
	c.orders = nil
}
