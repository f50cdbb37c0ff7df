package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCustomerID = errors.New("customer id is required")
	ErrEmptyProductID  = errors.New("product id is required")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrEmptyCity       = errors.New("city is required")
)

// PurchaseRequest carries the caller's intent to buy a product. It is
// validated before any transaction opens.
type PurchaseRequest struct {
	CustomerID string
	ProductID  string
	Quantity   int64
	City       string
}

// Validate enforces the request invariants.
func (r PurchaseRequest) Validate() error {
	if strings.TrimSpace(r.CustomerID) == "" {
		return ErrEmptyCustomerID
	}
	if strings.TrimSpace(r.ProductID) == "" {
		return ErrEmptyProductID
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if strings.TrimSpace(r.City) == "" {
		return ErrEmptyCity
	}
	return nil
}

// Order is the immutable purchase record written once by the coordinator.
// TotalPrice is fixed at creation from the price observed under the
// product row lock and never recomputed.
type Order struct {
	ID         string
	CustomerID string
	ProductID  string
	Quantity   int64
	TotalPrice decimal.Decimal
	City       string
	CreatedAt  time.Time
}

// ProductSnapshot is the post-decrement product state as of commit.
type ProductSnapshot struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int64
	SKU   string
}

// TotalFor computes price × quantity with decimal arithmetic.
func (p ProductSnapshot) TotalFor(quantity int64) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(quantity))
}

// Receipt is the result of a committed purchase.
type Receipt struct {
	Order   Order
	Product ProductSnapshot
}
