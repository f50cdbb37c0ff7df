package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrEmptySKU      = errors.New("product sku is required")
	ErrNegativePrice = errors.New("product price must not be negative")
	ErrNegativeStock = errors.New("product stock must not be negative")
	ErrEmptyUpdate   = errors.New("product update carries no fields")
)

// Product is the catalog view of a sellable item. Stock shown here is a
// snapshot; the authoritative decrement happens inside the purchase
// transaction.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	Category    string
	SKU         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProductInput carries the fields needed to add a product.
type NewProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	Category    string
	SKU         string
}

func (in NewProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(in.SKU) == "" {
		return ErrEmptySKU
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	if in.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// ProductUpdate is a partial update; nil fields stay untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int64
	Category    *string
}

func (u ProductUpdate) Validate() error {
	if u.Name == nil && u.Description == nil && u.Price == nil && u.Stock == nil && u.Category == nil {
		return ErrEmptyUpdate
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyName
	}
	if u.Price != nil && u.Price.IsNegative() {
		return ErrNegativePrice
	}
	if u.Stock != nil && *u.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
