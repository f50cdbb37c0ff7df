package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidYear = errors.New("report year must be a four digit year")

// Stock level labels reported by the inventory report.
const (
	StockStatusOut = "Out of Stock"
	StockStatusLow = "Low Stock"
	StockStatusIn  = "In Stock"
)

// LowStockThreshold is the stock level below which a product counts as
// running low.
const LowStockThreshold = 10

// TopCustomer ranks a customer by accumulated purchase total.
type TopCustomer struct {
	CustomerID     string
	Name           string
	Email          string
	TotalPurchases decimal.Decimal
	OrderCount     int64
}

// CitySales aggregates order revenue per delivery city.
type CitySales struct {
	City       string
	OrderCount int64
	Revenue    decimal.Decimal
}

// StockReportRow is one product line in the inventory report.
type StockReportRow struct {
	ProductID string
	Name      string
	SKU       string
	Stock     int64
	Status    string
}

// StatusForStock buckets a stock count into a report label.
func StatusForStock(stock int64) string {
	switch {
	case stock <= 0:
		return StockStatusOut
	case stock < LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// MonthlyProductSales aggregates sold quantity and revenue for one
// product in one month.
type MonthlyProductSales struct {
	Month     int
	ProductID string
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}
