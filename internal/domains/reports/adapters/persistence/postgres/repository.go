package postgres

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/averost/commerce-api/internal/domains/reports/domain"
	"github.com/averost/commerce-api/internal/domains/reports/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

var _ ports.Repository = (*Repository)(nil)

// Repository runs the reporting queries as raw SQL. Reports aggregate
// committed rows only; they take no locks and join across the catalog,
// orders, and customers tables.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type topCustomerRow struct {
	CustomerID     string
	Name           string
	Email          string
	TotalPurchases decimal.Decimal
	OrderCount     int64
}

func (r *Repository) TopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []topCustomerRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id,
		       c.name,
		       c.email,
		       COALESCE(c.total_purchases, 0) AS total_purchases,
		       COUNT(o.id) AS order_count
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id
		GROUP BY c.id, c.name, c.email, c.total_purchases
		ORDER BY COALESCE(c.total_purchases, 0) DESC
		LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, fault.Classify(err)
	}
	out := make([]domain.TopCustomer, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TopCustomer{
			CustomerID:     row.CustomerID,
			Name:           row.Name,
			Email:          row.Email,
			TotalPurchases: row.TotalPurchases,
			OrderCount:     row.OrderCount,
		})
	}
	return out, nil
}

type citySalesRow struct {
	City       string
	OrderCount int64
	Revenue    decimal.Decimal
}

func (r *Repository) SalesByCity(ctx context.Context) ([]domain.CitySales, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []citySalesRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT o.city,
		       COUNT(o.id) AS order_count,
		       COALESCE(SUM(o.total_price), 0) AS revenue
		FROM orders o
		GROUP BY o.city
		ORDER BY revenue DESC`).Scan(&rows).Error
	if err != nil {
		return nil, fault.Classify(err)
	}
	out := make([]domain.CitySales, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CitySales{
			City:       row.City,
			OrderCount: row.OrderCount,
			Revenue:    row.Revenue,
		})
	}
	return out, nil
}

type stockRow struct {
	ProductID string
	Name      string
	SKU       string
	Stock     int64
}

func (r *Repository) StockReport(ctx context.Context) ([]domain.StockReportRow, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []stockRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id, p.name, p.sku, p.stock
		FROM products p
		ORDER BY p.stock ASC, p.name ASC`).Scan(&rows).Error
	if err != nil {
		return nil, fault.Classify(err)
	}
	out := make([]domain.StockReportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.StockReportRow{
			ProductID: row.ProductID,
			Name:      row.Name,
			SKU:       row.SKU,
			Stock:     row.Stock,
			Status:    domain.StatusForStock(row.Stock),
		})
	}
	return out, nil
}

type monthlySalesRow struct {
	Month     int
	ProductID string
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}

func (r *Repository) MonthlySales(ctx context.Context, year int) ([]domain.MonthlyProductSales, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []monthlySalesRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXTRACT(MONTH FROM o.created_at)::int AS month,
		       p.id AS product_id,
		       p.name,
		       SUM(o.quantity) AS quantity,
		       COALESCE(SUM(o.total_price), 0) AS revenue
		FROM orders o
		JOIN products p ON p.id = o.product_id
		WHERE EXTRACT(YEAR FROM o.created_at) = ?
		GROUP BY month, p.id, p.name
		ORDER BY month ASC, revenue DESC`, year).Scan(&rows).Error
	if err != nil {
		return nil, fault.Classify(err)
	}
	out := make([]domain.MonthlyProductSales, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MonthlyProductSales{
			Month:     row.Month,
			ProductID: row.ProductID,
			Name:      row.Name,
			Quantity:  row.Quantity,
			Revenue:   row.Revenue,
		})
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres reports repository not configured")
	}
	return nil
}
