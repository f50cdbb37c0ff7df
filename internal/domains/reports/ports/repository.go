package ports

import (
	"context"

	"github.com/averost/commerce-api/internal/domains/reports/domain"
)

// Repository runs read-only reporting queries against committed data.
type Repository interface {
	TopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error)
	SalesByCity(ctx context.Context) ([]domain.CitySales, error)
	StockReport(ctx context.Context) ([]domain.StockReportRow, error)
	MonthlySales(ctx context.Context, year int) ([]domain.MonthlyProductSales, error)
}
