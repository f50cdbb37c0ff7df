package application

import (
	"context"

	"github.com/averost/commerce-api/internal/domains/reports/domain"
	"github.com/averost/commerce-api/internal/domains/reports/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

const (
	defaultTopCustomerLimit = 10
	maxTopCustomerLimit     = 100
)

// Service fronts the reporting queries. Reports read committed rows
// only and never touch the transactional write paths.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// TopCustomers clamps the limit into [1, 100]; zero or negative falls
// back to the default of 10.
func (s *Service) TopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error) {
	if limit <= 0 {
		limit = defaultTopCustomerLimit
	}
	if limit > maxTopCustomerLimit {
		limit = maxTopCustomerLimit
	}
	customers, err := s.repo.TopCustomers(ctx, limit)
	if err != nil {
		return nil, fault.Classify(err)
	}
	return customers, nil
}

func (s *Service) SalesByCity(ctx context.Context) ([]domain.CitySales, error) {
	sales, err := s.repo.SalesByCity(ctx)
	if err != nil {
		return nil, fault.Classify(err)
	}
	return sales, nil
}

func (s *Service) StockReport(ctx context.Context) ([]domain.StockReportRow, error) {
	rows, err := s.repo.StockReport(ctx)
	if err != nil {
		return nil, fault.Classify(err)
	}
	return rows, nil
}

func (s *Service) MonthlySales(ctx context.Context, year int) ([]domain.MonthlyProductSales, error) {
	if year < 1000 || year > 9999 {
		return nil, fault.New(fault.KindValidation, domain.ErrInvalidYear)
	}
	sales, err := s.repo.MonthlySales(ctx, year)
	if err != nil {
		return nil, fault.Classify(err)
	}
	return sales, nil
}

var _ ports.Service = (*Service)(nil)
