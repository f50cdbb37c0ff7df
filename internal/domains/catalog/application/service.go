package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/averost/commerce-api/internal/domains/catalog/domain"
	"github.com/averost/commerce-api/internal/domains/catalog/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

// Service implements catalog use cases on top of a repository.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in domain.NewProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, mapError(err)
	}
	now := time.Now().UTC()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		SKU:         strings.TrimSpace(in.SKU),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, mapError(err)
	}
	return &product, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	product, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error) {
	if err := update.Validate(); err != nil {
		return nil, mapError(err)
	}
	product, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptySKU),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrNegativeStock),
		errors.Is(err, domain.ErrEmptyUpdate):
		return fault.New(fault.KindValidation, err)
	case errors.Is(err, ports.ErrProductNotFound):
		return fault.New(fault.KindNotFound, err)
	case errors.Is(err, ports.ErrSKUTaken):
		return fault.New(fault.KindConflict, err)
	}
	return fault.Classify(err)
}

var _ ports.Service = (*Service)(nil)
