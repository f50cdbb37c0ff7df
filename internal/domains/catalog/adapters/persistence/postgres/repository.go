package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/averost/commerce-api/internal/domains/catalog/domain"
	"github.com/averost/commerce-api/internal/domains/catalog/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog products in PostgreSQL through GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;type:uuid"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Stock       int64           `gorm:"column:stock"`
	Category    string          `gorm:"column:category"`
	SKU         string          `gorm:"column:sku"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func (r *Repository) Create(ctx context.Context, product domain.Product) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if fault.IsConflict(err) {
			return ports.ErrSKUTaken
		}
		return fault.Classify(err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []productRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fault.Classify(err)
	}
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, toDomain(row))
	}
	return products, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *Repository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.getOne(ctx, "sku = ?", sku)
}

func (r *Repository) getOne(ctx context.Context, query string, arg string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var row productRecord
	if err := r.db.WithContext(ctx).Take(&row, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, fault.Classify(err)
	}
	product := toDomain(row)
	return &product, nil
}

// Update applies a partial update and returns the stored row. Only the
// fields present in the update are written.
func (r *Repository) Update(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	columns := map[string]any{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		columns["name"] = *update.Name
	}
	if update.Description != nil {
		columns["description"] = *update.Description
	}
	if update.Price != nil {
		columns["price"] = *update.Price
	}
	if update.Stock != nil {
		columns["stock"] = *update.Stock
	}
	if update.Category != nil {
		columns["category"] = *update.Category
	}

	res := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ?", id).
		UpdateColumns(columns)
	if res.Error != nil {
		return nil, fault.Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ports.ErrProductNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if res.Error != nil {
		return fault.Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func toRecord(p domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		SKU:         p.SKU,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toDomain(row productRecord) domain.Product {
	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		Stock:       row.Stock,
		Category:    row.Category,
		SKU:         row.SKU,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}
