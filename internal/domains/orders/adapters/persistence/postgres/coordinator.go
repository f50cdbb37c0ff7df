package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/averost/commerce-api/internal/domains/orders/domain"
	"github.com/averost/commerce-api/internal/domains/orders/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

var _ ports.Coordinator = (*Coordinator)(nil)

// DefaultLockWait bounds how long a purchase waits for the product row
// lock before rolling back with a transient failure.
const DefaultLockWait = 3 * time.Second

// Coordinator runs the purchase transaction against PostgreSQL using
// GORM. All coordination is expressed through the product row lock; the
// struct itself holds no mutable state.
type Coordinator struct {
	db       *gorm.DB
	lockWait time.Duration
}

// NewCoordinator wires a PostgreSQL-backed coordinator. Caller manages
// DB lifecycle.
func NewCoordinator(db *gorm.DB, lockWait time.Duration) *Coordinator {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &Coordinator{db: db, lockWait: lockWait}
}

type productRecord struct {
	ID        string          `gorm:"primaryKey;column:id;type:uuid"`
	Name      string          `gorm:"column:name"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Stock     int64           `gorm:"column:stock"`
	SKU       string          `gorm:"column:sku"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type orderRecord struct {
	ID         string          `gorm:"primaryKey;column:id;type:uuid"`
	CustomerID string          `gorm:"column:customer_id;type:uuid"`
	ProductID  string          `gorm:"column:product_id;type:uuid"`
	Quantity   int64           `gorm:"column:quantity"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2)"`
	City       string          `gorm:"column:city"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

type customerRecord struct {
	ID string `gorm:"primaryKey;column:id;type:uuid"`
}

func (customerRecord) TableName() string { return "customers" }

// PlaceOrder executes the purchase as one transaction:
// locking read on the product row, stock guard, stock decrement, order
// insert, customer aggregate update. Concurrent purchases of the same
// product serialize on the row lock; different products proceed
// independently. Any failure rolls back every write.
func (c *Coordinator) PlaceOrder(ctx context.Context, req domain.PurchaseRequest) (*domain.Receipt, error) {
	if err := c.ensureDB(); err != nil {
		return nil, err
	}
	var receipt *domain.Receipt
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SET LOCAL scopes the lock-wait bound to this transaction; the
		// value is an integer so string formatting is safe here.
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", c.lockWait.Milliseconds())).Error; err != nil {
			return fault.Classify(err)
		}

		var product productRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrProductNotFound
			}
			return fault.Classify(err)
		}
		if product.Stock < req.Quantity {
			return ports.ErrInsufficientStock
		}

		// Price observed under the lock; never a cached value.
		total := product.Price.Mul(decimal.NewFromInt(req.Quantity))
		now := time.Now().UTC()

		// The stock >= quantity predicate restates the guard in SQL so a
		// logic regression above can never drive stock negative.
		res := tx.Model(&productRecord{}).
			Where("id = ? AND stock >= ?", req.ProductID, req.Quantity).
			UpdateColumns(map[string]any{
				"stock":      gorm.Expr("stock - ?", req.Quantity),
				"updated_at": now,
			})
		if res.Error != nil {
			return fault.Classify(res.Error)
		}
		if res.RowsAffected == 0 {
			return ports.ErrInsufficientStock
		}

		order := orderRecord{
			ID:         uuid.NewString(),
			CustomerID: req.CustomerID,
			ProductID:  req.ProductID,
			Quantity:   req.Quantity,
			TotalPrice: total,
			City:       req.City,
			CreatedAt:  now,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fault.Classify(err)
		}

		cust := tx.Model(&customerRecord{}).
			Where("id = ?", req.CustomerID).
			UpdateColumns(map[string]any{
				"total_purchases":    gorm.Expr("COALESCE(total_purchases, 0) + ?", total),
				"last_purchase_date": now,
			})
		if cust.Error != nil {
			return fault.Classify(cust.Error)
		}
		if cust.RowsAffected == 0 {
			return ports.ErrCustomerNotFound
		}

		receipt = &domain.Receipt{
			Order: domain.Order{
				ID:         order.ID,
				CustomerID: order.CustomerID,
				ProductID:  order.ProductID,
				Quantity:   order.Quantity,
				TotalPrice: order.TotalPrice,
				City:       order.City,
				CreatedAt:  order.CreatedAt,
			},
			Product: domain.ProductSnapshot{
				ID:    product.ID,
				Name:  product.Name,
				Price: product.Price,
				Stock: product.Stock - req.Quantity,
				SKU:   product.SKU,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (c *Coordinator) ensureDB() error {
	if c == nil || c.db == nil {
		return errors.New("postgres order coordinator not configured")
	}
	return nil
}
