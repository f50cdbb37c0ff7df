package migrations

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&customerRecord{},
		&dataRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;type:uuid"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Stock       int64           `gorm:"column:stock;check:stock >= 0"`
	Category    string          `gorm:"column:category;index"`
	SKU         string          `gorm:"column:sku;uniqueIndex"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter. Orders are written
// once inside the coordinator transaction and never updated.
type orderRecord struct {
	ID         string          `gorm:"primaryKey;column:id;type:uuid"`
	CustomerID string          `gorm:"column:customer_id;type:uuid;index"`
	ProductID  string          `gorm:"column:product_id;type:uuid;index"`
	Quantity   int64           `gorm:"column:quantity"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2)"`
	City       string          `gorm:"column:city;index"`
	CreatedAt  time.Time       `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// Customer schema carries the denormalized purchase aggregate updated by
// the coordinator.
type customerRecord struct {
	ID               string          `gorm:"primaryKey;column:id;type:uuid"`
	Name             string          `gorm:"column:name"`
	Email            string          `gorm:"column:email;uniqueIndex"`
	TotalPurchases   decimal.Decimal `gorm:"column:total_purchases;type:numeric(14,2)"`
	LastPurchaseDate *time.Time      `gorm:"column:last_purchase_date"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Data record schema for the sequential code generator. Allocation
// serializes on an advisory lock; the unique index on running_number
// backstops writers that bypass the generator.
type dataRecord struct {
	ID            string          `gorm:"primaryKey;column:id;type:uuid"`
	UniqueCode    string          `gorm:"column:unique_code;uniqueIndex"`
	RunningNumber int64           `gorm:"column:running_number;uniqueIndex"`
	Payload       json.RawMessage `gorm:"column:payload;type:jsonb"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (dataRecord) TableName() string { return "data_records" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:uuid"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
