package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&storeRecord{},
		&productRecord{},
		&inventoryRecord{},
		&customerRecord{},
		&reviewRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyRecord{},
	)
}

// Store schema mirrors the catalog Postgres adapter.
type storeRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;not null"`
	Address   string    `gorm:"column:address;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (storeRecord) TableName() string { return "stores" }

// Product schema mirrors the catalog Postgres adapter; SKU is unique
// database-wide.
type productRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;not null;index"`
	Category  string    `gorm:"column:category;not null;index"`
	Price     float64   `gorm:"column:price;not null"`
	SKU       string    `gorm:"column:sku;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Inventory schema; at most one row per (product, store) pair.
type inventoryRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	ProductID  int64     `gorm:"column:product_id;not null;uniqueIndex:idx_inventories_product_store"`
	StoreID    int64     `gorm:"column:store_id;not null;uniqueIndex:idx_inventories_product_store"`
	StockLevel int64     `gorm:"column:stock_level;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (inventoryRecord) TableName() string { return "inventories" }

// Customer schema mirrors the orders Postgres adapter.
type customerRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;not null"`
	Email     *string   `gorm:"column:email;uniqueIndex"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Review schema mirrors the reviews Postgres adapter.
type reviewRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	StoreID    int64     `gorm:"column:store_id;not null;index:idx_reviews_store_product"`
	ProductID  int64     `gorm:"column:product_id;not null;index:idx_reviews_store_product"`
	CustomerID int64     `gorm:"column:customer_id"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reviewRecord) TableName() string { return "reviews" }

// Order header schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	StoreID    int64     `gorm:"column:store_id;not null;index"`
	CustomerID int64     `gorm:"column:customer_id;not null;index"`
	TotalPrice float64   `gorm:"column:total_price;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// Order line schema; rows are immutable once written.
type orderItemRecord struct {
	ID        int64   `gorm:"primaryKey;column:id"`
	OrderID   int64   `gorm:"column:order_id;not null;index"`
	ProductID int64   `gorm:"column:product_id;not null;index"`
	Quantity  int64   `gorm:"column:quantity;not null"`
	UnitPrice float64 `gorm:"column:unit_price;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Idempotency key schema for replayed order placements.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }
