package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository places and loads orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order repository. Caller manages
// DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

// orderRecord maps the order header to a relational table.
type orderRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	StoreID    int64     `gorm:"column:store_id;not null;index"`
	CustomerID int64     `gorm:"column:customer_id;not null;index"`
	TotalPrice float64   `gorm:"column:total_price;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord maps one immutable order line.
type orderItemRecord struct {
	ID        int64   `gorm:"primaryKey;column:id"`
	OrderID   int64   `gorm:"column:order_id;not null;index"`
	ProductID int64   `gorm:"column:product_id;not null;index"`
	Quantity  int64   `gorm:"column:quantity;not null"`
	UnitPrice float64 `gorm:"column:unit_price;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// inventoryRow is the orders-side view of the catalog's stock table, used
// only for the locked decrement.
type inventoryRow struct {
	ID         int64 `gorm:"primaryKey;column:id"`
	ProductID  int64 `gorm:"column:product_id"`
	StoreID    int64 `gorm:"column:store_id"`
	StockLevel int64 `gorm:"column:stock_level"`
}

func (inventoryRow) TableName() string { return "inventories" }

// productRow is the orders-side view of the product table, used for the
// price snapshot.
type productRow struct {
	ID    int64   `gorm:"primaryKey;column:id"`
	Price float64 `gorm:"column:price"`
}

func (productRow) TableName() string { return "products" }

// Place runs the reservation protocol in one serializable transaction:
// store check, customer resolution, per-line locked decrement in ascending
// product-id order, price snapshot, then the header and item inserts.
// Any failure rolls the whole transaction back.
func (r *Repository) Place(ctx context.Context, draft *domain.Draft) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, errors.New("order draft is nil")
	}
	lines, err := draft.Normalize()
	if err != nil {
		return nil, err
	}

	var placed *domain.Order
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var storeCount int64
		if err := tx.Table("stores").Where("id = ?", draft.StoreID).Count(&storeCount).Error; err != nil {
			return err
		}
		if storeCount == 0 {
			return ports.ErrStoreNotFound
		}

		customerID, err := resolveCustomer(tx, draft)
		if err != nil {
			return err
		}

		items := make([]orderItemRecord, 0, len(lines))
		var total float64
		for _, line := range lines {
			var inv inventoryRow
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&inv, "product_id = ? AND store_id = ?", line.ProductID, draft.StoreID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d is not stocked at store %d",
					ports.ErrInsufficientStock, line.ProductID, draft.StoreID)
			}
			if err != nil {
				return err
			}
			if inv.StockLevel < line.Quantity {
				return fmt.Errorf("%w: product %d has %d unit(s) left, %d requested",
					ports.ErrInsufficientStock, line.ProductID, inv.StockLevel, line.Quantity)
			}
			if err := tx.Model(&inventoryRow{}).Where("id = ?", inv.ID).
				Update("stock_level", inv.StockLevel-line.Quantity).Error; err != nil {
				return err
			}

			var product productRow
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d no longer exists",
						ports.ErrInsufficientStock, line.ProductID)
				}
				return err
			}
			items = append(items, orderItemRecord{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
			total += float64(line.Quantity) * product.Price
		}

		header := orderRecord{
			StoreID:    draft.StoreID,
			CustomerID: customerID,
			TotalPrice: total,
			CreatedAt:  time.Now().UTC(),
		}
		if err := tx.Create(&header).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = header.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		placed = toDomainOrder(header, items)
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// GetByID fetches an order header with its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var header orderRecord
	if err := r.db.WithContext(ctx).First(&header, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&items, "order_id = ?", id).Error; err != nil {
		return nil, err
	}
	return toDomainOrder(header, items), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

// resolveCustomer returns the id of the ordering customer: an explicit id is
// verified, otherwise the customer is upserted by email.
func resolveCustomer(tx *gorm.DB, draft *domain.Draft) (int64, error) {
	if draft.CustomerID > 0 {
		var count int64
		if err := tx.Model(&customerRecord{}).Where("id = ?", draft.CustomerID).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, ports.ErrCustomerNotFound
		}
		return draft.CustomerID, nil
	}

	email := strings.TrimSpace(draft.Customer.Email)
	var existing customerRecord
	err := tx.First(&existing, "email = ?", email).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	created := customerRecord{
		Name:  draft.Customer.Name,
		Email: emailColumn(email),
		Phone: draft.Customer.Phone,
	}
	if err := tx.Create(&created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ports.ErrCustomerConflict
		}
		return 0, err
	}
	return created.ID, nil
}

func toDomainOrder(header orderRecord, items []orderItemRecord) *domain.Order {
	order := &domain.Order{
		ID:         header.ID,
		StoreID:    header.StoreID,
		CustomerID: header.CustomerID,
		TotalPrice: header.TotalPrice,
		CreatedAt:  header.CreatedAt,
		Items:      make([]domain.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order
}
