package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	"github.com/apexretail/catalog-server/internal/domains/catalog/ports"
)

var (
	_ ports.StoreRepository     = (*StoreRepository)(nil)
	_ ports.ProductRepository   = (*ProductRepository)(nil)
	_ ports.InventoryRepository = (*InventoryRepository)(nil)
)

// storeRecord maps the store aggregate to a relational table.
type storeRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;not null"`
	Address   string    `gorm:"column:address;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (storeRecord) TableName() string { return "stores" }

// productRecord maps the product aggregate. The SKU carries a database-level
// unique index.
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

// inventoryRecord maps a stock row. The (product_id, store_id) pair carries a
// composite unique index so at most one row exists per pair.
type inventoryRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	ProductID  int64     `gorm:"column:product_id;not null;uniqueIndex:idx_inventories_product_store"`
	StoreID    int64     `gorm:"column:store_id;not null;uniqueIndex:idx_inventories_product_store"`
	StockLevel int64     `gorm:"column:stock_level;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (inventoryRecord) TableName() string { return "inventories" }

// StoreRepository persists stores in PostgreSQL using GORM.
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository wires a PostgreSQL-backed store repository. Caller
// manages DB lifecycle.
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	repo := &StoreRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&storeRecord{})
	}
	return repo
}

// Save inserts or updates a store.
func (r *StoreRepository) Save(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if err := ensureDB(r.db, "store"); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	record := storeRecord{ID: store.ID, Name: store.Name, Address: store.Address}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a store by identifier.
func (r *StoreRepository) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	if err := ensureDB(r.db, "store"); err != nil {
		return nil, err
	}
	var record storeRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrStoreNotFound
		}
		return nil, err
	}
	return &domain.Store{ID: record.ID, Name: record.Name, Address: record.Address}, nil
}

// Exists reports whether a store row with the id is present.
func (r *StoreRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensureDB(r.db, "store"); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&storeRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProductRepository persists products in PostgreSQL using GORM.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository wires a PostgreSQL-backed product repository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	repo := &ProductRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

// Save inserts or updates a product. SKU collisions surface as
// ports.ErrProductConflict.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ensureDB(r.db, "product"); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrProductConflict
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := ensureDB(r.db, "product"); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByName fetches a product by exact (case-sensitive) name.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	if err := ensureDB(r.db, "product"); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Exists reports whether a product row with the id is present.
func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensureDB(r.db, "product"); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByStore returns products carrying at least one inventory row in the store.
func (r *ProductRepository) FindByStore(ctx context.Context, storeID int64) ([]*domain.Product, error) {
	return r.FindByStoreFiltered(ctx, storeID, ports.ProductFilter{})
}

// FindByStoreFiltered applies the optional name/category filter within the
// store. Name uses case-sensitive LIKE '%name%' semantics, category an exact
// match.
func (r *ProductRepository) FindByStoreFiltered(ctx context.Context, storeID int64, filter ports.ProductFilter) ([]*domain.Product, error) {
	if err := ensureDB(r.db, "product"); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&productRecord{}).
		Joins("JOIN inventories ON inventories.product_id = products.id").
		Where("inventories.store_id = ?", storeID).
		Order("products.id")
	if filter.Name != nil {
		query = query.Where("products.name LIKE ?", "%"+*filter.Name+"%")
	}
	if filter.Category != nil {
		query = query.Where("products.category = ?", *filter.Category)
	}
	var records []productRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// Delete removes a product row by identifier.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if err := ensureDB(r.db, "product"); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

// InventoryRepository persists stock rows in PostgreSQL using GORM.
type InventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository wires a PostgreSQL-backed inventory repository.
func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	repo := &InventoryRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&inventoryRecord{})
	}
	return repo
}

// Save inserts or updates a stock row. Pair collisions surface as
// ports.ErrInventoryConflict.
func (r *InventoryRepository) Save(ctx context.Context, inv *domain.Inventory) (*domain.Inventory, error) {
	if err := ensureDB(r.db, "inventory"); err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, errors.New("inventory is nil")
	}
	record := toInventoryRecord(inv)
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrInventoryConflict
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// FindByProductAndStore fetches the single stock row for the pair.
func (r *InventoryRepository) FindByProductAndStore(ctx context.Context, productID, storeID int64) (*domain.Inventory, error) {
	if err := ensureDB(r.db, "inventory"); err != nil {
		return nil, err
	}
	var record inventoryRecord
	err := r.db.WithContext(ctx).
		First(&record, "product_id = ? AND store_id = ?", productID, storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrInventoryNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// DeleteByProduct removes every stock row referencing the product.
func (r *InventoryRepository) DeleteByProduct(ctx context.Context, productID int64) error {
	if err := ensureDB(r.db, "inventory"); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&inventoryRecord{}).Error
}

func ensureDB(db *gorm.DB, name string) error {
	if db == nil {
		return errors.New("postgres " + name + " repository not configured")
	}
	return nil
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:       product.ID,
		Name:     product.Name,
		Category: product.Category,
		Price:    product.Price,
		SKU:      product.SKU,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:       r.ID,
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
		SKU:      r.SKU,
	}
}

func toInventoryRecord(inv *domain.Inventory) inventoryRecord {
	return inventoryRecord{
		ID:         inv.ID,
		ProductID:  inv.ProductID,
		StoreID:    inv.StoreID,
		StockLevel: inv.StockLevel,
	}
}

func (r inventoryRecord) toDomain() *domain.Inventory {
	return &domain.Inventory{
		ID:         r.ID,
		ProductID:  r.ProductID,
		StoreID:    r.StoreID,
		StockLevel: r.StockLevel,
	}
}
