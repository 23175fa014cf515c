package ports

import (
	"context"
	"errors"

	"github.com/apexretail/catalog-server/internal/domains/catalog/domain"
)

var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInventoryNotFound = errors.New("inventory row not found")
	// ErrProductConflict signals a name or SKU collision with an existing product.
	ErrProductConflict = errors.New("product already present")
	// ErrInventoryConflict signals a second row for the same (product, store) pair.
	ErrInventoryConflict = errors.New("inventory row already present")
)

// ProductFilter narrows store-scoped product queries. Nil fields are absent;
// Name is matched as a case-sensitive substring, Category as an exact value.
type ProductFilter struct {
	Category *string
	Name     *string
}

// StoreRepository persists stores.
type StoreRepository interface {
	Save(ctx context.Context, store *domain.Store) (*domain.Store, error)
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// ProductRepository persists products. Save surfaces ErrProductConflict on
// SKU collisions.
type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// FindByStore returns products with at least one inventory row in the store.
	FindByStore(ctx context.Context, storeID int64) ([]*domain.Product, error)
	// FindByStoreFiltered applies the filter within the store; an empty filter
	// is equivalent to FindByStore.
	FindByStoreFiltered(ctx context.Context, storeID int64, filter ProductFilter) ([]*domain.Product, error)
	// Delete removes the product row.
	Delete(ctx context.Context, id int64) error
}

// InventoryRepository persists per-store stock rows. Save surfaces
// ErrInventoryConflict when a row for the same (product, store) pair exists.
type InventoryRepository interface {
	Save(ctx context.Context, inv *domain.Inventory) (*domain.Inventory, error)
	FindByProductAndStore(ctx context.Context, productID, storeID int64) (*domain.Inventory, error)
	// DeleteByProduct removes every row referencing the product (cascade).
	DeleteByProduct(ctx context.Context, productID int64) error
}
