package ports

import (
	"context"

	"github.com/apexretail/catalog-server/internal/domains/catalog/domain"
)

// UpdateStockInput carries the PUT /inventory payload: the referenced
// product plus the stock row to overwrite.
type UpdateStockInput struct {
	ProductID  int64
	StoreID    int64
	StockLevel int64
}

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateStore(ctx context.Context, store *domain.Store) (*domain.Store, error)
	StoreExists(ctx context.Context, storeID int64) (bool, error)

	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	ProductExists(ctx context.Context, productID int64) (bool, error)
	ProductNameAvailable(ctx context.Context, name string) (bool, error)

	CreateInventory(ctx context.Context, inv *domain.Inventory) (*domain.Inventory, error)
	UpdateStock(ctx context.Context, input UpdateStockInput) (*domain.Inventory, error)
	LookupInventory(ctx context.Context, productID, storeID int64) (*domain.Inventory, error)
	InventoryPairAvailable(ctx context.Context, productID, storeID int64) (bool, error)
	CheckAvailability(ctx context.Context, productID, storeID, quantity int64) (bool, error)
	RemoveProduct(ctx context.Context, productID int64) error

	ProductsForStore(ctx context.Context, storeID int64) ([]*domain.Product, error)
	Filter(ctx context.Context, storeID int64, filter ProductFilter) ([]*domain.Product, error)
	SearchByName(ctx context.Context, storeID int64, name string) ([]*domain.Product, error)
}
