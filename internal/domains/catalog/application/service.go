package application

import (
	"context"
	"errors"

	"github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	"github.com/apexretail/catalog-server/internal/domains/catalog/ports"
)

// Service orchestrates the catalog bounded context use cases: stores,
// products, and per-store inventory rows.
type Service struct {
	stores           ports.StoreRepository
	products         ports.ProductRepository
	inventory        ports.InventoryRepository
	deleteProductRow bool
}

type Option func(*Service)

// WithProductRowDeletion makes RemoveProduct delete the product row after
// cascading its inventory. The upstream contract only removes inventory, so
// this stays off unless explicitly enabled.
func WithProductRowDeletion(enabled bool) Option {
	return func(s *Service) {
		s.deleteProductRow = enabled
	}
}

// NewService wires the catalog service with its repositories.
func NewService(stores ports.StoreRepository, products ports.ProductRepository, inventory ports.InventoryRepository, opts ...Option) *Service {
	s := &Service{stores: stores, products: products, inventory: inventory}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateStore persists a new store.
func (s *Service) CreateStore(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if err := store.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.stores.Save(ctx, store)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// StoreExists reports whether a store with the given id is persisted.
func (s *Service) StoreExists(ctx context.Context, storeID int64) (bool, error) {
	return s.stores.Exists(ctx, storeID)
}

// CreateProduct persists a new product after checking name availability.
// SKU collisions surface from the repository as ErrProductConflict.
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	available, err := s.ProductNameAvailable(ctx, product.Name)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ports.ErrProductConflict
	}
	saved, err := s.products.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProduct overwrites an existing product.
func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	exists, err := s.products.Exists(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ports.ErrProductNotFound
	}
	saved, err := s.products.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetProduct loads a single product.
func (s *Service) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, productID)
}

// ProductExists reports whether a product with the given id is persisted.
func (s *Service) ProductExists(ctx context.Context, productID int64) (bool, error) {
	return s.products.Exists(ctx, productID)
}

// ProductNameAvailable reports whether no existing product carries the name.
// The match is case-sensitive.
func (s *Service) ProductNameAvailable(ctx context.Context, name string) (bool, error) {
	_, err := s.products.GetByName(ctx, name)
	if errors.Is(err, ports.ErrProductNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// CreateInventory persists a stock row for a (product, store) pair that does
// not have one yet.
func (s *Service) CreateInventory(ctx context.Context, inv *domain.Inventory) (*domain.Inventory, error) {
	if inv == nil {
		return nil, errors.New("inventory is nil")
	}
	if err := inv.Validate(); err != nil {
		return nil, mapError(err)
	}
	available, err := s.InventoryPairAvailable(ctx, inv.ProductID, inv.StoreID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ports.ErrInventoryConflict
	}
	saved, err := s.inventory.Save(ctx, inv)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateStock overwrites the stock level of an existing inventory row. The
// row is never created implicitly; that is CreateInventory's job.
func (s *Service) UpdateStock(ctx context.Context, input ports.UpdateStockInput) (*domain.Inventory, error) {
	exists, err := s.products.Exists(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ports.ErrProductNotFound
	}
	existing, err := s.inventory.FindByProductAndStore(ctx, input.ProductID, input.StoreID)
	if err != nil {
		return nil, err
	}
	if err := existing.SetStock(input.StockLevel); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.inventory.Save(ctx, existing)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// LookupInventory fetches the stock row for a (product, store) pair.
func (s *Service) LookupInventory(ctx context.Context, productID, storeID int64) (*domain.Inventory, error) {
	return s.inventory.FindByProductAndStore(ctx, productID, storeID)
}

// InventoryPairAvailable reports whether no stock row exists for the pair.
func (s *Service) InventoryPairAvailable(ctx context.Context, productID, storeID int64) (bool, error) {
	_, err := s.inventory.FindByProductAndStore(ctx, productID, storeID)
	if errors.Is(err, ports.ErrInventoryNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// CheckAvailability is an advisory snapshot read: true iff a row exists for
// the pair and holds at least quantity units. It is not a reservation.
func (s *Service) CheckAvailability(ctx context.Context, productID, storeID, quantity int64) (bool, error) {
	inv, err := s.inventory.FindByProductAndStore(ctx, productID, storeID)
	if errors.Is(err, ports.ErrInventoryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return inv.CanFulfill(quantity), nil
}

// RemoveProduct cascades deletion of every inventory row referencing the
// product. The product row itself is only removed when the service was
// built with WithProductRowDeletion.
func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return ports.ErrProductNotFound
	}
	if err := s.inventory.DeleteByProduct(ctx, productID); err != nil {
		return err
	}
	if s.deleteProductRow {
		if err := s.products.Delete(ctx, productID); err != nil {
			return err
		}
	}
	return nil
}

// ProductsForStore lists products with at least one inventory row in the store.
func (s *Service) ProductsForStore(ctx context.Context, storeID int64) ([]*domain.Product, error) {
	return s.products.FindByStore(ctx, storeID)
}

// Filter applies the optional category/name filter within the store. An
// empty filter is equivalent to ProductsForStore.
func (s *Service) Filter(ctx context.Context, storeID int64, filter ports.ProductFilter) ([]*domain.Product, error) {
	return s.products.FindByStoreFiltered(ctx, storeID, filter)
}

// SearchByName matches products in the store whose name contains the term.
func (s *Service) SearchByName(ctx context.Context, storeID int64, name string) ([]*domain.Product, error) {
	return s.products.FindByStoreFiltered(ctx, storeID, ports.ProductFilter{Name: &name})
}

var _ ports.Service = (*Service)(nil)
