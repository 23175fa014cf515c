package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	"github.com/apexretail/catalog-server/internal/domains/catalog/ports"
)

var (
	_ ports.StoreRepository     = (*StoreRepository)(nil)
	_ ports.ProductRepository   = (*ProductRepository)(nil)
	_ ports.InventoryRepository = (*InventoryRepository)(nil)
)

// StoreRepository is an in-memory store persistence adapter.
type StoreRepository struct {
	mu     sync.RWMutex
	stores map[int64]*domain.Store
	nextID int64
}

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{stores: map[int64]*domain.Store{}}
}

func (r *StoreRepository) Save(_ context.Context, store *domain.Store) (*domain.Store, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	clone := *store
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.stores[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *StoreRepository) GetByID(_ context.Context, id int64) (*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[id]
	if !ok {
		return nil, ports.ErrStoreNotFound
	}
	clone := *store
	return &clone, nil
}

func (r *StoreRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.stores[id]
	return ok, nil
}

// ProductRepository is an in-memory product persistence adapter. It shares
// the inventory repository to answer store-scoped queries.
type ProductRepository struct {
	mu        sync.RWMutex
	products  map[int64]*domain.Product
	inventory *InventoryRepository
	nextID    int64
}

func NewProductRepository(inventory *InventoryRepository) *ProductRepository {
	return &ProductRepository{products: map[int64]*domain.Product{}, inventory: inventory}
}

func (r *ProductRepository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.SKU == clone.SKU && existing.ID != clone.ID {
			return nil, ports.ErrProductConflict
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.products[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *ProductRepository) GetByName(_ context.Context, name string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, product := range r.products {
		if product.Name == name {
			clone := *product
			return &clone, nil
		}
	}
	return nil, ports.ErrProductNotFound
}

func (r *ProductRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.products[id]
	return ok, nil
}

func (r *ProductRepository) FindByStore(ctx context.Context, storeID int64) ([]*domain.Product, error) {
	return r.FindByStoreFiltered(ctx, storeID, ports.ProductFilter{})
}

func (r *ProductRepository) FindByStoreFiltered(_ context.Context, storeID int64, filter ports.ProductFilter) ([]*domain.Product, error) {
	if r.inventory == nil {
		return nil, errors.New("memory product repository has no inventory view")
	}
	stocked := r.inventory.productIDsForStore(storeID)
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Product, 0, len(stocked))
	for _, productID := range stocked {
		product, ok := r.products[productID]
		if !ok {
			continue
		}
		if filter.Name != nil && !strings.Contains(product.Name, *filter.Name) {
			continue
		}
		if filter.Category != nil && product.Category != *filter.Category {
			continue
		}
		clone := *product
		result = append(result, &clone)
	}
	return result, nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// InventoryRepository is an in-memory stock-row persistence adapter.
type InventoryRepository struct {
	mu     sync.RWMutex
	rows   map[int64]*domain.Inventory
	nextID int64
}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{rows: map[int64]*domain.Inventory{}}
}

func (r *InventoryRepository) Save(_ context.Context, inv *domain.Inventory) (*domain.Inventory, error) {
	if inv == nil {
		return nil, errors.New("inventory is nil")
	}
	clone := *inv
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.ProductID == clone.ProductID && existing.StoreID == clone.StoreID && existing.ID != clone.ID {
			return nil, ports.ErrInventoryConflict
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.rows[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *InventoryRepository) FindByProductAndStore(_ context.Context, productID, storeID int64) (*domain.Inventory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.rows {
		if row.ProductID == productID && row.StoreID == storeID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, ports.ErrInventoryNotFound
}

func (r *InventoryRepository) DeleteByProduct(_ context.Context, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.ProductID == productID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *InventoryRepository) productIDsForStore(storeID int64) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.rows))
	for _, row := range r.rows {
		if row.StoreID == storeID {
			ids = append(ids, row.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
