package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	catalogmemory "github.com/apexretail/catalog-server/internal/domains/catalog/adapters/memory"
	catalogports "github.com/apexretail/catalog-server/internal/domains/catalog/ports"
	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order placement adapter. It leans on the
// catalog memory adapters for stores, products, and stock rows, and
// serializes placements with its own lock so a failed draft never leaves a
// partial decrement behind.
type Repository struct {
	mu        sync.Mutex
	stores    *catalogmemory.StoreRepository
	products  *catalogmemory.ProductRepository
	inventory *catalogmemory.InventoryRepository
	customers *CustomerRepository
	orders    map[int64]*domain.Order
	nextID    int64
}

// NewRepository wires the in-memory order repository to the catalog views it
// reserves stock against.
func NewRepository(stores *catalogmemory.StoreRepository, products *catalogmemory.ProductRepository, inventory *catalogmemory.InventoryRepository, customers *CustomerRepository) *Repository {
	return &Repository{
		stores:    stores,
		products:  products,
		inventory: inventory,
		customers: customers,
		orders:    map[int64]*domain.Order{},
	}
}

// Place mirrors the Postgres reservation protocol: validate everything
// first, then decrement and persist, all under one lock.
func (r *Repository) Place(ctx context.Context, draft *domain.Draft) (*domain.Order, error) {
	if draft == nil {
		return nil, errors.New("order draft is nil")
	}
	lines, err := draft.Normalize()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := r.stores.Exists(ctx, draft.StoreID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ports.ErrStoreNotFound
	}

	customerID, err := r.resolveCustomer(ctx, draft)
	if err != nil {
		return nil, err
	}

	// Validation pass: nothing is decremented until every line clears.
	type reservation struct {
		line  domain.Line
		price float64
	}
	reservations := make([]reservation, 0, len(lines))
	for _, line := range lines {
		row, err := r.inventory.FindByProductAndStore(ctx, line.ProductID, draft.StoreID)
		if errors.Is(err, catalogports.ErrInventoryNotFound) {
			return nil, fmt.Errorf("%w: product %d is not stocked at store %d",
				ports.ErrInsufficientStock, line.ProductID, draft.StoreID)
		}
		if err != nil {
			return nil, err
		}
		if row.StockLevel < line.Quantity {
			return nil, fmt.Errorf("%w: product %d has %d unit(s) left, %d requested",
				ports.ErrInsufficientStock, line.ProductID, row.StockLevel, line.Quantity)
		}
		product, err := r.products.GetByID(ctx, line.ProductID)
		if errors.Is(err, catalogports.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: product %d no longer exists", ports.ErrInsufficientStock, line.ProductID)
		}
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation{line: line, price: product.Price})
	}

	// Apply pass.
	r.nextID++
	order := &domain.Order{
		ID:         r.nextID,
		StoreID:    draft.StoreID,
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
	}
	for i, res := range reservations {
		row, err := r.inventory.FindByProductAndStore(ctx, res.line.ProductID, draft.StoreID)
		if err != nil {
			return nil, err
		}
		if err := row.SetStock(row.StockLevel - res.line.Quantity); err != nil {
			return nil, err
		}
		if _, err := r.inventory.Save(ctx, row); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, domain.OrderItem{
			ID:        int64(i + 1),
			OrderID:   order.ID,
			ProductID: res.line.ProductID,
			Quantity:  res.line.Quantity,
			UnitPrice: res.price,
		})
	}
	order.TotalPrice = order.Total()
	clone := cloneOrder(order)
	r.orders[order.ID] = clone
	return cloneOrder(clone), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) resolveCustomer(ctx context.Context, draft *domain.Draft) (int64, error) {
	if r.customers == nil {
		return 0, errors.New("memory order repository has no customer view")
	}
	if draft.CustomerID > 0 {
		if _, err := r.customers.GetByID(ctx, draft.CustomerID); err != nil {
			return 0, err
		}
		return draft.CustomerID, nil
	}
	existing, err := r.customers.GetByEmail(ctx, draft.Customer.Email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, ports.ErrCustomerNotFound) {
		return 0, err
	}
	created, err := r.customers.Save(ctx, &domain.Customer{
		Name:  draft.Customer.Name,
		Email: draft.Customer.Email,
		Phone: draft.Customer.Phone,
	})
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}
