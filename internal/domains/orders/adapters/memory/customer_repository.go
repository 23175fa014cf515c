package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository is an in-memory customer persistence adapter.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[int64]*domain.Customer
	nextID    int64
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: map[int64]*domain.Customer{}}
}

func (r *CustomerRepository) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	clone := *customer
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.Email != "" {
		for _, existing := range r.customers {
			if existing.Email == clone.Email && existing.ID != clone.ID {
				return nil, ports.ErrCustomerConflict
			}
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.customers[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *CustomerRepository) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrCustomerNotFound
	}
	clone := *customer
	return &clone, nil
}

func (r *CustomerRepository) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, customer := range r.customers {
		if customer.Email == email {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, ports.ErrCustomerNotFound
}
