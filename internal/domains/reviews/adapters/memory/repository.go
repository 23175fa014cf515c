package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/apexretail/catalog-server/internal/domains/reviews/domain"
	"github.com/apexretail/catalog-server/internal/domains/reviews/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory review persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	reviews []*domain.Review
	nextID  int64
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Save(_ context.Context, review *domain.Review) (*domain.Review, error) {
	if review == nil {
		return nil, errors.New("review is nil")
	}
	clone := *review
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
	r.reviews = append(r.reviews, &clone)
	result := clone
	return &result, nil
}

func (r *Repository) FindByStoreAndProduct(_ context.Context, storeID, productID int64) ([]*domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Review
	for _, review := range r.reviews {
		if review.StoreID == storeID && review.ProductID == productID {
			clone := *review
			out = append(out, &clone)
		}
	}
	return out, nil
}
