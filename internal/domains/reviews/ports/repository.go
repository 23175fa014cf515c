package ports

import (
	"context"
	"errors"

	"github.com/apexretail/catalog-server/internal/domains/reviews/domain"
)

var ErrReviewNotFound = errors.New("review not found")

// Repository persists reviews.
type Repository interface {
	Save(ctx context.Context, review *domain.Review) (*domain.Review, error)
	// FindByStoreAndProduct returns reviews for the pair in insertion order.
	FindByStoreAndProduct(ctx context.Context, storeID, productID int64) ([]*domain.Review, error)
}

// CustomerDirectory resolves reviewer display names. Implementations return
// ErrCustomerUnknown when no customer carries the id; callers substitute a
// placeholder name rather than failing the read.
type CustomerDirectory interface {
	NameByID(ctx context.Context, id int64) (string, error)
}

// ErrCustomerUnknown signals the directory holds no entry for the id.
var ErrCustomerUnknown = errors.New("customer unknown")
