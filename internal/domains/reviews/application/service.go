package application

import (
	"context"
	"errors"

	"github.com/apexretail/catalog-server/internal/domains/reviews/domain"
	"github.com/apexretail/catalog-server/internal/domains/reviews/ports"
)

// UnknownReviewer is the display name used when a review's customer row
// cannot be resolved.
const UnknownReviewer = "Unknown"

// Service implements the review use cases on top of a repository and a
// customer directory owned by the orders context.
type Service struct {
	repo      ports.Repository
	customers ports.CustomerDirectory
}

// NewService wires the reviews service with its dependencies.
func NewService(repo ports.Repository, customers ports.CustomerDirectory) *Service {
	return &Service{repo: repo, customers: customers}
}

// AddReview validates and persists a review.
func (s *Service) AddReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if review == nil {
		return nil, errors.New("review is nil")
	}
	if err := review.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, review)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// ListReviews projects the reviews for a (store, product) pair, resolving
// reviewer names through the customer directory.
func (s *Service) ListReviews(ctx context.Context, storeID, productID int64) ([]ports.ReviewView, error) {
	reviews, err := s.repo.FindByStoreAndProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	views := make([]ports.ReviewView, 0, len(reviews))
	for _, review := range reviews {
		views = append(views, ports.ReviewView{
			Rating:       review.Rating,
			Comment:      review.Comment,
			CustomerName: s.reviewerName(ctx, review.CustomerID),
		})
	}
	return views, nil
}

func (s *Service) reviewerName(ctx context.Context, customerID int64) string {
	if s.customers == nil || customerID <= 0 {
		return UnknownReviewer
	}
	name, err := s.customers.NameByID(ctx, customerID)
	if err != nil || name == "" {
		return UnknownReviewer
	}
	return name
}

var _ ports.Service = (*Service)(nil)
