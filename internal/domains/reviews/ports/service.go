package ports

import (
	"context"

	"github.com/apexretail/catalog-server/internal/domains/reviews/domain"
)

// ReviewView is the read-side projection of a review; CustomerName falls
// back to "Unknown" when the reviewer cannot be resolved.
type ReviewView struct {
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CustomerName string `json:"customerName"`
}

// Service exposes the review use cases.
type Service interface {
	AddReview(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ListReviews(ctx context.Context, storeID, productID int64) ([]ReviewView, error)
}
