package domain

import "errors"

var (
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrInvalidStoreRef  = errors.New("review must reference a store")
	ErrInvalidProduct   = errors.New("review must reference a product")
)

// Review is a customer's rating of a product at a specific store. Reviews
// outlive the product they reference; removing a product never cascades here.
type Review struct {
	ID         int64
	StoreID    int64
	ProductID  int64
	CustomerID int64
	Rating     int
	Comment    string
}

// NewReview validates and constructs a Review.
func NewReview(storeID, productID, customerID int64, rating int, comment string) (*Review, error) {
	review := &Review{
		StoreID:    storeID,
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	return review, nil
}

// Validate enforces invariants on the review.
func (r *Review) Validate() error {
	if r.StoreID <= 0 {
		return ErrInvalidStoreRef
	}
	if r.ProductID <= 0 {
		return ErrInvalidProduct
	}
	if r.Rating < 1 || r.Rating > 5 {
		return ErrRatingOutOfRange
	}
	return nil
}
