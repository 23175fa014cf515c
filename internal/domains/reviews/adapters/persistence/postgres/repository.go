package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/apexretail/catalog-server/internal/domains/reviews/domain"
	"github.com/apexretail/catalog-server/internal/domains/reviews/ports"
)

var _ ports.Repository = (*Repository)(nil)

// reviewRecord maps a review to a relational table. No foreign keys cascade
// from products; reviews outlive their subject.
type reviewRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	StoreID    int64     `gorm:"column:store_id;not null;index:idx_reviews_store_product"`
	ProductID  int64     `gorm:"column:product_id;not null;index:idx_reviews_store_product"`
	CustomerID int64     `gorm:"column:customer_id"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reviewRecord) TableName() string { return "reviews" }

func (r reviewRecord) toDomain() *domain.Review {
	return &domain.Review{
		ID:         r.ID,
		StoreID:    r.StoreID,
		ProductID:  r.ProductID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
	}
}

// Repository persists reviews in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed review repository. Caller manages
// DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&reviewRecord{})
	}
	return repo
}

// Save inserts or updates a review.
func (r *Repository) Save(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if r.db == nil {
		return nil, errors.New("review repository has no database handle")
	}
	if review == nil {
		return nil, errors.New("review is nil")
	}
	record := reviewRecord{
		ID:         review.ID,
		StoreID:    review.StoreID,
		ProductID:  review.ProductID,
		CustomerID: review.CustomerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
	}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// FindByStoreAndProduct returns reviews for the pair in insertion order.
func (r *Repository) FindByStoreAndProduct(ctx context.Context, storeID, productID int64) ([]*domain.Review, error) {
	if r.db == nil {
		return nil, errors.New("review repository has no database handle")
	}
	var records []reviewRecord
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	reviews := make([]*domain.Review, 0, len(records))
	for _, record := range records {
		reviews = append(reviews, record.toDomain())
	}
	return reviews, nil
}
