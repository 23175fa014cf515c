package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

// customerRecord maps a customer to a relational table. Email is nullable
// so the unique index only binds customers that carry one.
type customerRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name;not null"`
	Email     *string   `gorm:"column:email;uniqueIndex"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// CustomerRepository persists customers in PostgreSQL using GORM.
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository wires a PostgreSQL-backed customer repository.
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	repo := &CustomerRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&customerRecord{})
	}
	return repo
}

// Save inserts or updates a customer.
func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres customer repository not configured")
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	record := customerRecord{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: emailColumn(customer.Email),
		Phone: customer.Phone,
	}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrCustomerConflict
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a customer by identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres customer repository not configured")
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCustomerNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByEmail fetches a customer by email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres customer repository not configured")
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCustomerNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r customerRecord) toDomain() *domain.Customer {
	customer := &domain.Customer{ID: r.ID, Name: r.Name, Phone: r.Phone}
	if r.Email != nil {
		customer.Email = *r.Email
	}
	return customer
}

func emailColumn(email string) *string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
