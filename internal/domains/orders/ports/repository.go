package ports

import (
	"context"
	"errors"
	"time"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrStoreNotFound    = errors.New("store not found")
	// ErrCustomerConflict signals an email already registered to another
	// customer. Backed by a unique index on non-null emails.
	ErrCustomerConflict = errors.New("customer email already registered")
	// ErrInsufficientStock signals a line whose inventory row is absent or
	// holds fewer units than requested. Wrapped errors name the product.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrIdempotencyConflict signals a reused idempotency key with a
	// different request payload.
	ErrIdempotencyConflict = errors.New("idempotency key already used with a different request")
)

// Repository places and loads orders. Place runs the whole reservation
// protocol in one serializable transaction: store check, customer
// resolution, locked decrements in ascending product-id order, price
// snapshots, and the header/item inserts. Any failure leaves no trace.
type Repository interface {
	Place(ctx context.Context, draft *domain.Draft) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

// CustomerRepository persists customers.
type CustomerRepository interface {
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// IdempotencyRecord ties an idempotency key to the fingerprint of the
// request that first used it and the order it produced.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys for order placement. Get
// returns nil when the key is unknown. Save returns the stored record and
// ErrIdempotencyConflict when the key exists with a different hash.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
