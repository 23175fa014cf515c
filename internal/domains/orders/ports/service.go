package ports

import (
	"context"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
)

// PlaceOrderInput is a draft plus the optional idempotency key supplied by
// the client.
type PlaceOrderInput struct {
	Draft          domain.Draft
	IdempotencyKey string
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}
