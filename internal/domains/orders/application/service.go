package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

// Service orchestrates order placement. The transactional reservation
// protocol itself lives in the repository; this layer validates drafts and
// handles idempotent replays.
type Service struct {
	repo        ports.Repository
	customers   ports.CustomerRepository
	idempotency ports.IdempotencyStore
}

type Option func(*Service)

// WithIdempotencyStore enables idempotent placement keyed by the client's
// Idempotency-Key header.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, customers ports.CustomerRepository, opts ...Option) *Service {
	s := &Service{repo: repo, customers: customers}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates the draft and runs the atomic reservation protocol.
// A replayed idempotency key with an identical payload returns the original
// order instead of placing a second one.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	if _, err := input.Draft.Normalize(); err != nil {
		return nil, mapError(err)
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		var err error
		fingerprint, err = FingerprintDraft(input.Draft)
		if err != nil {
			return nil, mapError(err)
		}
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != fingerprint {
				return nil, ports.ErrIdempotencyConflict
			}
			return s.repo.GetByID(ctx, existing.OrderID)
		}
	}

	order, err := s.repo.Place(ctx, &input.Draft)
	if err != nil {
		return nil, mapError(err)
	}

	if key != "" && s.idempotency != nil {
		record := ports.IdempotencyRecord{
			Key:         key,
			RequestHash: fingerprint,
			OrderID:     order.ID,
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		if _, err := s.idempotency.Save(ctx, record); err != nil && !errors.Is(err, ports.ErrIdempotencyConflict) {
			return nil, err
		}
	}
	return order, nil
}

// GetOrder loads a placed order with its items.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateCustomer persists a new customer.
func (s *Service) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	if err := customer.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.customers.Save(ctx, customer)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

var _ ports.Service = (*Service)(nil)
