package memory

import (
	"context"
	"sync"

	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore is an in-memory idempotency key store.
type IdempotencyStore struct {
	mu      sync.RWMutex
	records map[string]ports.IdempotencyRecord
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: map[string]ports.IdempotencyRecord{}}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	clone := record
	return &clone, nil
}

func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[record.Key]; ok {
		clone := existing
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return &clone, ports.ErrIdempotencyConflict
		}
		return &clone, nil
	}
	s.records[record.Key] = record
	clone := record
	return &clone, nil
}
