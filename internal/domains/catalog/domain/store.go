package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyStoreName    = errors.New("store name must not be empty")
	ErrEmptyStoreAddress = errors.New("store address must not be empty")
)

// Store models a physical retail location carrying inventory.
type Store struct {
	ID      int64
	Name    string
	Address string
}

// NewStore validates and constructs a Store aggregate.
func NewStore(id int64, name, address string) (*Store, error) {
	store := &Store{ID: id, Name: name, Address: address}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	return store, nil
}

// Validate enforces invariants on the aggregate.
func (s *Store) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyStoreName
	}
	if strings.TrimSpace(s.Address) == "" {
		return ErrEmptyStoreAddress
	}
	return nil
}
