package application

import (
	"errors"
	"fmt"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyOrder) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidProductRef) ||
		errors.Is(err, domain.ErrInvalidStoreRef) ||
		errors.Is(err, domain.ErrMissingCustomer) ||
		errors.Is(err, domain.ErrEmptyCustomerName) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
