package application

import (
	"errors"
	"fmt"

	"github.com/apexretail/catalog-server/internal/domains/catalog/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid catalog input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyStoreName) ||
		errors.Is(err, domain.ErrEmptyStoreAddress) ||
		errors.Is(err, domain.ErrEmptyProductName) ||
		errors.Is(err, domain.ErrEmptyProductCategory) ||
		errors.Is(err, domain.ErrEmptySKU) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidProductRef) ||
		errors.Is(err, domain.ErrInvalidStoreRef) ||
		errors.Is(err, domain.ErrNegativeStock) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
