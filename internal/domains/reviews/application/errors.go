package application

import (
	"errors"
	"fmt"

	"github.com/apexretail/catalog-server/internal/domains/reviews/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid review input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrRatingOutOfRange) ||
		errors.Is(err, domain.ErrInvalidStoreRef) ||
		errors.Is(err, domain.ErrInvalidProduct) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
