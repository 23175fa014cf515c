// Package customers bridges the orders context's customer records into the
// reviews context as a read-only name directory.
package customers

import (
	"context"
	"errors"

	ordersports "github.com/apexretail/catalog-server/internal/domains/orders/ports"
	"github.com/apexretail/catalog-server/internal/domains/reviews/ports"
)

var _ ports.CustomerDirectory = (*Directory)(nil)

// Directory resolves reviewer names through the orders customer repository.
type Directory struct {
	customers ordersports.CustomerRepository
}

func NewDirectory(customers ordersports.CustomerRepository) *Directory {
	return &Directory{customers: customers}
}

func (d *Directory) NameByID(ctx context.Context, id int64) (string, error) {
	customer, err := d.customers.GetByID(ctx, id)
	if errors.Is(err, ordersports.ErrCustomerNotFound) {
		return "", ports.ErrCustomerUnknown
	}
	if err != nil {
		return "", err
	}
	return customer.Name, nil
}
