package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/apexretail/catalog-server/internal/domains/orders/application"
	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the reservation protocol. Domain failures are marked
// non-retryable so the workflow surfaces them instead of retrying a request
// that can never succeed.
func (a *Activities) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized")
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "storeId", input.Draft.StoreID)
	order, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "storeId", input.Draft.StoreID, "error", err)
		return nil, classifyError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}

func classifyError(err error) error {
	switch {
	case errors.Is(err, orderapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), "InvalidOrder", err)
	case errors.Is(err, ports.ErrInsufficientStock):
		return temporal.NewNonRetryableApplicationError(err.Error(), "InsufficientStock", err)
	case errors.Is(err, ports.ErrStoreNotFound), errors.Is(err, ports.ErrCustomerNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), "NotFound", err)
	default:
		return err
	}
}
