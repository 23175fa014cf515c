package ports

import (
	"context"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
)

// WorkflowOrchestrator starts the order placement flow, either inline or on
// a durable workflow engine.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
}
