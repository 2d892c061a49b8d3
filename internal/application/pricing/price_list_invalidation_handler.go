package pricing

import (
	"context"
	"fmt"

	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PriceListInvalidationHandler drops the cached catalog of a customer when
// their price list changes. It runs from the outbox processor, so the cache
// is invalidated after the price list transaction has committed.
type PriceListInvalidationHandler struct {
	catalogService *CatalogService
	logger         *zap.Logger
}

// NewPriceListInvalidationHandler creates a new handler for price list
// changed events
func NewPriceListInvalidationHandler(catalogService *CatalogService, logger *zap.Logger) *PriceListInvalidationHandler {
	return &PriceListInvalidationHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PriceListInvalidationHandler) EventTypes() []string {
	return []string{pricing.EventPriceListChanged}
}

// Handle processes a PriceListChangedEvent
func (h *PriceListInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changedEvent, ok := event.(*pricing.PriceListChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			pricing.EventPriceListChanged, event.EventType())
	}

	h.catalogService.InvalidateCustomerCatalog(ctx, changedEvent.CustomerID)
	h.logger.Debug("catalog cache invalidated",
		zap.String("customer_id", changedEvent.CustomerID.String()))

	return nil
}
