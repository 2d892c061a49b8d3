package ordering

import (
	"context"
	"fmt"

	"github.com/b2bportal/backend/internal/domain/ordering"
	"github.com/b2bportal/backend/internal/domain/partner"
	"github.com/b2bportal/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ConfirmationSender delivers order notifications to customers and admins
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, email, name, orderNo, total string, lineCount int) error
	SendNewOrderAlert(ctx context.Context, email, customerName, orderNo, total string) error
}

// AdminDirectory lists the portal admins that receive new-order alerts.
// Satisfied by partner.CustomerRepository.
type AdminDirectory interface {
	FindAdmins(ctx context.Context) ([]partner.Customer, error)
}

// OrderCreatedHandler sends the customer confirmation and alerts admins when
// an order is placed. It runs from the outbox processor, so delivery happens
// after the order transaction has committed and failures are retried with
// backoff.
type OrderCreatedHandler struct {
	sender ConfirmationSender
	admins AdminDirectory
	logger *zap.Logger
}

// NewOrderCreatedHandler creates a new handler for order created events
func NewOrderCreatedHandler(sender ConfirmationSender, admins AdminDirectory, logger *zap.Logger) *OrderCreatedHandler {
	return &OrderCreatedHandler{
		sender: sender,
		admins: admins,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderCreatedHandler) EventTypes() []string {
	return []string{ordering.EventOrderCreated}
}

// Handle processes an OrderCreatedEvent
func (h *OrderCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	createdEvent, ok := event.(*ordering.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ordering.EventOrderCreated, event.EventType())
	}

	h.logger.Info("sending order confirmation",
		zap.String("order_no", createdEvent.OrderNo),
		zap.String("customer_email", createdEvent.CustomerEmail))

	if err := h.sender.SendOrderConfirmation(ctx,
		createdEvent.CustomerEmail,
		createdEvent.CustomerName,
		createdEvent.OrderNo,
		createdEvent.Total,
		createdEvent.LineCount,
	); err != nil {
		h.logger.Error("failed to send order confirmation",
			zap.String("order_no", createdEvent.OrderNo),
			zap.Error(err))
		return err
	}

	// Admin alerts are best effort: the confirmation has already gone out,
	// so a failed alert is logged instead of retried through the outbox.
	h.alertAdmins(ctx, createdEvent)

	return nil
}

func (h *OrderCreatedHandler) alertAdmins(ctx context.Context, event *ordering.OrderCreatedEvent) {
	admins, err := h.admins.FindAdmins(ctx)
	if err != nil {
		h.logger.Error("failed to look up admins for order alert",
			zap.String("order_no", event.OrderNo),
			zap.Error(err))
		return
	}

	for i := range admins {
		admin := &admins[i]
		if err := h.sender.SendNewOrderAlert(ctx,
			admin.Email, event.CustomerName, event.OrderNo, event.Total,
		); err != nil {
			h.logger.Error("failed to send new order alert",
				zap.String("order_no", event.OrderNo),
				zap.String("admin_email", admin.Email),
				zap.Error(err))
		}
	}
}

// Ensure OrderCreatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderCreatedHandler)(nil)
