package partner

import (
	"context"
	"fmt"

	"github.com/b2bportal/backend/internal/domain/partner"
	"github.com/b2bportal/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvitationSender delivers portal invitations to customers
type InvitationSender interface {
	SendInvitation(ctx context.Context, email, name string) error
}

// CustomerInvitedHandler sends the set-password invitation when a customer
// account is created. Runs from the outbox processor after the account
// transaction has committed.
type CustomerInvitedHandler struct {
	sender InvitationSender
	logger *zap.Logger
}

// NewCustomerInvitedHandler creates a new handler for customer invited events
func NewCustomerInvitedHandler(sender InvitationSender, logger *zap.Logger) *CustomerInvitedHandler {
	return &CustomerInvitedHandler{
		sender: sender,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CustomerInvitedHandler) EventTypes() []string {
	return []string{partner.EventCustomerInvited}
}

// Handle processes a CustomerInvitedEvent
func (h *CustomerInvitedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	invitedEvent, ok := event.(*partner.CustomerInvitedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			partner.EventCustomerInvited, event.EventType())
	}

	h.logger.Info("sending customer invitation",
		zap.String("email", invitedEvent.Email))

	if err := h.sender.SendInvitation(ctx, invitedEvent.Email, invitedEvent.Name); err != nil {
		h.logger.Error("failed to send customer invitation",
			zap.String("email", invitedEvent.Email),
			zap.Error(err))
		return err
	}

	return nil
}

// Ensure CustomerInvitedHandler implements shared.EventHandler
var _ shared.EventHandler = (*CustomerInvitedHandler)(nil)
