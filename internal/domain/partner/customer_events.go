package partner

import (
	"github.com/b2bportal/backend/internal/domain/shared"
)

// Event types for the partner context
const (
	EventCustomerInvited = "partner.customer.invited"
)

// CustomerInvitedEvent is emitted when a customer account is invited.
// The notification handler sends the set-password email.
type CustomerInvitedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewCustomerInvitedEvent creates a new CustomerInvitedEvent
func NewCustomerInvitedEvent(c *Customer) *CustomerInvitedEvent {
	return &CustomerInvitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCustomerInvited, "Customer", c.ID),
		Name:            c.Name,
		Email:           c.Email,
	}
}
