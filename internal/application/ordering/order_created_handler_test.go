package ordering

import (
	"context"
	"testing"

	"github.com/b2bportal/backend/internal/domain/ordering"
	"github.com/b2bportal/backend/internal/domain/partner"
	"github.com/b2bportal/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockConfirmationSender is a mock implementation of ConfirmationSender
type MockConfirmationSender struct {
	mock.Mock
}

func (m *MockConfirmationSender) SendOrderConfirmation(ctx context.Context, email, name, orderNo, total string, lineCount int) error {
	args := m.Called(ctx, email, name, orderNo, total, lineCount)
	return args.Error(0)
}

func (m *MockConfirmationSender) SendNewOrderAlert(ctx context.Context, email, customerName, orderNo, total string) error {
	args := m.Called(ctx, email, customerName, orderNo, total)
	return args.Error(0)
}

func TestOrderCreatedHandler_Handle(t *testing.T) {
	newEvent := func(t *testing.T) *ordering.OrderCreatedEvent {
		t.Helper()
		orderNo, err := ordering.GenerateOrderNo()
		require.NoError(t, err)
		line, err := ordering.NewOrderLine(uuid.New(), "NP-100", "Gloves", "box", valueobject.NewMoneyUSDFromFloat(10), 2, true)
		require.NoError(t, err)
		order, err := ordering.NewOrder(orderNo, uuid.New(), "Acme", "orders@acme.com", ordering.OrderMeta{PickupLocation: "Dock 4"}, []ordering.OrderLine{line})
		require.NoError(t, err)
		return ordering.NewOrderCreatedEvent(order)
	}

	newAdmin := func(t *testing.T, email string) partner.Customer {
		t.Helper()
		admin, err := partner.NewAdmin("Portal Admin", email, "s3cret-pass")
		require.NoError(t, err)
		return *admin
	}

	t.Run("sends confirmation and alerts every admin", func(t *testing.T) {
		sender := new(MockConfirmationSender)
		admins := new(MockCustomerRepository)
		handler := NewOrderCreatedHandler(sender, admins, zap.NewNop())

		event := newEvent(t)
		admins.On("FindAdmins", mock.Anything).Return([]partner.Customer{
			newAdmin(t, "ops@portal.example"),
			newAdmin(t, "sales@portal.example"),
		}, nil)
		sender.On("SendOrderConfirmation", mock.Anything, "orders@acme.com", "Acme", event.OrderNo, event.Total, 1).Return(nil)
		sender.On("SendNewOrderAlert", mock.Anything, "ops@portal.example", "Acme", event.OrderNo, event.Total).Return(nil)
		sender.On("SendNewOrderAlert", mock.Anything, "sales@portal.example", "Acme", event.OrderNo, event.Total).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		sender.AssertExpectations(t)
		admins.AssertExpectations(t)
	})

	t.Run("confirmation failure propagates for outbox retry", func(t *testing.T) {
		sender := new(MockConfirmationSender)
		admins := new(MockCustomerRepository)
		handler := NewOrderCreatedHandler(sender, admins, zap.NewNop())

		event := newEvent(t)
		sender.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		assert.Error(t, handler.Handle(context.Background(), event))
		// no alerts before the customer has been confirmed
		sender.AssertNotCalled(t, "SendNewOrderAlert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("alert failure does not fail the event", func(t *testing.T) {
		sender := new(MockConfirmationSender)
		admins := new(MockCustomerRepository)
		handler := NewOrderCreatedHandler(sender, admins, zap.NewNop())

		event := newEvent(t)
		admins.On("FindAdmins", mock.Anything).Return([]partner.Customer{newAdmin(t, "ops@portal.example")}, nil)
		sender.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		sender.On("SendNewOrderAlert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		assert.NoError(t, handler.Handle(context.Background(), event))
	})

	t.Run("subscribes to order created events", func(t *testing.T) {
		handler := NewOrderCreatedHandler(new(MockConfirmationSender), new(MockCustomerRepository), zap.NewNop())
		assert.Equal(t, []string{ordering.EventOrderCreated}, handler.EventTypes())
	})
}
