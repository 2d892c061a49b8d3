package notification

import (
	"context"

	"github.com/b2bportal/backend/internal/application/ordering"
	"github.com/b2bportal/backend/internal/application/partner"
	"go.uber.org/zap"
)

// LogNotifier writes invitations and order confirmations to the structured
// log instead of delivering them. It stands in for a mail integration in
// development and test environments; the event handlers only see the
// interfaces, so swapping in a real sender is a wiring change.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs instead of sending
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// SendInvitation logs a portal invitation for a newly created customer
func (n *LogNotifier) SendInvitation(ctx context.Context, email, name string) error {
	n.logger.Info("portal invitation",
		zap.String("email", email),
		zap.String("name", name),
	)
	return nil
}

// SendOrderConfirmation logs an order confirmation for a placed order
func (n *LogNotifier) SendOrderConfirmation(ctx context.Context, email, name, orderNo, total string, lineCount int) error {
	n.logger.Info("order confirmation",
		zap.String("email", email),
		zap.String("name", name),
		zap.String("order_no", orderNo),
		zap.String("total", total),
		zap.Int("line_count", lineCount),
	)
	return nil
}

// SendNewOrderAlert logs the internal alert admins receive about a new order
func (n *LogNotifier) SendNewOrderAlert(ctx context.Context, email, customerName, orderNo, total string) error {
	n.logger.Info("new order alert",
		zap.String("email", email),
		zap.String("customer_name", customerName),
		zap.String("order_no", orderNo),
		zap.String("total", total),
	)
	return nil
}

var (
	_ partner.InvitationSender    = (*LogNotifier)(nil)
	_ ordering.ConfirmationSender = (*LogNotifier)(nil)
)
