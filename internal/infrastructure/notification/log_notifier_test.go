package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogNotifier_SendInvitation(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	notifier := NewLogNotifier(zap.New(core))

	err := notifier.SendInvitation(context.Background(), "orders@acme.com", "Acme Corp")
	require.NoError(t, err)

	entries := logs.FilterMessage("portal invitation").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "orders@acme.com", fields["email"])
	assert.Equal(t, "Acme Corp", fields["name"])
}

func TestLogNotifier_SendOrderConfirmation(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	notifier := NewLogNotifier(zap.New(core))

	err := notifier.SendOrderConfirmation(context.Background(),
		"orders@acme.com", "Acme Corp", "A1B2C3D4E5F6", "106.00", 3)
	require.NoError(t, err)

	entries := logs.FilterMessage("order confirmation").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "A1B2C3D4E5F6", fields["order_no"])
	assert.Equal(t, "106.00", fields["total"])
	assert.Equal(t, int64(3), fields["line_count"])
}

func TestLogNotifier_SendNewOrderAlert(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	notifier := NewLogNotifier(zap.New(core))

	err := notifier.SendNewOrderAlert(context.Background(),
		"ops@portal.example", "Acme Corp", "A1B2C3D4E5F6", "106.00")
	require.NoError(t, err)

	entries := logs.FilterMessage("new order alert").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ops@portal.example", fields["email"])
	assert.Equal(t, "Acme Corp", fields["customer_name"])
	assert.Equal(t, "A1B2C3D4E5F6", fields["order_no"])
}

func TestLogNotifier_NilLoggerFallsBack(t *testing.T) {
	notifier := NewLogNotifier(nil)
	assert.NoError(t, notifier.SendInvitation(context.Background(), "a@b.com", "A"))
}
