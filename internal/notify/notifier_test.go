package notify

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aetv-bot/internal/testutil"
)

func TestNewReturnsNilWithoutOperatorNumber(t *testing.T) {
	assert.Nil(t, New(&testutil.MockDeliverer{}, "  ", slog.Default()))
}

func TestNotifySendsToOperator(t *testing.T) {
	sender := &testutil.MockDeliverer{}
	sender.On("SendText", mock.Anything, "+971500000099", "new lead: user@example.com").Return(nil)

	notifier := New(sender, "+971500000099", slog.Default())
	require.NotNil(t, notifier)
	require.NoError(t, notifier.Notify(context.Background(), "new lead: user@example.com"))
	sender.AssertExpectations(t)
}

func TestNotifyRejectsEmptyMessage(t *testing.T) {
	notifier := New(&testutil.MockDeliverer{}, "+971500000099", slog.Default())
	require.Error(t, notifier.Notify(context.Background(), "   "))
}

func TestNotifyPropagatesSendFailure(t *testing.T) {
	sender := &testutil.MockDeliverer{}
	sender.On("SendText", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	notifier := New(sender, "+971500000099", slog.Default())
	require.ErrorIs(t, notifier.Notify(context.Background(), "order: premium"), assert.AnError)
}
