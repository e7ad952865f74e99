package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Sender is the outbound delivery capability the notifier relies on.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// OperatorNotifier forwards lead and order events to the operator's WhatsApp
// number. Notifications are best-effort; callers decide how to treat failures.
type OperatorNotifier struct {
	logger *slog.Logger
	sender Sender
	to     string
}

// New creates a notifier targeting the given WhatsApp number. It returns nil
// when no number is configured, which disables notifications.
func New(sender Sender, operatorTo string, logger *slog.Logger) *OperatorNotifier {
	to := strings.TrimSpace(operatorTo)
	if to == "" {
		return nil
	}
	return &OperatorNotifier{
		logger: logger.With("component", "notifier"),
		sender: sender,
		to:     to,
	}
}

// Notify sends a message to the operator.
func (n *OperatorNotifier) Notify(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("notify: empty message")
	}
	if err := n.sender.SendText(ctx, n.to, message); err != nil {
		n.logger.Warn("operator notification failed", "error", err)
		return err
	}
	return nil
}
