package twilio

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"aetv-bot/internal/metrics"
)

// Processor consumes inbound WhatsApp messages.
type Processor interface {
	HandleInbound(ctx context.Context, senderID, text, messageID string) error
}

// WebhookHandler decodes Twilio's inbound message callback and hands the
// message to the conversation engine. Twilio retries non-2xx responses, so
// the handler answers 200 even when processing fails.
type WebhookHandler struct {
	logger    *slog.Logger
	processor Processor
	metrics   *metrics.Metrics
}

// NewWebhookHandler creates the inbound webhook handler.
func NewWebhookHandler(processor Processor, logger *slog.Logger, metrics *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{
		logger:    logger.With("component", "twilio_webhook"),
		processor: processor,
		metrics:   metrics,
	}
}

// ServeHTTP implements http.Handler for POST callbacks with form-encoded
// From/Body/MessageSid fields.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("malformed webhook form", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	sender := StripWhatsAppPrefix(r.PostFormValue("From"))
	body := strings.TrimSpace(r.PostFormValue("Body"))
	messageID := strings.TrimSpace(r.PostFormValue("MessageSid"))

	if sender == "" {
		// Status callbacks and malformed events carry no sender; drop quietly.
		if h.metrics != nil {
			h.metrics.InboundMessages.WithLabelValues("dropped").Inc()
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.processor.HandleInbound(r.Context(), sender, body, messageID); err != nil {
		h.logger.Error("inbound processing failed", "sender", sender, "message_id", messageID, "error", err)
		if h.metrics != nil {
			h.metrics.Errors.WithLabelValues("webhook").Inc()
		}
	}

	w.WriteHeader(http.StatusOK)
}
