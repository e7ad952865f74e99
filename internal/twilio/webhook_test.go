package twilio

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aetv-bot/internal/metrics"
)

type recordingProcessor struct {
	sender    string
	text      string
	messageID string
	calls     int
	err       error
}

func (p *recordingProcessor) HandleInbound(_ context.Context, senderID, text, messageID string) error {
	p.calls++
	p.sender = senderID
	p.text = text
	p.messageID = messageID
	return p.err
}

func postWebhook(t *testing.T, handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/twilio", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookDispatchesInboundMessage(t *testing.T) {
	proc := &recordingProcessor{}
	handler := NewWebhookHandler(proc, slog.Default(), metrics.Registry("twilio_test"))

	rec := postWebhook(t, handler, url.Values{
		"From":       {"whatsapp:+971500000001"},
		"Body":       {"  start  "},
		"MessageSid": {"SM123"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, proc.calls)
	assert.Equal(t, "+971500000001", proc.sender)
	assert.Equal(t, "start", proc.text)
	assert.Equal(t, "SM123", proc.messageID)
}

func TestWebhookDropsEventsWithoutSender(t *testing.T) {
	proc := &recordingProcessor{}
	handler := NewWebhookHandler(proc, slog.Default(), metrics.Registry("twilio_test"))

	rec := postWebhook(t, handler, url.Values{"Body": {"hello"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, proc.calls)
}

func TestWebhookReturns200OnProcessingError(t *testing.T) {
	proc := &recordingProcessor{err: errors.New("storage down")}
	handler := NewWebhookHandler(proc, slog.Default(), metrics.Registry("twilio_test"))

	rec := postWebhook(t, handler, url.Values{
		"From": {"whatsapp:+971500000001"},
		"Body": {"hello"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, proc.calls)
}

func TestWebhookRejectsNonPost(t *testing.T) {
	proc := &recordingProcessor{}
	handler := NewWebhookHandler(proc, slog.Default(), metrics.Registry("twilio_test"))

	req := httptest.NewRequest(http.MethodGet, "/webhook/twilio", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, proc.calls)
}
