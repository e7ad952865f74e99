package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aetv-bot/internal/metrics"
)

const (
	formContentType = "application/x-www-form-urlencoded"
	// whatsappPrefix is required by Twilio on both From and To addresses.
	whatsappPrefix = "whatsapp:"
)

// ErrUnauthorized indicates Twilio rejected the account credentials.
var ErrUnauthorized = errors.New("twilio unauthorized")

// Client sends WhatsApp messages through the Twilio Messages API.
type Client struct {
	logger     *slog.Logger
	baseURL    string
	accountSID string
	authToken  string
	from       string
	http       *http.Client
	metrics    *metrics.Metrics
}

// Config holds Twilio client configuration.
type Config struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	Timeout    time.Duration
}

// messageResponse mirrors the fields of Twilio's message resource we care
// about.
type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	Message      string `json:"message"`
	Code         int    `json:"code"`
}

// New creates a Twilio client.
func New(cfg Config, logger *slog.Logger, metrics *metrics.Metrics) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.twilio.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		logger:     logger.With("component", "twilio"),
		baseURL:    base,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       EnsureWhatsAppPrefix(cfg.From),
		http:       &http.Client{Timeout: timeout},
		metrics:    metrics,
	}
}

// EnsureWhatsAppPrefix adds the whatsapp: channel prefix when absent.
func EnsureWhatsAppPrefix(address string) string {
	address = strings.TrimSpace(address)
	if address == "" || strings.HasPrefix(address, whatsappPrefix) {
		return address
	}
	return whatsappPrefix + address
}

// StripWhatsAppPrefix removes the whatsapp: channel prefix when present.
func StripWhatsAppPrefix(address string) string {
	return strings.TrimPrefix(strings.TrimSpace(address), whatsappPrefix)
}

// SendText delivers a WhatsApp text message to the recipient.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	if strings.TrimSpace(to) == "" {
		return errors.New("twilio send: empty recipient")
	}

	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", EnsureWhatsAppPrefix(to))
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.accountSID, c.authToken)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.TwilioRequests.WithLabelValues("error").Inc()
		}
		return fmt.Errorf("twilio request: %w", err)
	}
	defer res.Body.Close()

	statusLabel := fmt.Sprintf("%d", res.StatusCode)
	if c.metrics != nil {
		c.metrics.TwilioRequests.WithLabelValues(statusLabel).Inc()
		c.metrics.TwilioLatency.WithLabelValues(statusLabel).Observe(time.Since(start).Seconds())
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var msg messageResponse
	if err := json.Unmarshal(bodyBytes, &msg); err != nil && res.StatusCode < 400 {
		return fmt.Errorf("decode response: %w", err)
	}

	if res.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrUnauthorized, strings.TrimSpace(msg.Message))
	}
	if res.StatusCode >= 400 {
		detail := strings.TrimSpace(msg.Message)
		if detail == "" {
			detail = strings.TrimSpace(string(bodyBytes))
		}
		return fmt.Errorf("twilio error: status=%d code=%d message=%s", res.StatusCode, msg.Code, detail)
	}

	c.logger.Debug("message accepted", "sid", msg.SID, "status", msg.Status)
	return nil
}
