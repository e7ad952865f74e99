package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aetv-bot/internal/domain"
	"aetv-bot/internal/testutil"
)

func testHandler(t *testing.T, handlers Handlers, basePath string) (*Server, http.Handler) {
	t.Helper()
	server := New(":0", slog.Default(), handlers, basePath)
	return server, server.httpServer.Handler
}

func TestHealthEndpoint(t *testing.T) {
	_, handler := testHandler(t, Handlers{}, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "aetv-sales-bot", body["service"])
}

func TestWebhookRouteMounted(t *testing.T) {
	called := false
	webhook := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	_, handler := testHandler(t, Handlers{TwilioWebhook: webhook}, "")

	req := httptest.NewRequest(http.MethodPost, "/webhook/twilio", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestBasePathMounting(t *testing.T) {
	_, handler := testHandler(t, Handlers{}, "/bot")

	req := httptest.NewRequest(http.MethodGet, "/bot/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadyReportsStorageFailure(t *testing.T) {
	store := &testutil.MockStore{}
	store.On("Ping", mock.Anything).Return(assert.AnError)

	server, handler := testHandler(t, Handlers{}, "")
	server.SetDependencies(Dependencies{Store: store})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "storage", body["reason"])
}

func TestRecentMessagesEndpoint(t *testing.T) {
	store := &testutil.MockStore{}
	store.On("ListRecentMessages", mock.Anything, "+971500000001", 5).Return([]domain.Message{
		{SenderID: "+971500000001", Direction: domain.DirectionInbound, Content: "start"},
	}, nil)

	server, handler := testHandler(t, Handlers{}, "")
	server.SetDependencies(Dependencies{Store: store})

	req := httptest.NewRequest(http.MethodGet, "/admin/conversations?sender=%2B971500000001&limit=5", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["count"])
	store.AssertExpectations(t)
}

func TestRecentMessagesRequiresSender(t *testing.T) {
	server, handler := testHandler(t, Handlers{}, "")
	server.SetDependencies(Dependencies{Store: &testutil.MockStore{}})

	req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
