package http_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httptransport "github.com/aradsms/clickatell_gateway/internal/clickatell/transport/http"
)

func newTestRouter(prefix string) (http.Handler, *MockInboundProcessor, *MockOutboundProvider) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inbound := new(MockInboundProcessor)
	outbound := new(MockOutboundProvider)
	r := httptransport.NewRouter(
		httptransport.NewWebhookHandler(inbound, logger, nil),
		httptransport.NewMessageHandler(outbound, logger, nil),
		prefix,
		logger,
	)
	return r, inbound, outbound
}

func TestRouter_Health(t *testing.T) {
	r, _, _ := newTestRouter("/clickatell")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_MetricsExposed(t *testing.T) {
	r, _, outbound := newTestRouter("/clickatell")
	outbound.On("GetBalance", mock.Anything).Return(1.0, nil).Once()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/balance", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "clickatell_http_requests_total"))
}

func TestRouter_WebhookPrefix(t *testing.T) {
	r, inbound, _ := newTestRouter("/clickatell")
	inbound.On("ReceiveStatus", mock.Anything, mock.Anything).Return(nil).Once()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/clickatell/status?from=1&to=2&status=4&api_id=1&moMsgId=1&charge=0", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	inbound.AssertExpectations(t)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_RootPrefix(t *testing.T) {
	r, inbound, _ := newTestRouter("/")
	inbound.On("ReceiveStatus", mock.Anything, mock.Anything).Return(nil).Once()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status?from=1&to=2&status=4&api_id=1&moMsgId=1&charge=0", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
