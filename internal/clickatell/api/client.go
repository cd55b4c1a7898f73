package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
)

// DefaultHost is the gateway API host.
const DefaultHost = "api.clickatell.com"

// tracerName identifies spans started by this package.
const tracerName = "github.com/aradsms/clickatell_gateway/internal/clickatell/api"

// Method names used by the provider.
const (
	MethodSendMsg    = "sendmsg"
	MethodGetBalance = "getbalance"
)

// ClientConfig holds the account credentials and endpoint of the HTTP API.
type ClientConfig struct {
	APIID    string
	User     string
	Password string

	HTTPS      bool
	Host       string // DefaultHost when empty
	HTTPMethod string // GET or POST, POST when empty
}

// Client talks to the gateway's HTTP API. It is safe for concurrent use.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewClient creates a client. Timeouts and TLS are configured on httpClient.
func NewClient(cfg ClientConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	cfg.HTTPMethod = strings.ToUpper(cfg.HTTPMethod)
	if cfg.HTTPMethod == "" {
		cfg.HTTPMethod = http.MethodPost
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.With("component", "clickatell_api"),
		tracer:     otel.Tracer(tracerName),
	}
}

// URL returns the endpoint of an API method.
func (c *Client) URL(method string) string {
	scheme := "http"
	if c.cfg.HTTPS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/http/%s", scheme, c.cfg.Host, method)
}

// form merges the account credentials into params. Caller params win so a raw
// request can target a sub-account.
func (c *Client) form(params Params) url.Values {
	v := url.Values{}
	v.Set("api_id", c.cfg.APIID)
	v.Set("user", c.cfg.User)
	v.Set("password", c.cfg.Password)
	for k, val := range params {
		v.Set(k, val)
	}
	return v
}

// Request calls an API method and returns the response body as is.
// Failures to reach the gateway and non-2xx answers are *domain.TransportError.
func (c *Client) Request(ctx context.Context, method string, params Params) (string, error) {
	form := c.form(params)
	endpoint := c.URL(method)

	var (
		req *http.Request
		err error
	)
	// GET puts everything in the query string, POST sends a urlencoded body.
	if c.cfg.HTTPMethod == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+form.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		// Only a malformed host or scheme gets here.
		return "", domain.NewConnectionError(err)
	}

	c.logger.DebugContext(ctx, "Sending request to gateway", "method", method, "url", endpoint)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		c.logger.ErrorContext(ctx, "Gateway unreachable", "method", method, "error", err)
		return "", domain.NewConnectionError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	apiRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to read gateway response", "method", method, "status_code", resp.StatusCode, "error", err)
		return "", domain.NewConnectionError(err)
	}

	// The gateway reports its own errors with 200 and an "ERR:" body; any
	// other status comes from a proxy or an outage.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "Gateway returned HTTP error", "method", method, "status_code", resp.StatusCode)
		return "", domain.NewMessageSendError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.logger.DebugContext(ctx, "Received gateway response", "method", method, "body", string(body))
	return string(body), nil
}

// APIRequest calls an API method and returns the raw body unless it is an
// "ERR:" reply, which comes back as *domain.ProviderError.
func (c *Client) APIRequest(ctx context.Context, method string, params Params) (body string, err error) {
	ctx, span := c.startSpan(ctx, method)
	defer func() { c.finish(ctx, span, method, err) }()

	body, err = c.Request(ctx, method, params)
	if err != nil {
		return "", err
	}
	if err = CheckError(body); err != nil {
		return "", err
	}
	return body, nil
}

// GetBalance returns the credits left on the account.
func (c *Client) GetBalance(ctx context.Context) (credit float64, err error) {
	ctx, span := c.startSpan(ctx, MethodGetBalance)
	defer func() { c.finish(ctx, span, MethodGetBalance, err) }()

	body, err := c.Request(ctx, MethodGetBalance, nil)
	if err != nil {
		return 0, err
	}
	return ParseBalance(body) // checks for "ERR:" first
}

// SendMsg sends text to one destination and returns the gateway message id.
func (c *Client) SendMsg(ctx context.Context, to, text string, opts SendOptions, overrides Params) (msgID string, err error) {
	ctx, span := c.startSpan(ctx, MethodSendMsg,
		attribute.Int("clickatell.parts", PartCount(text)),
		attribute.Bool("clickatell.unicode", IsUnicode(text)),
	)
	defer func() { c.finish(ctx, span, MethodSendMsg, err) }()

	params, err := EncodeMessage(to, text, opts, overrides)
	if err != nil {
		return "", err
	}
	body, err := c.Request(ctx, MethodSendMsg, params)
	if err != nil {
		return "", err
	}
	msgID, err = ParseMessageID(body)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("clickatell.msg_id", msgID))
	return msgID, nil
}

// startSpan opens a client span named after the API method.
func (c *Client) startSpan(ctx context.Context, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("clickatell.method", method))
	return c.tracer.Start(ctx, "clickatell."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// finish records the outcome of an API call on the span and in the metrics
// and ends the span.
func (c *Client) finish(ctx context.Context, span trace.Span, method string, err error) {
	defer span.End()

	result := resultLabel(err)
	apiRequestsTotal.WithLabelValues(method, result).Inc()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	// Transport failures were already logged by Request.
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		providerErrorsTotal.WithLabelValues(method, string(pe.Category)).Inc()
		span.SetAttributes(attribute.Int("clickatell.error_code", pe.Code))
		c.logger.WarnContext(ctx, "Gateway reported an error", "method", method, "code", pe.Code, "title", pe.Title, "category", pe.Category, "message", pe.Message)
	}
}

// resultLabel maps an API call error to the "result" metric label.
func resultLabel(err error) string {
	var pe *domain.ProviderError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &pe):
		return "provider_error"
	case errors.Is(err, domain.ErrConnection):
		return "connection_error"
	case errors.Is(err, domain.ErrMessageSend):
		return "http_error"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}
