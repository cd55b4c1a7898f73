package http

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
)

// MaxRequestBodySize caps webhook bodies.
const MaxRequestBodySize = 64 * 1024

// TimestampLayout is the format of the gateway's timestamp parameter.
const TimestampLayout = "2006-01-02 15:04:05"

// gatewayZone is the fixed offset of webhook timestamps.
var gatewayZone = time.FixedZone("GMT+2", 2*60*60)

// InboundProcessor receives normalized webhook traffic. *app.Provider implements it.
type InboundProcessor interface {
	ReceiveMessage(ctx context.Context, msg *domain.IncomingMessage) error
	ReceiveStatus(ctx context.Context, status *domain.MessageStatus) error
}

// WebhookHandler serves the gateway callbacks. Any failure answers 500 so the
// gateway retries the delivery later.
type WebhookHandler struct {
	processor InboundProcessor
	logger    *slog.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// NewWebhookHandler creates a new WebhookHandler. A nil validate gets a fresh validator.
func NewWebhookHandler(processor InboundProcessor, logger *slog.Logger, validate *validator.Validate) *WebhookHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &WebhookHandler{
		processor: processor,
		logger:    logger.With("handler", "webhook"), // Add handler context to base logger
		validate:  validate,
		now:       time.Now,
	}
}

// RegisterRoutes mounts /im and /status on r, for both GET and POST.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Get("/im", h.HandleIncomingMessage)
	r.Post("/im", h.HandleIncomingMessage)
	r.Get("/status", h.HandleStatusReport)
	r.Post("/status", h.HandleStatusReport)
}

// values reads the query string and, for POST, the urlencoded body.
func (h *WebhookHandler) values(w http.ResponseWriter, r *http.Request) (webhookValues, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidWebhook, err)
	}
	return mergeValues(r.PostForm, r.URL.Query()), nil // query wins on conflicts
}

// HandleIncomingMessage handles <prefix>/im.
func (h *WebhookHandler) HandleIncomingMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx), "webhook", "im")

	vals, err := h.values(w, r)
	if err != nil {
		h.fail(ctx, w, logger, "im", err)
		return
	}
	msg, err := h.parseIncomingMessage(ctx, vals)
	if err != nil { // missing field, bad timestamp or unknown charset
		h.fail(ctx, w, logger, "im", err)
		return
	}
	// The provider stamps its name and hands the message to the host.
	if err := h.processor.ReceiveMessage(ctx, msg); err != nil {
		h.fail(ctx, w, logger, "im", err)
		return
	}

	webhookRequestsTotal.WithLabelValues("im", "success").Inc()
	logger.InfoContext(ctx, "Incoming message accepted", "msg_id", msg.MsgID)
	ack(w)
}

// HandleStatusReport handles <prefix>/status.
func (h *WebhookHandler) HandleStatusReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx), "webhook", "status")

	vals, err := h.values(w, r)
	if err != nil {
		h.fail(ctx, w, logger, "status", err)
		return
	}
	status, err := h.parseStatusReport(ctx, vals)
	if err != nil { // missing field or non-numeric status/charge
		h.fail(ctx, w, logger, "status", err)
		return
	}
	if err := h.processor.ReceiveStatus(ctx, status); err != nil {
		h.fail(ctx, w, logger, "status", err)
		return
	}

	webhookRequestsTotal.WithLabelValues("status", "success").Inc()
	logger.InfoContext(ctx, "Status report accepted", "msg_id", status.MsgID, "status_code", status.StatusCode())
	ack(w)
}

// parseIncomingMessage validates the /im parameters and decodes the text
// from its declared charset.
func (h *WebhookHandler) parseIncomingMessage(ctx context.Context, vals webhookValues) (*domain.IncomingMessage, error) {
	p := newIncomingMessageParams(vals)
	if err := h.validate.StructCtx(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: im: %v", domain.ErrInvalidWebhook, err)
	}

	rtime, err := time.ParseInLocation(TimestampLayout, *p.Timestamp, gatewayZone)
	if err != nil {
		return nil, fmt.Errorf("%w: im: timestamp %q: %v", domain.ErrInvalidWebhook, *p.Timestamp, err)
	}
	body, err := decodeText(*p.Text, *p.Charset)
	if err != nil {
		return nil, fmt.Errorf("%w: im: %v", domain.ErrInvalidWebhook, err)
	}

	return &domain.IncomingMessage{
		Src:        *p.From,
		Dst:        *p.To,
		MsgID:      *p.MoMsgID,
		Body:       body,
		ReceivedAt: rtime.UTC(),
		Meta: map[string]string{
			"api_id":  *p.APIID,
			"charset": *p.Charset,
			"udh":     *p.UDH,
		},
	}, nil
}

// parseStatusReport validates the /status parameters and classifies the
// status code. The report is stamped with the local receive time.
func (h *WebhookHandler) parseStatusReport(ctx context.Context, vals webhookValues) (*domain.MessageStatus, error) {
	p := newStatusReportParams(vals)
	if err := h.validate.StructCtx(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: status: %v", domain.ErrInvalidWebhook, err)
	}

	code, err := strconv.Atoi(*p.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: status: status %q: %v", domain.ErrInvalidWebhook, *p.Status, err)
	}
	charge, err := strconv.ParseFloat(*p.Charge, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: status: charge %q: %v", domain.ErrInvalidWebhook, *p.Charge, err)
	}
	// NaN and Inf parse fine but cannot be encoded into the published event.
	if math.IsNaN(charge) || math.IsInf(charge, 0) {
		return nil, fmt.Errorf("%w: status: charge %q is not a finite number", domain.ErrInvalidWebhook, *p.Charge)
	}

	meta := map[string]any{
		"status": code,
		"api_id": *p.APIID,
		"charge": charge,
	}
	if p.CliMsgID != nil && *p.CliMsgID != "" {
		meta["cliMsgId"] = *p.CliMsgID
	}
	return domain.ClassifyStatus(code, *p.MoMsgID, h.now().UTC(), meta), nil
}

// fail logs err and answers 500.
func (h *WebhookHandler) fail(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, webhook string, err error) {
	webhookRequestsTotal.WithLabelValues(webhook, "error").Inc()
	logger.ErrorContext(ctx, "Webhook processing failed", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// ack is the plain "OK" the gateway expects on success.
func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
