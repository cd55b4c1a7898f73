package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/api"
	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
)

// OutboundProvider is the sending side of the provider. *app.Provider implements it.
type OutboundProvider interface {
	Name() string
	Send(ctx context.Context, msg *domain.OutgoingMessage) (*domain.OutgoingMessage, error)
	GetBalance(ctx context.Context) (float64, error)
	APIRequest(ctx context.Context, method string, params map[string]string) (string, error)
}

// MessageHandler serves the outbound REST API: send, balance and raw requests.
type MessageHandler struct {
	provider OutboundProvider
	logger   *slog.Logger
	validate *validator.Validate
}

// NewMessageHandler creates a new MessageHandler. A nil validate gets a fresh validator.
func NewMessageHandler(provider OutboundProvider, logger *slog.Logger, validate *validator.Validate) *MessageHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &MessageHandler{
		provider: provider,
		logger:   logger.With("handler", "message"),
		validate: validate,
	}
}

// RegisterRoutes registers the outbound routes with the given router.
func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.handleSendMessage)
	r.Get("/balance", h.handleGetBalance)
	r.Post("/raw/{method}", h.handleRawRequest)
}

// handleSendMessage submits one message and answers with the gateway message id.
func (h *MessageHandler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "Failed to decode send message request", "error", err)
		h.jsonError(w, logger, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}
	if err := h.validate.StructCtx(ctx, req); err != nil {
		logger.WarnContext(ctx, "Send message request failed validation", "error", err)
		h.jsonError(w, logger, http.StatusBadRequest, ErrorResponse{Error: "Validation failed: " + err.Error()})
		return
	}

	// Params are passed through untouched and override the structured options.
	msg := &domain.OutgoingMessage{
		Dst:  req.To,
		Body: req.Text,
		Src:  req.From,
		Options: domain.ProviderOptions{
			StatusReport: req.StatusReport,
			Escalate:     req.Escalate,
			AllowReply:   req.AllowReply,
			Expires:      req.Expires,
			SenderID:     req.SenderID,
			DelayMinutes: req.DelayMinutes,
			CallbackMode: req.CallbackMode,
			Features:     req.ReqFeat,
		},
		ProviderParams: req.Params,
	}
	sent, err := h.provider.Send(ctx, msg)
	if err != nil {
		h.gatewayError(w, logger, err) // already logged by the provider
		return
	}
	logger.InfoContext(ctx, "Message accepted by gateway", "msg_id", sent.MsgID, "dst", sent.Dst)

	h.jsonResponse(w, logger, http.StatusOK, SendMessageResponse{
		MessageID: sent.MsgID,
		Provider:  sent.Provider,
		To:        sent.Dst,
		Parts:     api.PartCount(sent.Body),
	})
}

// handleGetBalance reports the credits left on the account.
func (h *MessageHandler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	credit, err := h.provider.GetBalance(ctx)
	if err != nil {
		h.gatewayError(w, logger, err)
		return
	}
	h.jsonResponse(w, logger, http.StatusOK, BalanceResponse{Provider: h.provider.Name(), Credit: credit})
}

// handleRawRequest calls any API method with the JSON object in the body as
// parameters and returns the gateway reply verbatim.
func (h *MessageHandler) handleRawRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))
	method := chi.URLParam(r, "method")

	// An empty body is a call without parameters.
	params := map[string]string{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "Failed to decode raw request parameters", "error", err)
		h.jsonError(w, logger, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}

	body, err := h.provider.APIRequest(ctx, method, params)
	if err != nil {
		h.gatewayError(w, logger, err)
		return
	}
	h.jsonResponse(w, logger, http.StatusOK, RawResponse{Method: method, Response: body})
}

// gatewayErrorStatus maps a provider failure to the status of our response.
func gatewayErrorStatus(err error) int {
	var pe *domain.ProviderError
	switch {
	case errors.As(err, &pe):
		switch pe.Category {
		case domain.CategoryRequest:
			return http.StatusBadRequest
		case domain.CategoryCredit:
			return http.StatusPaymentRequired
		case domain.CategoryRateLimit:
			return http.StatusTooManyRequests
		case domain.CategoryGeneric:
			return http.StatusUnprocessableEntity
		default: // authentication, server
			return http.StatusBadGateway
		}
	case errors.Is(err, domain.ErrConnection):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrMessageSend), errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// gatewayError writes a provider failure, adding code, title and category for
// classified gateway errors.
func (h *MessageHandler) gatewayError(w http.ResponseWriter, logger *slog.Logger, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		resp.Code = pe.Code
		resp.Title = pe.Title
		resp.Category = string(pe.Category)
	}
	h.jsonError(w, logger, gatewayErrorStatus(err), resp)
}

func (h *MessageHandler) jsonError(w http.ResponseWriter, logger *slog.Logger, status int, resp ErrorResponse) {
	h.jsonResponse(w, logger, status, resp)
}

func (h *MessageHandler) jsonResponse(w http.ResponseWriter, logger *slog.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}
