package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/api"
	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
)

// Gateway is the HTTP API used by the provider. *api.Client implements it.
type Gateway interface {
	APIRequest(ctx context.Context, method string, params api.Params) (string, error)
	GetBalance(ctx context.Context) (float64, error)
	SendMsg(ctx context.Context, to, text string, opts api.SendOptions, overrides api.Params) (string, error)
}

// Receiver is the host framework's sink for inbound traffic.
type Receiver interface {
	ReceiveMessage(ctx context.Context, msg *domain.IncomingMessage) error
	ReceiveStatus(ctx context.Context, status *domain.MessageStatus) error
}

// Provider sends messages through the gateway and forwards webhook traffic
// to the host framework.
//
// Errors returned by the outbound methods are one of:
//   - *domain.ProviderError, an ERR reply classified by code;
//   - *domain.TransportError, matching domain.ErrConnection or domain.ErrMessageSend;
//   - an error wrapping domain.ErrMalformedResponse.
type Provider struct {
	name     string
	gateway  Gateway
	receiver Receiver
	logger   *slog.Logger
}

// NewProvider creates a provider registered under name. Outbound calls go to
// gateway; inbound traffic is handed to receiver.
func NewProvider(name string, gateway Gateway, receiver Receiver, logger *slog.Logger) *Provider {
	return &Provider{
		name:     name,
		gateway:  gateway,
		receiver: receiver,
		logger:   logger.With("provider", name),
	}
}

// Name is the name the provider is registered under.
func (p *Provider) Name() string {
	return p.name
}

// sendOptions derives sendmsg options from the message. SenderID beats Src;
// ProviderParams are applied later by the encoder and beat both.
func sendOptions(msg *domain.OutgoingMessage) api.SendOptions {
	opts := api.SendOptions{
		From:      msg.Src,
		DelivAck:  msg.Options.StatusReport,
		Escalate:  msg.Options.Escalate,
		MO:        msg.Options.AllowReply,
		Validity:  msg.Options.Expires,
		DelivTime: msg.Options.DelayMinutes,
		Callback:  msg.Options.CallbackMode,
		ReqFeat:   msg.Options.Features,
	}
	if msg.Options.SenderID != "" {
		opts.From = msg.Options.SenderID
	}
	return opts
}

// Send submits msg and stores the gateway message id on it.
func (p *Provider) Send(ctx context.Context, msg *domain.OutgoingMessage) (*domain.OutgoingMessage, error) {
	start := time.Now()
	p.logger.InfoContext(ctx, "Sending message", "dst", msg.Dst, "parts", api.PartCount(msg.Body))

	msgID, err := p.gateway.SendMsg(ctx, msg.Dst, msg.Body, sendOptions(msg), api.Params(msg.ProviderParams))
	messageSendDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())
	if err != nil {
		messagesSentTotal.WithLabelValues(p.name, "error").Inc()
		p.logger.ErrorContext(ctx, "Failed to send message", "dst", msg.Dst, "error", err)
		return nil, fmt.Errorf("send to %s: %w", msg.Dst, err)
	}
	messagesSentTotal.WithLabelValues(p.name, "success").Inc()

	msg.Provider = p.name
	msg.MsgID = msgID
	p.logger.InfoContext(ctx, "Message accepted by gateway", "dst", msg.Dst, "msg_id", msgID)
	return msg, nil
}

// GetBalance returns the number of credits left.
func (p *Provider) GetBalance(ctx context.Context) (float64, error) {
	credit, err := p.gateway.GetBalance(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to query balance", "error", err)
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return credit, nil
}

// APIRequest calls an arbitrary API method and returns the unparsed reply.
func (p *Provider) APIRequest(ctx context.Context, method string, params map[string]string) (string, error) {
	body, err := p.gateway.APIRequest(ctx, method, api.Params(params))
	if err != nil {
		p.logger.ErrorContext(ctx, "Raw API request failed", "method", method, "error", err)
		return "", fmt.Errorf("api request %s: %w", method, err)
	}
	return body, nil
}

// ReceiveMessage stamps the provider name on msg and hands it to the receiver.
func (p *Provider) ReceiveMessage(ctx context.Context, msg *domain.IncomingMessage) error {
	msg.Provider = p.name
	if err := p.receiver.ReceiveMessage(ctx, msg); err != nil {
		inboundTotal.WithLabelValues(p.name, "message", "error").Inc()
		return fmt.Errorf("receive message %s: %w", msg.MsgID, err)
	}
	inboundTotal.WithLabelValues(p.name, "message", "success").Inc()
	p.logger.InfoContext(ctx, "Incoming message received", "msg_id", msg.MsgID, "src", msg.Src)
	return nil
}

// ReceiveStatus stamps the provider name on status and hands it to the receiver.
func (p *Provider) ReceiveStatus(ctx context.Context, status *domain.MessageStatus) error {
	status.Provider = p.name
	if err := p.receiver.ReceiveStatus(ctx, status); err != nil {
		inboundTotal.WithLabelValues(p.name, "status", "error").Inc()
		return fmt.Errorf("receive status %s: %w", status.MsgID, err)
	}
	inboundTotal.WithLabelValues(p.name, "status", "success").Inc()
	statusReportsTotal.WithLabelValues(p.name, status.Outcome().String()).Inc()
	p.logger.InfoContext(ctx, "Status report received",
		"msg_id", status.MsgID,
		"status_code", status.StatusCode(),
		"status", status.Status(),
	)
	return nil
}
