package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
)

// SMSRequestData is a send request coming from the host's sending pipeline.
type SMSRequestData struct {
	InternalMessageID string
	SenderID          string
	Recipient         string
	Content           string
	StatusReport      bool
}

// SMSResponseData is the outcome of a send attempt as the pipeline records it.
type SMSResponseData struct {
	ProviderMessageID string
	Success           bool
	StatusCode        int    // gateway error code, HTTP status or 0
	ProviderStatus    string // e.g. SENT_CLICKATELL, FAILED_CLICKATELL_E301
	ErrorMessage      string
	ProviderName      string
}

// SMSAdapter plugs the provider into the host's generic sending pipeline.
type SMSAdapter struct {
	provider *Provider
}

// NewSMSAdapter creates a new SMSAdapter.
func NewSMSAdapter(provider *Provider) *SMSAdapter {
	return &SMSAdapter{provider: provider}
}

// GetName returns the provider name.
func (a *SMSAdapter) GetName() string {
	return a.provider.Name()
}

// Send submits one message. The response is filled on failure too; the error
// is returned as well so callers can still match it with errors.Is/As.
func (a *SMSAdapter) Send(ctx context.Context, req SMSRequestData) (*SMSResponseData, error) {
	msg := &domain.OutgoingMessage{
		Dst:  req.Recipient,
		Body: req.Content,
		Options: domain.ProviderOptions{
			StatusReport: req.StatusReport,
			SenderID:     req.SenderID,
		},
	}
	sent, err := a.provider.Send(ctx, msg)
	if err == nil {
		return &SMSResponseData{
			ProviderMessageID: sent.MsgID,
			Success:           true,
			ProviderStatus:    "SENT_CLICKATELL",
			ProviderName:      a.GetName(),
		}, nil
	}

	resp := &SMSResponseData{
		Success:        false,
		ProviderStatus: "FAILED_CLICKATELL",
		ErrorMessage:   err.Error(),
		ProviderName:   a.GetName(),
	}
	var (
		pe *domain.ProviderError
		te *domain.TransportError
	)
	switch {
	case errors.As(err, &pe):
		resp.StatusCode = pe.Code
		resp.ProviderStatus = fmt.Sprintf("FAILED_CLICKATELL_E%03d", pe.Code)
	case errors.As(err, &te):
		resp.StatusCode = te.StatusCode
		if errors.Is(err, domain.ErrConnection) {
			resp.ProviderStatus = "FAILED_CLICKATELL_CONNECTION"
		} else {
			resp.ProviderStatus = fmt.Sprintf("FAILED_CLICKATELL_HTTP_%d", te.StatusCode)
		}
	}
	return resp, err
}
