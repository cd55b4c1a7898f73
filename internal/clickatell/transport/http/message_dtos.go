package http

import "github.com/aradsms/clickatell_gateway/internal/clickatell/domain"

// SendMessageRequest is the body of POST /messages.
type SendMessageRequest struct {
	To           string            `json:"to" validate:"required,max=32"`
	Text         string            `json:"text" validate:"required"`
	From         string            `json:"from,omitempty"`
	SenderID     string            `json:"sender_id,omitempty"`
	StatusReport bool              `json:"status_report,omitempty"`
	Escalate     bool              `json:"escalate,omitempty"`
	AllowReply   bool              `json:"allow_reply,omitempty"`
	Expires      int               `json:"expires,omitempty" validate:"gte=0"` // minutes
	DelayMinutes int               `json:"delay_minutes,omitempty" validate:"gte=0"`
	CallbackMode int               `json:"callback,omitempty" validate:"gte=0"`
	// ReqFeat is a bitmask of required gateway features, e.g. 16 for an
	// alphanumeric sender or 512 for flash messages.
	ReqFeat domain.Feature    `json:"req_feat,omitempty" validate:"gte=0"`
	Params  map[string]string `json:"params,omitempty"` // raw gateway parameters
}

// SendMessageResponse is returned once the gateway accepted a message.
type SendMessageResponse struct {
	MessageID string `json:"message_id"`
	Provider  string `json:"provider"`
	To        string `json:"to"`
	Parts     int    `json:"parts"`
}

// BalanceResponse is the body of GET /balance.
type BalanceResponse struct {
	Provider string  `json:"provider"`
	Credit   float64 `json:"credit"`
}

// RawResponse is the body of POST /raw/{method}.
type RawResponse struct {
	Method   string `json:"method"`
	Response string `json:"response"`
}

// ErrorResponse describes a failed call. Gateway errors carry code, title and category.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     int    `json:"code,omitempty"`
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
}
