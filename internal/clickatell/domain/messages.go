package domain

import "time"

// ProviderOptions are the structured delivery options of an outgoing message.
type ProviderOptions struct {
	StatusReport bool    // request delivery acknowledgements
	Escalate     bool    // high priority, may use pricier routes
	AllowReply   bool    // let the recipient reply
	Expires      int     // validity period in minutes, 0 for the gateway default
	SenderID     string  // overrides Src as the sender address
	DelayMinutes int     // delivery delay in minutes, 0 sends immediately
	CallbackMode int     // gateway status callback mode, 0 for the account default
	Features     Feature // features the route must support, 0 lets the gateway pick
}

// OutgoingMessage is a message submitted by the host application.
type OutgoingMessage struct {
	Dst  string // destination number, digits only
	Body string
	Src  string // optional sender address

	Options ProviderOptions
	// ProviderParams are raw gateway parameters; they override everything
	// derived from the fields above.
	ProviderParams map[string]string

	Provider string
	MsgID    string // set once the gateway accepted the message
}

// IncomingMessage is a message received from a handset.
type IncomingMessage struct {
	Provider   string
	Src        string
	Dst        string
	MsgID      string
	Body       string
	ReceivedAt time.Time         // UTC
	Meta       map[string]string // api_id, charset, udh
}
