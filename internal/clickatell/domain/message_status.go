package domain

import "time"

// StatusOutcome is the coarse result a delivery status code stands for.
type StatusOutcome int

const (
	OutcomeUnknown StatusOutcome = iota
	OutcomeAccepted
	OutcomeDelivered
	OutcomeExpired
	OutcomeErrored
)

func (o StatusOutcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeExpired:
		return "expired"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Gateway delivery status codes.
const (
	StatusMessageUnknown      = 1
	StatusMessageQueued       = 2
	StatusDeliveredToGateway  = 3
	StatusReceivedByRecipient = 4
	StatusErrorWithMessage    = 5
	StatusUserCancelled       = 6
	StatusErrorDelivering     = 7
	StatusOK                  = 8
	StatusRoutingError        = 9
	StatusMessageExpired      = 10
	StatusQueuedForLater      = 11
	StatusOutOfCredit         = 12
	StatusMTLimitExceeded     = 14
)

// UnknownStatusLabel is the label of codes missing from the table.
const UnknownStatusLabel = "unknown status code"

type statusEntry struct {
	label   string
	outcome StatusOutcome
}

var statusTable = map[int]statusEntry{
	StatusMessageUnknown:      {"Message unknown", OutcomeUnknown},
	StatusMessageQueued:       {"Message queued", OutcomeAccepted},
	StatusDeliveredToGateway:  {"Delivered to gateway", OutcomeAccepted},
	StatusReceivedByRecipient: {"Received by recipient", OutcomeDelivered},
	StatusErrorWithMessage:    {"Error with message", OutcomeErrored},
	StatusUserCancelled:       {"User cancelled message delivery", OutcomeErrored},
	StatusErrorDelivering:     {"Error delivering message", OutcomeErrored},
	StatusOK:                  {"OK", OutcomeAccepted},
	StatusRoutingError:        {"Routing error", OutcomeErrored},
	StatusMessageExpired:      {"Message expired", OutcomeExpired},
	StatusQueuedForLater:      {"Message queued for later delivery", OutcomeAccepted},
	StatusOutOfCredit:         {"Out of credit", OutcomeErrored},
	StatusMTLimitExceeded:     {"Maximum MT limit exceeded", OutcomeUnknown},
}

// MessageStatus is a delivery report for a previously sent message.
// The code and label are fixed at classification time; the outcome facets
// are derived from the code.
type MessageStatus struct {
	Provider   string
	MsgID      string
	ReceivedAt time.Time
	Meta       map[string]any // status, api_id, charge

	code  int
	entry statusEntry
}

// ClassifyStatus maps a gateway status code to a MessageStatus. Unknown codes
// keep their numeric value, get UnknownStatusLabel and no facets.
func ClassifyStatus(code int, msgID string, receivedAt time.Time, meta map[string]any) *MessageStatus {
	entry, ok := statusTable[code]
	if !ok {
		entry = statusEntry{label: UnknownStatusLabel, outcome: OutcomeUnknown}
	}
	return &MessageStatus{
		MsgID:      msgID,
		ReceivedAt: receivedAt,
		Meta:       meta,
		code:       code,
		entry:      entry,
	}
}

func (s *MessageStatus) StatusCode() int { return s.code }

// Status is the human readable label of the code.
func (s *MessageStatus) Status() string { return s.entry.label }

func (s *MessageStatus) Outcome() StatusOutcome { return s.entry.outcome }

// Accepted is true for every status past submission: delivered, expired and
// errored reports imply the gateway accepted the message first.
func (s *MessageStatus) Accepted() bool { return s.entry.outcome != OutcomeUnknown }

func (s *MessageStatus) Delivered() bool { return s.entry.outcome == OutcomeDelivered }

func (s *MessageStatus) Expired() bool { return s.entry.outcome == OutcomeExpired }

func (s *MessageStatus) Errored() bool { return s.entry.outcome == OutcomeErrored }

// Known reports whether the code is present in the status table.
func (s *MessageStatus) Known() bool {
	_, ok := statusTable[s.code]
	return ok
}
