package domain

import "fmt"

// ErrorCategory groups gateway error codes by who is at fault.
// Categories are comparable error values, so callers can write
// errors.Is(err, domain.CategoryAuthentication).
type ErrorCategory string

const (
	CategoryGeneric        ErrorCategory = "generic"
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryRequest        ErrorCategory = "request"
	CategoryServer         ErrorCategory = "server"
	CategoryCredit         ErrorCategory = "credit"
	CategoryRateLimit      ErrorCategory = "rate_limit"
)

func (c ErrorCategory) Error() string {
	return "clickatell " + string(c) + " error"
}

// Gateway error codes.
const (
	ErrCodeAuthFailed          = 1
	ErrCodeUnknownCredentials  = 2
	ErrCodeSessionExpired      = 3
	ErrCodeMissingSession      = 5
	ErrCodeIPLockdown          = 7
	ErrCodeInvalidParameters   = 101
	ErrCodeInvalidUDH          = 102
	ErrCodeUnknownAPIMsgID     = 103
	ErrCodeUnknownClientMsgID  = 104
	ErrCodeInvalidDestination  = 105
	ErrCodeInvalidSource       = 106
	ErrCodeEmptyMessage        = 107
	ErrCodeInvalidAPIID        = 108
	ErrCodeMissingMsgID        = 109
	ErrCodeMaxPartsExceeded    = 113
	ErrCodeCannotRoute         = 114
	ErrCodeMessageExpired      = 115
	ErrCodeInvalidUnicode      = 116
	ErrCodeInvalidDeliveryTime = 120
	ErrCodeDestinationBlocked  = 121
	ErrCodeDestinationOptedOut = 122
	ErrCodeInvalidSenderID     = 123
	ErrCodeNumberDelisted      = 128
	ErrCodeMTLimitExceeded     = 130
	ErrCodeInvalidBatchID      = 201
	ErrCodeNoBatchTemplate     = 202
	ErrCodeNoCredit            = 301
	ErrCodeInternal            = 901
)

// UnknownErrorTitle is the title of codes missing from the table.
const UnknownErrorTitle = "unknown error code"

type errorEntry struct {
	title    string
	category ErrorCategory
}

var errorTable = map[int]errorEntry{
	ErrCodeAuthFailed:          {"Authentication failed", CategoryAuthentication},
	ErrCodeUnknownCredentials:  {"Unknown username or password", CategoryAuthentication},
	ErrCodeSessionExpired:      {"Session ID expired", CategoryRequest},
	ErrCodeMissingSession:      {"Missing session ID", CategoryRequest},
	ErrCodeIPLockdown:          {"IP Lockdown violation", CategoryAuthentication},
	ErrCodeInvalidParameters:   {"Invalid or missing parameters", CategoryRequest},
	ErrCodeInvalidUDH:          {"Invalid user data header", CategoryRequest},
	ErrCodeUnknownAPIMsgID:     {"Unknown API message ID", CategoryRequest},
	ErrCodeUnknownClientMsgID:  {"Unknown client message ID", CategoryRequest},
	ErrCodeInvalidDestination:  {"Invalid destination address", CategoryRequest},
	ErrCodeInvalidSource:       {"Invalid source address", CategoryRequest},
	ErrCodeEmptyMessage:        {"Empty message", CategoryRequest},
	ErrCodeInvalidAPIID:        {"Invalid or missing API ID", CategoryRequest},
	ErrCodeMissingMsgID:        {"Missing message ID", CategoryRequest},
	ErrCodeMaxPartsExceeded:    {"Maximum message parts exceeded", CategoryRequest},
	ErrCodeCannotRoute:         {"Cannot route message", CategoryServer},
	ErrCodeMessageExpired:      {"Message expired", CategoryGeneric},
	ErrCodeInvalidUnicode:      {"Invalid Unicode data", CategoryRequest},
	ErrCodeInvalidDeliveryTime: {"Invalid delivery time", CategoryRequest},
	ErrCodeDestinationBlocked:  {"Destination mobile number blocked", CategoryGeneric},
	ErrCodeDestinationOptedOut: {"Destination mobile opted out", CategoryGeneric},
	ErrCodeInvalidSenderID:     {"Invalid Sender ID", CategoryRequest},
	ErrCodeNumberDelisted:      {"Number delisted", CategoryGeneric},
	ErrCodeMTLimitExceeded:     {"Maximum MT limit exceeded until <UNIX TIME STAMP>", CategoryRateLimit},
	ErrCodeInvalidBatchID:      {"Invalid batch ID", CategoryRequest},
	ErrCodeNoBatchTemplate:     {"No batch template", CategoryRequest},
	ErrCodeNoCredit:            {"No credit left", CategoryCredit},
	ErrCodeInternal:            {"Internal error", CategoryServer},
}

// ProviderError is an error reported by the gateway as "ERR: <code>, <message>".
type ProviderError struct {
	Code     int
	Title    string
	Category ErrorCategory
	Message  string // free text sent by the gateway
}

// ClassifyError maps a gateway error code to its ProviderError. Codes missing
// from the table get UnknownErrorTitle and CategoryGeneric.
func ClassifyError(code int, message string) *ProviderError {
	entry, ok := errorTable[code]
	if !ok {
		entry = errorEntry{title: UnknownErrorTitle, category: CategoryGeneric}
	}
	return &ProviderError{
		Code:     code,
		Title:    entry.title,
		Category: entry.category,
		Message:  message,
	}
}

// Known reports whether the code is present in the error table.
func (e *ProviderError) Known() bool {
	_, ok := errorTable[e.Code]
	return ok
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("#%d: %s: %s", e.Code, e.Title, e.Message)
}

// Is matches the error's category, or another ProviderError with the same code.
func (e *ProviderError) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCategory:
		return t == e.Category
	case *ProviderError:
		return t.Code == e.Code
	}
	return false
}
