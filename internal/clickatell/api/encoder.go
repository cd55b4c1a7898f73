package api

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
)

const (
	// singlePartBytes is the payload of a single 8-bit message.
	singlePartBytes = 140
	// concatHeaderBytes is lost from every part of a concatenated message.
	concatHeaderBytes = 7
)

// Params is a set of gateway request parameters.
type Params map[string]string

// SendOptions are the sendmsg parameters derived from structured message options.
// Zero values are not sent.
type SendOptions struct {
	From      string         // sender id or a registered number
	DelivAck  bool           // delivery acknowledgements
	Escalate  bool           // high priority routing
	MO        bool           // allow replies
	Validity  int            // expiry, minutes
	DelivTime int            // delivery delay, minutes
	Callback  int            // status callback mode
	ReqFeat   domain.Feature // required gateway features
}

func (o SendOptions) params() Params {
	p := Params{}
	if o.From != "" {
		p["from"] = o.From
	}
	if o.DelivAck {
		p["deliv_ack"] = "1"
	}
	if o.Escalate {
		p["escalate"] = "1"
	}
	if o.MO {
		p["mo"] = "1"
	}
	if o.Validity > 0 {
		p["validity"] = strconv.Itoa(o.Validity)
	}
	if o.DelivTime > 0 {
		p["deliv_time"] = strconv.Itoa(o.DelivTime)
	}
	if o.Callback > 0 {
		p["callback"] = strconv.Itoa(o.Callback)
	}
	if o.ReqFeat != 0 {
		p["req_feat"] = o.ReqFeat.Param()
	}
	return p
}

// PartCount returns how many parts a text is split into on the wire.
// No upper bound is applied; the gateway reports E113 when there are too many.
func PartCount(text string) int {
	n := len(text)
	if n <= singlePartBytes {
		return 1
	}
	per := singlePartBytes - concatHeaderBytes
	return (n + per - 1) / per
}

// IsUnicode reports whether text has any multi-byte character and must be
// sent as UCS-2.
func IsUnicode(text string) bool {
	return len(text) != utf8.RuneCountInString(text)
}

// EncodeUCS2 returns text as hex encoded UTF-16BE.
func EncodeUCS2(text string) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	b, err := enc.Bytes([]byte(text))
	if err != nil {
		return "", fmt.Errorf("ucs2 encode: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// EncodeMessage builds the sendmsg parameters for one destination.
// Parameters are layered: to/text/concat/unicode, then opts, then overrides.
func EncodeMessage(to, text string, opts SendOptions, overrides Params) (Params, error) {
	p := Params{"to": to}

	if PartCount(text) > 1 {
		p["concat"] = "1"
	}

	if IsUnicode(text) {
		hexText, err := EncodeUCS2(text)
		if err != nil {
			return nil, err
		}
		p["unicode"] = "1"
		p["text"] = hexText
	} else {
		p["text"] = text
	}

	for k, v := range opts.params() {
		p[k] = v
	}
	for k, v := range overrides {
		p[k] = v
	}
	return p, nil
}
