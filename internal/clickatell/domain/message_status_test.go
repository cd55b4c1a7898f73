package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus_Facets(t *testing.T) {
	tests := []struct {
		code      int
		label     string
		outcome   StatusOutcome
		accepted  bool
		delivered bool
		expired   bool
		errored   bool
	}{
		{1, "Message unknown", OutcomeUnknown, false, false, false, false},
		{2, "Message queued", OutcomeAccepted, true, false, false, false},
		{3, "Delivered to gateway", OutcomeAccepted, true, false, false, false},
		{4, "Received by recipient", OutcomeDelivered, true, true, false, false},
		{5, "Error with message", OutcomeErrored, true, false, false, true},
		{6, "User cancelled message delivery", OutcomeErrored, true, false, false, true},
		{7, "Error delivering message", OutcomeErrored, true, false, false, true},
		{8, "OK", OutcomeAccepted, true, false, false, false},
		{9, "Routing error", OutcomeErrored, true, false, false, true},
		{10, "Message expired", OutcomeExpired, true, false, true, false},
		{11, "Message queued for later delivery", OutcomeAccepted, true, false, false, false},
		{12, "Out of credit", OutcomeErrored, true, false, false, true},
		{14, "Maximum MT limit exceeded", OutcomeUnknown, false, false, false, false},
	}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			s := ClassifyStatus(tt.code, "msg-1", now, nil)

			assert.Equal(t, tt.code, s.StatusCode())
			assert.Equal(t, tt.label, s.Status())
			assert.Equal(t, tt.outcome, s.Outcome())
			assert.Equal(t, tt.accepted, s.Accepted(), "accepted")
			assert.Equal(t, tt.delivered, s.Delivered(), "delivered")
			assert.Equal(t, tt.expired, s.Expired(), "expired")
			assert.Equal(t, tt.errored, s.Errored(), "errored")
			assert.True(t, s.Known())
			assert.Equal(t, "msg-1", s.MsgID)
			assert.Equal(t, now, s.ReceivedAt)
		})
	}
}

func TestClassifyStatus_UnknownCode(t *testing.T) {
	meta := map[string]any{"status": 13, "api_id": "12345", "charge": 0.5}
	s := ClassifyStatus(13, "abc", time.Now().UTC(), meta)

	assert.Equal(t, 13, s.StatusCode())
	assert.Equal(t, UnknownStatusLabel, s.Status())
	assert.Equal(t, OutcomeUnknown, s.Outcome())
	assert.False(t, s.Known())
	assert.False(t, s.Accepted())
	assert.False(t, s.Delivered())
	assert.False(t, s.Expired())
	assert.False(t, s.Errored())
	assert.Equal(t, meta, s.Meta)
}

func TestStatusOutcome_String(t *testing.T) {
	assert.Equal(t, "accepted", OutcomeAccepted.String())
	assert.Equal(t, "delivered", OutcomeDelivered.String())
	assert.Equal(t, "expired", OutcomeExpired.String())
	assert.Equal(t, "errored", OutcomeErrored.String())
	assert.Equal(t, "unknown", OutcomeUnknown.String())
}
