package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/api"
	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
)

func TestSMSAdapter_Send_Success(t *testing.T) {
	p, gw, _ := newTestProvider()
	adapter := NewSMSAdapter(p)
	gw.On("SendMsg", mock.Anything, "1234567890", "Hello", api.SendOptions{From: "Brand", DelivAck: true}, api.Params(nil)).
		Return("abc123", nil).Once()

	resp, err := adapter.Send(context.Background(), SMSRequestData{
		InternalMessageID: "internal-1",
		SenderID:          "Brand",
		Recipient:         "1234567890",
		Content:           "Hello",
		StatusReport:      true,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "abc123", resp.ProviderMessageID)
	assert.Equal(t, "SENT_CLICKATELL", resp.ProviderStatus)
	assert.Equal(t, "main", resp.ProviderName)
	assert.Equal(t, "main", adapter.GetName())
}

func TestSMSAdapter_Send_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		status     string
	}{
		{"provider error", domain.ClassifyError(301, "No credit"), 301, "FAILED_CLICKATELL_E301"},
		{"leading zeros", domain.ClassifyError(1, "Auth"), 1, "FAILED_CLICKATELL_E001"},
		{"http error", domain.NewMessageSendError(502, "bad gateway"), 502, "FAILED_CLICKATELL_HTTP_502"},
		{"connection", domain.NewConnectionError(errors.New("refused")), 0, "FAILED_CLICKATELL_CONNECTION"},
		{"malformed", domain.ErrMalformedResponse, 0, "FAILED_CLICKATELL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, gw, _ := newTestProvider()
			gw.On("SendMsg", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", tt.err).Once()

			resp, err := NewSMSAdapter(p).Send(context.Background(), SMSRequestData{Recipient: "1", Content: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			require.NotNil(t, resp)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.statusCode, resp.StatusCode)
			assert.Equal(t, tt.status, resp.ProviderStatus)
			assert.NotEmpty(t, resp.ErrorMessage)
		})
	}
}
