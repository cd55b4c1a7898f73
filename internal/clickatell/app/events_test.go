package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/clickatell_gateway/internal/clickatell/domain"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func TestEventPublisher_ReceiveMessage(t *testing.T) {
	pub := new(MockPublisher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ep := NewEventPublisher(pub, logger)

	rtime := time.Date(2008, 8, 6, 7, 43, 50, 0, time.UTC)
	msg := &domain.IncomingMessage{
		Provider:   "main",
		Src:        "123",
		Dst:        "456",
		MsgID:      "1",
		Body:       "hello there",
		ReceivedAt: rtime,
		Meta:       map[string]string{"api_id": "100", "charset": "ISO-8859-1", "udh": ""},
	}

	var published []byte
	pub.On("Publish", mock.Anything, "sms.incoming.raw.main", mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(2).([]byte) }).
		Return(nil).Once()

	require.NoError(t, ep.ReceiveMessage(context.Background(), msg))
	pub.AssertExpectations(t)

	var event IncomingMessageEvent
	require.NoError(t, json.Unmarshal(published, &event))
	_, err := uuid.Parse(event.EventID)
	assert.NoError(t, err)
	assert.Equal(t, "main", event.Provider)
	assert.Equal(t, "123", event.From)
	assert.Equal(t, "456", event.To)
	assert.Equal(t, "hello there", event.Text)
	assert.Equal(t, "1", event.MessageID)
	assert.True(t, rtime.Equal(event.Timestamp))
	assert.Equal(t, "ISO-8859-1", event.ProviderSpecificData["charset"])
}

func TestEventPublisher_ReceiveStatus(t *testing.T) {
	pub := new(MockPublisher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ep := NewEventPublisher(pub, logger)

	st := domain.ClassifyStatus(5, "1", time.Now().UTC(), map[string]any{"status": 5, "api_id": "100", "charge": 0.32})
	st.Provider = "main"

	var published []byte
	pub.On("Publish", mock.Anything, "dlr.raw.main", mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(2).([]byte) }).
		Return(nil).Once()

	require.NoError(t, ep.ReceiveStatus(context.Background(), st))

	var event DeliveryReportEvent
	require.NoError(t, json.Unmarshal(published, &event))
	assert.Equal(t, 5, event.StatusCode)
	assert.Equal(t, "Error with message", event.Status)
	assert.Equal(t, "errored", event.Outcome)
	assert.True(t, event.Accepted)
	assert.True(t, event.Errored)
	assert.False(t, event.Delivered)
	assert.Equal(t, 0.32, event.ProviderSpecificData["charge"])
	assert.Equal(t, "1", event.ProviderMessageID)
	assert.Equal(t, "5", event.ErrorCode)
	assert.Equal(t, "Error with message", event.ErrorDescription)
}

func TestEventPublisher_PublishError(t *testing.T) {
	pub := new(MockPublisher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ep := NewEventPublisher(pub, logger)

	pub.On("Publish", mock.Anything, "dlr.raw.main", mock.Anything).Return(errors.New("nats: connection closed")).Once()

	st := domain.ClassifyStatus(2, "1", time.Now().UTC(), nil)
	st.Provider = "main"
	assert.Error(t, ep.ReceiveStatus(context.Background(), st))
}

func TestLogReceiver(t *testing.T) {
	r := NewLogReceiver(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, r.ReceiveMessage(context.Background(), &domain.IncomingMessage{MsgID: "1"}))
	assert.NoError(t, r.ReceiveStatus(context.Background(), domain.ClassifyStatus(4, "1", time.Now(), nil)))
}
