package messagebroker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNatsClient_Unreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := NewNatsClient("nats://127.0.0.1:1", "test", logger)
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestPublish_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the connection is never touched when the context is already done
	c := &NatsClient{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	assert.ErrorIs(t, c.Publish(ctx, "dlr.raw.clickatell", []byte("{}")), context.Canceled)
}

func TestClose_NilConnection(t *testing.T) {
	c := &NatsClient{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	assert.NotPanics(t, c.Close)
}

func TestWaitClosed(t *testing.T) {
	closed := make(chan struct{})
	assert.False(t, waitClosed(closed, 10*time.Millisecond))

	go close(closed)
	assert.True(t, waitClosed(closed, time.Second))

	assert.True(t, waitClosed(nil, time.Millisecond))
}
