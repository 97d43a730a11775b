package kafka_infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRetryingConsumer(handler MessageHandler) *Consumer {
	return &Consumer{
		logger:       zap.NewNop(),
		handler:      handler,
		retryBackoff: time.Millisecond,
		maxBackoff:   4 * time.Millisecond,
	}
}

func TestConsumer_RetriesSameMessageUntilHandled(t *testing.T) {
	var offsets []int64
	c := newRetryingConsumer(func(_ context.Context, msg kafka.Message) error {
		offsets = append(offsets, msg.Offset)
		if len(offsets) < 3 {
			return errors.New("db unavailable")
		}
		return nil
	})

	err := c.handleWithRetry(context.Background(), kafka.Message{Offset: 41})

	require.NoError(t, err)
	assert.Equal(t, []int64{41, 41, 41}, offsets)
}

func TestConsumer_RetryStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	c := newRetryingConsumer(func(_ context.Context, _ kafka.Message) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("db unavailable")
	})

	err := c.handleWithRetry(ctx, kafka.Message{Offset: 7})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestConsumer_SuccessfulHandlerRunsOnce(t *testing.T) {
	calls := 0
	c := newRetryingConsumer(func(_ context.Context, _ kafka.Message) error {
		calls++
		return nil
	})

	require.NoError(t, c.handleWithRetry(context.Background(), kafka.Message{}))
	assert.Equal(t, 1, calls)
}
