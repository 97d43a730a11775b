package kafka_infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes one message. Returning an error makes the consumer
// retry the same message with backoff; offsets only move past a message once
// its handler has succeeded.
type MessageHandler func(ctx context.Context, msg kafka.Message) error

const (
	defaultRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff     = 30 * time.Second
)

type Consumer struct {
	reader       *kafka.Reader
	logger       *zap.Logger
	handler      MessageHandler
	topic        string
	groupID      string
	retryBackoff time.Duration
	maxBackoff   time.Duration
}

func NewConsumer(brokerURLs []string, topic, groupID string, handler MessageHandler, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:                brokerURLs,
		GroupID:                groupID,
		Topic:                  topic,
		MinBytes:               10e3,
		MaxBytes:               10e6,
		ReadBatchTimeout:       1 * time.Second,
		Logger:                 kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Debug(fmt.Sprintf(msg, args...)) }),
		ErrorLogger:            kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Error(fmt.Sprintf(msg, args...)) }),
		HeartbeatInterval:      3 * time.Second,
		CommitInterval:         time.Second,
		PartitionWatchInterval: 5 * time.Second,
		MaxAttempts:            3,
	})

	return &Consumer{
		reader:       reader,
		logger:       logger,
		handler:      handler,
		topic:        topic,
		groupID:      groupID,
		retryBackoff: defaultRetryBackoff,
		maxBackoff:   maxRetryBackoff,
	}
}

// Consume blocks until ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context) error {
	c.logger.Info("Kafka consumer starting", zap.String("topic", c.topic), zap.String("group_id", c.groupID))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Kafka consumer context cancelled, stopping.")
				return ctx.Err()
			}
			if errors.Is(err, kafka.ErrGroupClosed) {
				return err
			}
			c.logger.Error("Failed to fetch message from Kafka", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(1 * time.Second):
			}
			continue
		}

		if err := c.handleWithRetry(ctx, msg); err != nil {
			c.logger.Info("Kafka consumer stopped before message was handled",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			return err
		}

		if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
			c.logger.Error("Failed to commit offset for Kafka message",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(commitErr),
			)
			continue
		}
		c.logger.Debug("Kafka message offset committed",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)
	}
}

// handleWithRetry runs the handler until it succeeds or ctx is done. Skipping
// a failed message is not an option: committing a later offset in the same
// partition would commit past it.
func (c *Consumer) handleWithRetry(ctx context.Context, msg kafka.Message) error {
	backoff := c.retryBackoff
	for attempt := 1; ; attempt++ {
		err := c.handler(ctx, msg)
		if err == nil {
			return nil
		}
		c.logger.Error("Error handling Kafka message, retrying",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka consumer: %w", err)
	}
	return nil
}
