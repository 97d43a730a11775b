package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	app "connector/internal/app/connector"
	"connector/internal/domain"
	"connector/internal/domain/event"
	kafka_infra "connector/internal/infrastructure/kafka"
)

// ChargeEventMessageHandler feeds gateway charge events into the same
// notification path the webhook uses. Undecodable messages are skipped so
// they do not block the partition.
func ChargeEventMessageHandler(service app.ConnectorService, logger *zap.Logger) kafka_infra.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var notification event.ChargeNotification
		if err := json.Unmarshal(msg.Value, &notification); err != nil {
			logger.Error("Failed to unmarshal charge event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			return nil
		}

		charge := notification.Data.ChargeDetails
		logger.Info("Processing charge event",
			zap.String("payment_id", charge.IdempotencyKey),
			zap.String("event_type", notification.EventType),
			zap.Int("transfer_status_code", charge.StatusCode),
			zap.String("transfer_status", string(charge.TransferStatus)),
		)

		resp, err := service.HandleChargeNotification(ctx, notification)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidNotification) {
				logger.Warn("Skipping charge event without idempotency key", zap.Int64("offset", msg.Offset))
				return nil
			}
			return fmt.Errorf("failed to process charge event for payment %s: %w", charge.IdempotencyKey, err)
		}

		logger.Info("Charge event processed",
			zap.String("payment_id", resp.PaymentID),
			zap.String("outcome", string(resp.Status)),
		)
		return nil
	}
}
