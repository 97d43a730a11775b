package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"connector/internal/domain"
	"connector/internal/domain/event"
	kafkaInfra "connector/internal/infrastructure/kafka"
)

const batchSize = 10

type OutboxRepository interface {
	GetPendingMessages(ctx context.Context, querier domain.Querier, limit int) ([]domain.OutboxMessage, error)
	MarkMessagesAsSent(ctx context.Context, querier domain.Querier, ids []string) error
	MarkMessagesAsFailed(ctx context.Context, querier domain.Querier, ids []string) error
}

// Processor relays payment outcomes from the outbox table to Kafka.
type Processor struct {
	db            *sql.DB
	outboxRepo    OutboxRepository
	kafkaProducer kafkaInfra.Producer
	topic         string
	pollInterval  time.Duration
	pollTimeout   time.Duration
	maxAge        time.Duration
	now           func() time.Time
	logger        *zap.Logger

	shutdownSignal chan struct{}
	shutdownOnce   sync.Once
	done           chan struct{}
}

func NewProcessor(
	db *sql.DB,
	outboxRepo OutboxRepository,
	kafkaProducer kafkaInfra.Producer,
	topic string,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	maxAge time.Duration,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		db:             db,
		outboxRepo:     outboxRepo,
		kafkaProducer:  kafkaProducer,
		topic:          topic,
		pollInterval:   pollInterval,
		pollTimeout:    pollTimeout,
		maxAge:         maxAge,
		now:            time.Now,
		logger:         logger,
		shutdownSignal: make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start polls until ctx is cancelled or Stop is called.
func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("Starting outbox processor...")
	ticker := time.NewTicker(p.pollInterval)

	go func() {
		defer close(p.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.logger.Info("Outbox processor context cancelled.")
				return
			case <-p.shutdownSignal:
				p.logger.Info("Outbox processor stopped.")
				return
			case <-ticker.C:
				p.processOutboxMessages(ctx)
			}
		}
	}()
}

func (p *Processor) Stop() {
	p.shutdownOnce.Do(func() {
		p.logger.Info("Signaling outbox processor to stop...")
		close(p.shutdownSignal)
	})
}

// Done is closed once the polling goroutine has exited.
func (p *Processor) Done() <-chan struct{} {
	return p.done
}

// processOutboxMessages handles one batch in one transaction. Messages that
// fail to publish stay pending for the next poll until they exceed maxAge,
// then they are marked failed. Once a payment's message fails, its later
// messages wait for the next poll so outcomes are never published out of order.
func (p *Processor) processOutboxMessages(ctx context.Context) {
	batchCtx, cancel := context.WithTimeout(ctx, p.pollTimeout)
	defer cancel()

	tx, err := p.db.BeginTx(batchCtx, nil)
	if err != nil {
		p.logger.Error("Failed to begin outbox transaction", zap.Error(err))
		return
	}
	defer func() { _ = tx.Rollback() }()

	messages, err := p.outboxRepo.GetPendingMessages(batchCtx, tx, batchSize)
	if err != nil {
		p.logger.Error("Failed to get pending outbox messages", zap.Error(err))
		return
	}
	if len(messages) == 0 {
		return
	}
	p.logger.Debug("Found pending outbox messages", zap.Int("count", len(messages)))

	var sent, failed []string
	blocked := make(map[string]bool)
	for _, msg := range messages {
		if blocked[msg.PaymentID] {
			continue
		}
		if err := p.kafkaProducer.Produce(batchCtx, msg.PaymentID, p.topic, msg.Payload); err != nil {
			p.logger.Error("Failed to send outbox message to Kafka",
				zap.String("message_id", msg.ID),
				zap.String("payment_id", msg.PaymentID),
				zap.Error(err),
			)
			if p.maxAge > 0 && p.now().Sub(msg.CreatedAt) > p.maxAge {
				failed = append(failed, msg.ID)
				continue
			}
			blocked[msg.PaymentID] = true
			continue
		}
		sent = append(sent, msg.ID)
	}

	if err := p.outboxRepo.MarkMessagesAsSent(batchCtx, tx, sent); err != nil {
		p.logger.Error("Failed to mark outbox messages as sent", zap.Strings("message_ids", sent), zap.Error(err))
		return
	}
	if err := p.outboxRepo.MarkMessagesAsFailed(batchCtx, tx, failed); err != nil {
		p.logger.Error("Failed to mark outbox messages as failed", zap.Strings("message_ids", failed), zap.Error(err))
		return
	}
	if err := tx.Commit(); err != nil {
		p.logger.Error("Failed to commit outbox transaction", zap.Error(err))
		return
	}

	if len(failed) > 0 {
		p.logger.Warn("Outbox messages expired without being published", zap.Strings("message_ids", failed))
	}
	p.logger.Info("Outbox batch processed", zap.Int("sent", len(sent)), zap.Int("failed", len(failed)))
}

func PreparePaymentOutcomePayload(payment domain.Payment, resp domain.AuthorizationResponse, eventTime time.Time) ([]byte, error) {
	return json.Marshal(event.PaymentOutcomeEvent{
		PaymentID:    payment.PaymentID,
		MerchantName: payment.MerchantName,
		CallbackURL:  payment.CallbackURL,
		Response:     resp,
		Timestamp:    eventTime,
	})
}
