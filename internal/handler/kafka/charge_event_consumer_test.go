package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	app "connector/internal/app/connector"
	"connector/internal/domain"
	"connector/internal/domain/event"
)

type recordingService struct {
	app.ConnectorService
	received []event.ChargeNotification
	err      error
}

func (s *recordingService) HandleChargeNotification(_ context.Context, n event.ChargeNotification) (domain.AuthorizationResponse, error) {
	s.received = append(s.received, n)
	return domain.AuthorizationResponse{PaymentID: n.Data.ChargeDetails.IdempotencyKey}, s.err
}

func TestChargeEventMessageHandler(t *testing.T) {
	svc := &recordingService{}
	handler := ChargeEventMessageHandler(svc, zap.NewNop())

	err := handler(context.Background(), kafka.Message{
		Value: []byte(`{"data":{"chargeDetails":{"idempotencyKey":"pay-1","transferStatusCode":200,"transferStatus":"FAILED"}}}`),
	})

	require.NoError(t, err)
	require.Len(t, svc.received, 1)
	assert.Equal(t, domain.ChargeFailed, svc.received[0].Data.ChargeDetails.TransferStatus)
}

func TestChargeEventMessageHandler_SkipsPoisonMessages(t *testing.T) {
	svc := &recordingService{}
	handler := ChargeEventMessageHandler(svc, zap.NewNop())

	assert.NoError(t, handler(context.Background(), kafka.Message{Value: []byte(`not json`)}))
	assert.Empty(t, svc.received)

	svc.err = domain.ErrInvalidNotification
	assert.NoError(t, handler(context.Background(), kafka.Message{Value: []byte(`{}`)}))
}

func TestChargeEventMessageHandler_RetriesOnFailure(t *testing.T) {
	boom := errors.New("db down")
	handler := ChargeEventMessageHandler(&recordingService{err: boom}, zap.NewNop())

	err := handler(context.Background(), kafka.Message{
		Value: []byte(`{"data":{"chargeDetails":{"idempotencyKey":"pay-1"}}}`),
	})

	assert.ErrorIs(t, err, boom)
}
