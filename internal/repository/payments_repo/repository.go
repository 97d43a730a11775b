package payments_repo

import (
	"context"

	"connector/internal/domain"
)

type PaymentRepository interface {
	UpsertTx(ctx context.Context, querier domain.Querier, payment *domain.Payment) error
	GetByIDTx(ctx context.Context, querier domain.Querier, paymentID string) (*domain.Payment, error)
	UpdateStatusTx(ctx context.Context, querier domain.Querier, paymentID string, status domain.Outcome) error
}
