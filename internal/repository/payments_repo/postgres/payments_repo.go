package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"connector/internal/domain"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// UpsertTx records a payment on first authorize. A retried authorize keeps
// the original created_at and overwrites the rest.
func (r *PaymentRepository) UpsertTx(ctx context.Context, querier domain.Querier, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (payment_id, merchant_name, callback_url, instrument, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (payment_id) DO UPDATE
		SET merchant_name = EXCLUDED.merchant_name,
		    callback_url = EXCLUDED.callback_url,
		    instrument = EXCLUDED.instrument,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := querier.ExecContext(ctx, query,
		payment.PaymentID,
		payment.MerchantName,
		payment.CallbackURL,
		payment.Instrument.String(),
		string(payment.Status),
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

func (r *PaymentRepository) GetByIDTx(ctx context.Context, querier domain.Querier, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT payment_id, merchant_name, callback_url, instrument, status, created_at, updated_at
		FROM payments
		WHERE payment_id = $1
	`
	payment := &domain.Payment{}
	var instrument, status string
	err := querier.QueryRowContext(ctx, query, paymentID).Scan(
		&payment.PaymentID,
		&payment.MerchantName,
		&payment.CallbackURL,
		&instrument,
		&status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %s: %w", paymentID, domain.ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", paymentID, err)
	}
	payment.Instrument = domain.ParseInstrument(instrument)
	payment.Status = domain.Outcome(status)
	return payment, nil
}

func (r *PaymentRepository) UpdateStatusTx(ctx context.Context, querier domain.Querier, paymentID string, status domain.Outcome) error {
	query := `
		UPDATE payments
		SET status = $1, updated_at = $2
		WHERE payment_id = $3
	`
	res, err := querier.ExecContext(ctx, query, string(status), time.Now().UTC(), paymentID)
	if err != nil {
		return fmt.Errorf("failed to update payment status %s: %w", paymentID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for payment status update: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("payment %s: %w", paymentID, domain.ErrPaymentNotFound)
	}
	return nil
}
