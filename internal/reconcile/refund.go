package reconcile

import (
	"connector/internal/domain"
)

const (
	CodeRefundError      = "refund-error"
	messageRefunded      = "Successfully refunded"
	messageRefundFailure = "Error when refunding the payment"
	refundDescription    = "Connector PayIn Refund"
)

// BuildRefundCharge keys the refund by its own idempotency key and points
// back at the original payment.
func BuildRefundCharge(market domain.Market, req domain.RefundRequest, idempotencyKey, callbackURL string) domain.RefundChargeRequest {
	return domain.RefundChargeRequest{
		IdempotencyKey: idempotencyKey,
		ReferenceID:    req.PaymentID,
		Amount:         domain.MajorToMinor(req.Value),
		Currency:       market.Currency,
		Country:        market.Country,
		Description:    refundDescription,
		CallbackURL:    callbackURL,
	}
}

// ProjectRefund reads a refund answer. The gateway refunds asynchronously, so
// a 200 IN_PROGRESS is the acceptance signal.
func ProjectRefund(req domain.RefundRequest, refund domain.Charge) domain.RefundResponse {
	paymentID := refund.ReferenceID
	if paymentID == "" {
		paymentID = req.PaymentID
	}
	amount := refund.Amount
	if amount == 0 {
		amount = domain.MajorToMinor(req.Value)
	}
	value := domain.MinorToMajor(amount).InexactFloat64()

	if refund.Is(domain.StatusOK, domain.ChargeInProgress) {
		refundID := refund.IdempotencyKey
		return domain.RefundResponse{
			PaymentID: paymentID,
			RefundID:  &refundID,
			Value:     value,
			Message:   messageRefunded,
			RequestID: req.RequestID,
		}
	}

	return domain.RefundResponse{
		PaymentID: paymentID,
		RefundID:  nil,
		Value:     value,
		Code:      CodeRefundError,
		Message:   messageRefundFailure,
		RequestID: req.RequestID,
	}
}
