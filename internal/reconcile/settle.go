package reconcile

import "connector/internal/domain"

const messageSettled = "Successfully settled"

// ProjectSettlement succeeds only for a 200 SETTLED charge and echoes the
// amount the platform asked to settle.
func ProjectSettlement(req domain.SettlementRequest, charge domain.Charge) (domain.SettlementResponse, bool) {
	if !charge.Is(domain.StatusOK, domain.ChargeSettled) {
		return domain.SettlementResponse{}, false
	}
	settleID := charge.IdempotencyKey
	return domain.SettlementResponse{
		PaymentID: charge.IdempotencyKey,
		SettleID:  &settleID,
		Value:     req.Value.InexactFloat64(),
		Message:   messageSettled,
		RequestID: req.RequestID,
	}, true
}
