package reconcile

import "connector/internal/domain"

// Canned answers for the platform's homologation test suite.

const (
	CodeDenied          = "deny"
	messageRefundDenied = "Refund has been denied"
	messageSettleDenied = "Settlement has been denied"
)

func ApproveTestCancellation(req domain.CancellationRequest, cancellationID string) domain.CancellationResponse {
	return domain.CancellationResponse{
		PaymentID:      req.PaymentID,
		CancellationID: &cancellationID,
		RequestID:      req.RequestID,
	}
}

func DenyTestRefund(req domain.RefundRequest) domain.RefundResponse {
	return domain.RefundResponse{
		PaymentID: req.PaymentID,
		Value:     0,
		Code:      CodeDenied,
		Message:   messageRefundDenied,
		RequestID: req.RequestID,
	}
}

func DenyTestSettlement(req domain.SettlementRequest) domain.SettlementResponse {
	return domain.SettlementResponse{
		PaymentID: req.PaymentID,
		Value:     0,
		Code:      CodeDenied,
		Message:   messageSettleDenied,
		RequestID: req.RequestID,
	}
}

// Card numbers the homologation suite uses to drive synchronous outcomes.
const (
	testSuiteApprovedCard = "4444333322221111"
	testSuiteDeniedCard   = "4444333322221112"
)

// TestSuiteAuthorization answers an authorize call without touching the
// gateway. Non-card methods and unknown cards stay undefined, as an
// asynchronous payment would.
func (p *Projector) TestSuiteAuthorization(req domain.AuthorizationRequest) domain.AuthorizationResponse {
	outcome := domain.OutcomeUndefined
	if req.Card != nil {
		switch req.Card.Number {
		case testSuiteApprovedCard:
			outcome = domain.OutcomeApproved
		case testSuiteDeniedCard:
			outcome = domain.OutcomeDenied
		}
	}
	return p.Common(req.PaymentID, outcome)
}
