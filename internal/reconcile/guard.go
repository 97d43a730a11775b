package reconcile

import "connector/internal/domain"

type CancelDecision int

const (
	CancelProceed CancelDecision = iota
	CancelRejectSettled
	CancelRejectManual
)

func (d CancelDecision) String() string {
	switch d {
	case CancelProceed:
		return "proceed"
	case CancelRejectSettled:
		return "reject_settled"
	default:
		return "reject_manual"
	}
}

const (
	CodeCancelError    = "cancel-error"
	CodeCancelManually = "cancel-manually"
)

// CancelRejection is a business refusal to cancel, not a transport fault.
type CancelRejection struct {
	Code    string
	Message string
}

func (r *CancelRejection) Error() string {
	return r.Code + ": " + r.Message
}

var (
	ErrCancelAlreadySettled = &CancelRejection{
		Code:    CodeCancelError,
		Message: "Transaction cannot be cancelled. It's already settled.",
	}
	ErrCancelManually = &CancelRejection{
		Code:    CodeCancelManually,
		Message: "Cancellation should be done manually",
	}
)

// DecideCancel is total over charge state. Only an in-progress charge read
// with a 200 may be cancelled.
func DecideCancel(current domain.Charge) CancelDecision {
	if current.StatusCode != domain.StatusOK {
		return CancelRejectManual
	}
	switch current.TransferStatus {
	case domain.ChargeInProgress:
		return CancelProceed
	case domain.ChargeSettled:
		return CancelRejectSettled
	default:
		return CancelRejectManual
	}
}

func (d CancelDecision) Rejection() *CancelRejection {
	switch d {
	case CancelProceed:
		return nil
	case CancelRejectSettled:
		return ErrCancelAlreadySettled
	default:
		return ErrCancelManually
	}
}

// ProjectCancellation maps the gateway's answer to a cancel call. Anything
// other than a 200 CANCELLED needs a human.
func ProjectCancellation(req domain.CancellationRequest, cancelled domain.Charge) domain.CancellationResponse {
	if cancelled.Is(domain.StatusOK, domain.ChargeCancelled) {
		key := cancelled.IdempotencyKey
		if key == "" {
			key = req.PaymentID
		}
		return domain.CancellationResponse{
			PaymentID:      key,
			CancellationID: &key,
			RequestID:      req.RequestID,
		}
	}
	return RejectCancellation(req, ErrCancelManually)
}

func RejectCancellation(req domain.CancellationRequest, rejection *CancelRejection) domain.CancellationResponse {
	return domain.CancellationResponse{
		PaymentID: req.PaymentID,
		Code:      rejection.Code,
		Message:   rejection.Message,
		RequestID: req.RequestID,
	}
}
