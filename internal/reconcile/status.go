package reconcile

import "connector/internal/domain"

// ReconcileStatus is the single mapping from gateway state to platform
// outcome. A non-200 transport code is a denial whatever the body says.
func ReconcileStatus(statusCode int, status domain.ChargeStatus) domain.Outcome {
	if statusCode != domain.StatusOK {
		return domain.OutcomeDenied
	}
	switch status {
	case domain.ChargeSettled:
		return domain.OutcomeApproved
	case domain.ChargeFailed:
		return domain.OutcomeDenied
	default:
		return domain.OutcomeUndefined
	}
}

func ReconcileCharge(charge domain.Charge) domain.Outcome {
	return ReconcileStatus(charge.StatusCode, charge.TransferStatus)
}
