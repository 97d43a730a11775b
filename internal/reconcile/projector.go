package reconcile

import (
	"context"

	"connector/internal/domain"
	"connector/internal/domain/event"
	"connector/internal/util"
)

const (
	tidPrefix           = "TID-"
	authorizationPrefix = "AUT-"
	nsuPrefix           = "NSU-"
)

const (
	CodeUnsupportedMethod    = "unsupported-payment-method"
	messageUnsupportedMethod = "Payment method is not supported by this connector"
)

// Projector assembles platform responses from reconciled gateway state.
type Projector struct {
	ids util.IDGenerator
	qr  QRRenderer
}

func NewProjector(ids util.IDGenerator, qr QRRenderer) *Projector {
	return &Projector{ids: ids, qr: qr}
}

// Common builds the fields every authorization-shaped response carries. The
// authorization id and NSU exist only on approved responses.
func (p *Projector) Common(paymentID string, outcome domain.Outcome) domain.AuthorizationResponse {
	resp := domain.AuthorizationResponse{
		PaymentID: paymentID,
		Status:    outcome,
		TID:       tidPrefix + p.ids.NewID(),
	}
	if outcome == domain.OutcomeApproved {
		authorizationID := authorizationPrefix + p.ids.NewID()
		nsu := nsuPrefix + p.ids.NewID()
		resp.AuthorizationID = &authorizationID
		resp.NSU = &nsu
	}
	return resp
}

// ProjectAuthorization turns a freshly created charge into the authorize
// response, enriching it per instrument. Denied charges are not enriched.
func (p *Projector) ProjectAuthorization(
	ctx context.Context,
	req domain.AuthorizationRequest,
	instrument domain.Instrument,
	charge domain.Charge,
	docs DocumentResolver,
) (domain.AuthorizationResponse, error) {
	paymentID := charge.IdempotencyKey
	if paymentID == "" {
		paymentID = req.PaymentID
	}

	outcome := ReconcileCharge(charge)
	resp := p.Common(paymentID, outcome)
	if outcome == domain.OutcomeDenied {
		return resp, nil
	}

	switch instrument {
	case domain.InstrumentInstantTransfer:
		p.attachQRCode(&resp, charge)
	case domain.InstrumentVoucher:
		if err := p.attachVoucher(ctx, &resp, charge, docs); err != nil {
			return domain.AuthorizationResponse{}, err
		}
	case domain.InstrumentCard, domain.InstrumentUnsupported:
	}
	return resp, nil
}

// ProjectUnsupported answers an authorize call whose payment method has no
// gateway instrument. No charge exists, so the payment is denied.
func (p *Projector) ProjectUnsupported(req domain.AuthorizationRequest) domain.AuthorizationResponse {
	resp := p.Common(req.PaymentID, domain.OutcomeDenied)
	resp.Code = CodeUnsupportedMethod
	resp.Message = messageUnsupportedMethod
	return resp
}

// ProjectCallback translates a gateway push into the same response shape the
// polling paths produce.
func (p *Projector) ProjectCallback(notification event.ChargeNotification) domain.AuthorizationResponse {
	charge := notification.Data.ChargeDetails
	return p.Common(charge.IdempotencyKey, ReconcileCharge(charge))
}
