package reconcile

import (
	"connector/internal/domain"
	"connector/internal/util"
)

// voucherDeadlineDays is fixed policy, not configuration.
const voucherDeadlineDays = 5

type ChargeBuilder struct {
	market domain.Market
	clock  util.Clock
}

func NewChargeBuilder(market domain.Market, clock util.Clock) *ChargeBuilder {
	return &ChargeBuilder{market: market, clock: clock}
}

// Build produces the gateway charge for req. The second result is false when
// the instrument is unsupported; the caller must not submit anything then.
func (b *ChargeBuilder) Build(req domain.AuthorizationRequest, instrument domain.Instrument, callbackURL string) (domain.ChargeRequest, bool) {
	method, ok := gatewayMethod(instrument)
	if !ok {
		return domain.ChargeRequest{}, false
	}

	charge := b.baseCharge(req, callbackURL)
	charge.PaymentMethod = method

	switch instrument {
	case domain.InstrumentCard:
		if req.Card != nil {
			charge.Card = &domain.ChargeCard{
				CardHolderName:  req.Card.Holder,
				CardNumber:      req.Card.Number,
				ExpirationMonth: req.Card.Expiration.Month,
				ExpirationYear:  req.Card.Expiration.Year,
				CVC:             req.Card.CSC,
			}
		}
		charge.Installments = req.Installments
	case domain.InstrumentInstantTransfer:
	case domain.InstrumentVoucher:
		deadline := b.clock.Now().AddDate(0, 0, voucherDeadlineDays)
		charge.PaymentTerm = &domain.PaymentTerm{PaymentDeadline: deadline.Unix()}
	case domain.InstrumentUnsupported:
		return domain.ChargeRequest{}, false
	}

	return charge, true
}

func (b *ChargeBuilder) baseCharge(req domain.AuthorizationRequest, callbackURL string) domain.ChargeRequest {
	buyer := req.MiniCart.Buyer
	address := req.MiniCart.BillingAddress

	return domain.ChargeRequest{
		IdempotencyKey: req.PaymentID,
		Amount:         domain.MajorToMinor(req.Value),
		Currency:       b.market.Currency,
		Country:        b.market.Country,
		PaymentFlow:    b.market.PaymentFlow,
		Description:    b.market.Description,
		CallbackURL:    callbackURL,
		Payer: domain.Payer{
			Name:  buyer.FirstName + " " + buyer.LastName,
			Email: buyer.Email,
			Document: domain.PayerDocument{
				DocumentID: buyer.Document,
				Type:       b.market.DocumentType,
			},
			BillingAddress: domain.BillingAddress{
				ZipCode:  address.PostalCode,
				State:    address.State,
				City:     address.City,
				District: address.Neighborhood,
				Street:   address.Street,
				Number:   address.Number,
				Country:  b.market.Country,
			},
		},
		RiskData: domain.RiskData{IPAddress: req.IPAddress},
	}
}
