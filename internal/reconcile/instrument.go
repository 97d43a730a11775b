package reconcile

import (
	"sort"

	"connector/internal/domain"
)

var instrumentsByLabel = map[string]domain.Instrument{
	"Visa":             domain.InstrumentCard,
	"Mastercard":       domain.InstrumentCard,
	"American Express": domain.InstrumentCard,
	"Elo":              domain.InstrumentCard,
	"Hipercard":        domain.InstrumentCard,
	"Diners":           domain.InstrumentCard,
	"JCB":              domain.InstrumentCard,
	"Discover":         domain.InstrumentCard,
	"Aura":             domain.InstrumentCard,
	"Pix":              domain.InstrumentInstantTransfer,
	"BankInvoice":      domain.InstrumentVoucher,
	"Boleto Bancário":  domain.InstrumentVoucher,
}

// ClassifyInstrument maps a platform payment method label onto a charge
// instrument. Unknown labels yield InstrumentUnsupported.
func ClassifyInstrument(label string) domain.Instrument {
	if instrument, ok := instrumentsByLabel[label]; ok {
		return instrument
	}
	return domain.InstrumentUnsupported
}

// SupportedLabels lists every label ClassifyInstrument accepts, sorted.
func SupportedLabels() []string {
	labels := make([]string, 0, len(instrumentsByLabel))
	for label := range instrumentsByLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func gatewayMethod(instrument domain.Instrument) (domain.GatewayPaymentMethod, bool) {
	switch instrument {
	case domain.InstrumentCard:
		return domain.MethodCreditCard, true
	case domain.InstrumentInstantTransfer:
		return domain.MethodPixStaticQR, true
	case domain.InstrumentVoucher:
		return domain.MethodBoleto, true
	case domain.InstrumentUnsupported:
		return "", false
	}
	return "", false
}
