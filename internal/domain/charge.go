package domain

// Instrument is the closed set of charge instruments the connector can build.
type Instrument int

const (
	InstrumentUnsupported Instrument = iota
	InstrumentCard
	InstrumentInstantTransfer
	InstrumentVoucher
)

func (i Instrument) String() string {
	switch i {
	case InstrumentCard:
		return "card"
	case InstrumentInstantTransfer:
		return "instant_transfer"
	case InstrumentVoucher:
		return "voucher"
	default:
		return "unsupported"
	}
}

func ParseInstrument(s string) Instrument {
	switch s {
	case "card":
		return InstrumentCard
	case "instant_transfer":
		return InstrumentInstantTransfer
	case "voucher":
		return InstrumentVoucher
	default:
		return InstrumentUnsupported
	}
}

type GatewayPaymentMethod string

const (
	MethodCreditCard   GatewayPaymentMethod = "CREDIT_CARD"
	MethodPixStaticQR  GatewayPaymentMethod = "PIX_STATIC_QR"
	MethodPixDynamicQR GatewayPaymentMethod = "PIX_DYNAMIC_QR"
	MethodBoleto       GatewayPaymentMethod = "BOLETO"
)

// ChargeStatus is the gateway's lifecycle state of a charge.
type ChargeStatus string

const (
	ChargeInProgress ChargeStatus = "IN_PROGRESS"
	ChargeSettled    ChargeStatus = "SETTLED"
	ChargeFailed     ChargeStatus = "FAILED"
	ChargeCancelled  ChargeStatus = "CANCELLED"
)

// StatusOK is the only transport status code the reconciler trusts.
const StatusOK = 200

type PayerDocument struct {
	DocumentID string `json:"documentId"`
	Type       string `json:"type"`
}

type BillingAddress struct {
	ZipCode  string `json:"zipCode"`
	State    string `json:"state"`
	City     string `json:"city"`
	District string `json:"district"`
	Street   string `json:"street"`
	Number   string `json:"number"`
	Country  string `json:"country"`
}

type Payer struct {
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Document       PayerDocument  `json:"document"`
	BillingAddress BillingAddress `json:"billingAddress"`
}

type ChargeCard struct {
	CardHolderName  string `json:"cardHolderName"`
	CardNumber      string `json:"cardNumber"`
	ExpirationMonth string `json:"expirationMonth"`
	ExpirationYear  string `json:"expirationYear"`
	CVC             string `json:"cvc"`
}

type PaymentTerm struct {
	PaymentDeadline int64 `json:"paymentDeadline"`
}

// RiskData is always sent; an unknown caller IP is an empty string.
type RiskData struct {
	IPAddress string `json:"ipAddress"`
}

type ChargeRequest struct {
	IdempotencyKey string               `json:"idempotencyKey"`
	Amount         int64                `json:"amount"`
	Currency       string               `json:"currency"`
	Country        string               `json:"country"`
	PaymentMethod  GatewayPaymentMethod `json:"paymentMethod"`
	PaymentFlow    string               `json:"paymentFlow"`
	Description    string               `json:"description"`
	CallbackURL    string               `json:"callbackUrl,omitempty"`
	Payer          Payer                `json:"payer"`
	Card           *ChargeCard          `json:"card,omitempty"`
	Installments   int                  `json:"installments,omitempty"`
	PaymentTerm    *PaymentTerm         `json:"paymentTerm,omitempty"`
	RiskData       RiskData             `json:"riskData"`
}

type PixDetails struct {
	QRCode string `json:"qrCode"`
}

type BoletoDetails struct {
	DigitalLine string `json:"digitalLine"`
	Barcode     string `json:"barcode"`
}

type TransferDetails struct {
	Pix    *PixDetails    `json:"pix,omitempty"`
	Boleto *BoletoDetails `json:"boleto,omitempty"`
}

// Charge is the gateway's record of a charge or refund. StatusCode is the
// transport status reported alongside the lifecycle state.
type Charge struct {
	StatusCode      int                  `json:"transferStatusCode"`
	IdempotencyKey  string               `json:"idempotencyKey"`
	ReferenceID     string               `json:"referenceId,omitempty"`
	Amount          int64                `json:"amount"`
	Currency        string               `json:"currency,omitempty"`
	Country         string               `json:"country,omitempty"`
	PaymentMethod   GatewayPaymentMethod `json:"paymentMethod,omitempty"`
	TransferStatus  ChargeStatus         `json:"transferStatus"`
	TransferDetails *TransferDetails     `json:"transferDetails,omitempty"`
}

func (c Charge) Is(statusCode int, status ChargeStatus) bool {
	return c.StatusCode == statusCode && c.TransferStatus == status
}

type RefundChargeRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
	ReferenceID    string `json:"referenceId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Country        string `json:"country"`
	Description    string `json:"description"`
	CallbackURL    string `json:"callbackUrl"`
}

type DocumentURL struct {
	Path string `json:"path"`
}
