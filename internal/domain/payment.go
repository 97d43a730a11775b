package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the platform's view of a payment. Approved and denied are final,
// undefined means the platform keeps polling or waits for a callback.
type Outcome string

const (
	OutcomeApproved  Outcome = "approved"
	OutcomeDenied    Outcome = "denied"
	OutcomeUndefined Outcome = "undefined"
)

func (o Outcome) IsTerminal() bool {
	return o == OutcomeApproved || o == OutcomeDenied
}

// ClientIDSetting is the merchant setting carrying the gateway client id.
const ClientIDSetting = "Client ID"

type MerchantSetting struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type MerchantSettings []MerchantSetting

func (s MerchantSettings) Get(name string) string {
	for _, setting := range s {
		if setting.Name == name {
			return setting.Value
		}
	}
	return ""
}

type CardExpiration struct {
	Month string `json:"month"`
	Year  string `json:"year"`
}

type Card struct {
	Holder     string         `json:"holder"`
	Number     string         `json:"number"`
	CSC        string         `json:"csc"`
	Expiration CardExpiration `json:"expiration"`
}

type Buyer struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Document     string `json:"document"`
	DocumentType string `json:"documentType"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type Address struct {
	Country      string `json:"country"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type MiniCart struct {
	Buyer           Buyer   `json:"buyer"`
	BillingAddress  Address `json:"billingAddress"`
	ShippingAddress Address `json:"shippingAddress"`
}

// AuthorizationRequest is the platform's create-payment call. PaymentID is
// reused as the gateway idempotency key.
type AuthorizationRequest struct {
	Reference          string           `json:"reference"`
	OrderID            string           `json:"orderId"`
	TransactionID      string           `json:"transactionId"`
	PaymentID          string           `json:"paymentId"`
	PaymentMethod      string           `json:"paymentMethod"`
	MerchantName       string           `json:"merchantName"`
	Value              decimal.Decimal  `json:"value"`
	Currency           string           `json:"currency"`
	Installments       int              `json:"installments"`
	Card               *Card            `json:"card,omitempty"`
	MiniCart           MiniCart         `json:"miniCart"`
	CallbackURL        string           `json:"callbackUrl"`
	ReturnURL          string           `json:"returnUrl"`
	IPAddress          string           `json:"ipAddress"`
	SandboxMode        bool             `json:"sandboxMode"`
	MerchantSettings   MerchantSettings `json:"merchantSettings"`
	ShopperInteraction string           `json:"shopperInteraction"`
}

type CancellationRequest struct {
	PaymentID        string           `json:"paymentId"`
	RequestID        string           `json:"requestId"`
	TransactionID    string           `json:"transactionId"`
	AuthorizationID  string           `json:"authorizationId"`
	SandboxMode      bool             `json:"sandboxMode"`
	MerchantSettings MerchantSettings `json:"merchantSettings"`
}

type RefundRequest struct {
	PaymentID        string           `json:"paymentId"`
	RequestID        string           `json:"requestId"`
	SettleID         string           `json:"settleId"`
	TransactionID    string           `json:"transactionId"`
	Value            decimal.Decimal  `json:"value"`
	SandboxMode      bool             `json:"sandboxMode"`
	MerchantSettings MerchantSettings `json:"merchantSettings"`
}

type SettlementRequest struct {
	PaymentID        string           `json:"paymentId"`
	RequestID        string           `json:"requestId"`
	TransactionID    string           `json:"transactionId"`
	AuthorizationID  string           `json:"authorizationId"`
	Value            decimal.Decimal  `json:"value"`
	SandboxMode      bool             `json:"sandboxMode"`
	MerchantSettings MerchantSettings `json:"merchantSettings"`
}

type QRCodePayload struct {
	Code              string `json:"code"`
	QRCodeBase64Image string `json:"qrCodeBase64Image"`
}

type PaymentAppData struct {
	Payload QRCodePayload `json:"payload"`
}

// AuthorizationResponse is shared by the create, query and callback paths.
// AuthorizationID and NSU are present only on approved responses.
type AuthorizationResponse struct {
	PaymentID                     string          `json:"paymentId"`
	Status                        Outcome         `json:"status"`
	TID                           string          `json:"tid"`
	AuthorizationID               *string         `json:"authorizationId,omitempty"`
	NSU                           *string         `json:"nsu,omitempty"`
	PaymentURL                    string          `json:"paymentUrl,omitempty"`
	PaymentAppData                *PaymentAppData `json:"paymentAppData,omitempty"`
	IdentificationNumber          string          `json:"identificationNumber,omitempty"`
	IdentificationNumberFormatted string          `json:"identificationNumberFormatted,omitempty"`
	BarCodeImageNumber            string          `json:"barCodeImageNumber,omitempty"`
	Code                          string          `json:"code,omitempty"`
	Message                       string          `json:"message,omitempty"`
}

// CancellationResponse carries a nil CancellationID whenever the cancel was
// rejected; Code then says why.
type CancellationResponse struct {
	PaymentID      string  `json:"paymentId"`
	CancellationID *string `json:"cancellationId"`
	Code           string  `json:"code,omitempty"`
	Message        string  `json:"message,omitempty"`
	RequestID      string  `json:"requestId"`
}

func (r CancellationResponse) Approved() bool {
	return r.CancellationID != nil
}

type RefundResponse struct {
	PaymentID string  `json:"paymentId"`
	RefundID  *string `json:"refundId"`
	Value     float64 `json:"value"`
	Code      string  `json:"code,omitempty"`
	Message   string  `json:"message,omitempty"`
	RequestID string  `json:"requestId"`
}

type SettlementResponse struct {
	PaymentID string  `json:"paymentId"`
	SettleID  *string `json:"settleId"`
	Value     float64 `json:"value"`
	Code      string  `json:"code,omitempty"`
	Message   string  `json:"message,omitempty"`
	RequestID string  `json:"requestId"`
}

// Payment is the connector's bookkeeping row for one platform payment: where
// to send callbacks and the last outcome reported.
type Payment struct {
	PaymentID    string
	MerchantName string
	CallbackURL  string
	Instrument   Instrument
	Status       Outcome
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
