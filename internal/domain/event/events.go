package event

import (
	"time"

	"connector/internal/domain"
)

// ChargeNotification is the payload the gateway pushes when a charge changes
// state, either to the webhook or onto the charge events topic.
type ChargeNotification struct {
	EventType string `json:"eventType"`
	Data      struct {
		ChargeDetails domain.Charge `json:"chargeDetails"`
	} `json:"data"`
}

// PaymentOutcomeEvent is published for the platform notifier. Response has the
// same shape the authorize call returns.
type PaymentOutcomeEvent struct {
	PaymentID    string                       `json:"paymentId"`
	MerchantName string                       `json:"merchantName,omitempty"`
	CallbackURL  string                       `json:"callbackUrl,omitempty"`
	Response     domain.AuthorizationResponse `json:"response"`
	Timestamp    time.Time                    `json:"timestamp"`
}
