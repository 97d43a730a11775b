package gateway

import (
	"context"
	"errors"
	"fmt"

	"connector/internal/domain"
)

// Credentials identify one merchant towards the gateway.
type Credentials struct {
	ClientID     string
	ClientSecret string
	APIKey       string
	Sandbox      bool
}

func (c Credentials) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.APIKey == "" {
		return ErrMissingCredentials
	}
	return nil
}

var ErrMissingCredentials = errors.New("gateway credentials are incomplete")

// Gateway is the outbound charge API bound to a single merchant.
type Gateway interface {
	CreateCharge(ctx context.Context, req domain.ChargeRequest) (domain.Charge, error)
	GetCharge(ctx context.Context, idempotencyKey string) (domain.Charge, error)
	CancelCharge(ctx context.Context, idempotencyKey string) (domain.Charge, error)
	RefundCharge(ctx context.Context, req domain.RefundChargeRequest) (domain.Charge, error)
	GetDocumentURL(ctx context.Context, idempotencyKey string) (domain.DocumentURL, error)
}

// Factory hands out merchant-scoped gateways.
type Factory interface {
	For(creds Credentials) (Gateway, error)
}

// TransportError means the gateway could not be reached or answered with
// something that is not a charge. Business outcomes never produce it.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets callers match any transport fault against domain.ErrGatewayUnavailable.
func (e *TransportError) Is(target error) bool {
	return target == domain.ErrGatewayUnavailable
}
