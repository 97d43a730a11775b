package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"connector/internal/domain"
)

const (
	cardChargePath   = "/v1/payments/charges/card"
	pixChargePath    = "/v1/payments/charges/pix"
	boletoChargePath = "/v1/payments/charges/boleto"
	chargePath       = "/v1/payments/charges/"
	refundPath       = "/v1/payments/charges/refund"
	boletoPDFPath    = "/v1/payments/files/boleto/pdf/"
	tokenPath        = "/oauth2/token"

	apiKeyHeader = "x-api-key"
)

type Config struct {
	LiveBaseURL    string
	LiveAuthURL    string
	SandboxBaseURL string
	SandboxAuthURL string
	// ForceSandbox routes every merchant to the sandbox regardless of the
	// platform's sandboxMode flag.
	ForceSandbox bool
	Timeout      time.Duration
}

type endpoints struct {
	base string
	auth string
}

type HTTPFactory struct {
	cfg    Config
	http   *http.Client
	tokens TokenCache
	logger *zap.Logger
}

func NewHTTPFactory(cfg Config, tokens TokenCache, logger *zap.Logger) *HTTPFactory {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFactory{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
		logger: logger,
	}
}

func (f *HTTPFactory) For(creds Credentials) (Gateway, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if f.cfg.ForceSandbox {
		creds.Sandbox = true
	}
	urls := endpoints{base: f.cfg.LiveBaseURL, auth: f.cfg.LiveAuthURL}
	if creds.Sandbox {
		urls = endpoints{base: f.cfg.SandboxBaseURL, auth: f.cfg.SandboxAuthURL}
	}
	return &Client{
		urls:   urls,
		creds:  creds,
		http:   f.http,
		tokens: f.tokens,
		logger: f.logger.With(zap.String("client_id", creds.ClientID), zap.Bool("sandbox", creds.Sandbox)),
	}, nil
}

// Client talks to the gateway REST API on behalf of one merchant.
type Client struct {
	urls   endpoints
	creds  Credentials
	http   *http.Client
	tokens TokenCache
	logger *zap.Logger
}

func (c *Client) CreateCharge(ctx context.Context, req domain.ChargeRequest) (domain.Charge, error) {
	path, err := createPath(req.PaymentMethod)
	if err != nil {
		return domain.Charge{}, err
	}
	return c.doCharge(ctx, "create charge", http.MethodPost, path, req)
}

func (c *Client) GetCharge(ctx context.Context, idempotencyKey string) (domain.Charge, error) {
	return c.doCharge(ctx, "get charge", http.MethodGet, chargePath+url.PathEscape(idempotencyKey), nil)
}

func (c *Client) CancelCharge(ctx context.Context, idempotencyKey string) (domain.Charge, error) {
	return c.doCharge(ctx, "cancel charge", http.MethodPost, chargePath+url.PathEscape(idempotencyKey)+"/cancel", nil)
}

func (c *Client) RefundCharge(ctx context.Context, req domain.RefundChargeRequest) (domain.Charge, error) {
	return c.doCharge(ctx, "refund charge", http.MethodPost, refundPath, req)
}

func (c *Client) GetDocumentURL(ctx context.Context, idempotencyKey string) (domain.DocumentURL, error) {
	var document domain.DocumentURL
	status, err := c.do(ctx, "get document", http.MethodGet, boletoPDFPath+url.PathEscape(idempotencyKey), nil, &document)
	if err != nil {
		return domain.DocumentURL{}, err
	}
	if status != http.StatusOK {
		return domain.DocumentURL{}, &TransportError{Op: "get document", StatusCode: status, Err: errors.New("document not available")}
	}
	return document, nil
}

func createPath(method domain.GatewayPaymentMethod) (string, error) {
	switch method {
	case domain.MethodCreditCard:
		return cardChargePath, nil
	case domain.MethodPixStaticQR, domain.MethodPixDynamicQR:
		return pixChargePath, nil
	case domain.MethodBoleto:
		return boletoChargePath, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedInstrument, method)
	}
}

// doCharge decodes a charge body. A body without transferStatusCode takes the
// HTTP status, so non-2xx answers still reconcile as denied.
func (c *Client) doCharge(ctx context.Context, op, method, path string, body any) (domain.Charge, error) {
	var charge domain.Charge
	status, err := c.do(ctx, op, method, path, body, &charge)
	if err != nil {
		return domain.Charge{}, err
	}
	if charge.StatusCode == 0 {
		charge.StatusCode = status
	}
	c.logger.Debug("Gateway answered",
		zap.String("op", op),
		zap.String("idempotency_key", charge.IdempotencyKey),
		zap.Int("transfer_status_code", charge.StatusCode),
		zap.String("transfer_status", string(charge.TransferStatus)),
	)
	return charge, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (int, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return 0, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.urls.base+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(apiKeyHeader, c.creds.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return resp.StatusCode, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("body: %s", truncate(raw))}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode body: %w", err)}
	}
	return resp.StatusCode, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	key := tokenCacheKey(c.creds)
	if c.tokens != nil {
		token, ok, err := c.tokens.Get(ctx, key)
		if err != nil {
			c.logger.Warn("Token cache lookup failed, authenticating directly", zap.Error(err))
		} else if ok {
			return token, nil
		}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.creds.ClientID)
	form.Set("client_secret", c.creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.urls.auth+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(apiKeyHeader, c.creds.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Op: "authenticate", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &TransportError{Op: "authenticate", StatusCode: resp.StatusCode, Err: fmt.Errorf("body: %s", truncate(raw))}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", &TransportError{Op: "authenticate", StatusCode: resp.StatusCode, Err: err}
	}
	if tr.AccessToken == "" {
		return "", &TransportError{Op: "authenticate", StatusCode: resp.StatusCode, Err: errors.New("empty access token")}
	}

	if c.tokens != nil {
		if err := c.tokens.Set(ctx, key, tr.AccessToken, tokenTTL(tr.ExpiresIn)); err != nil {
			c.logger.Warn("Failed to cache access token", zap.Error(err))
		}
	}
	return tr.AccessToken, nil
}

func truncate(raw []byte) string {
	const limit = 512
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}
