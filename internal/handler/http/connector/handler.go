package connector_http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	app "connector/internal/app/connector"
	"connector/internal/domain"
	"connector/internal/domain/event"
	"connector/internal/infrastructure/gateway"
	"connector/internal/reconcile"
)

const (
	headerAppKey    = "X-VTEX-API-AppKey"
	headerAppToken  = "X-VTEX-API-AppToken"
	headerTestSuite = "X-VTEX-API-Is-TestSuite"
)

const (
	codeInvalidRequest     = "invalid-request"
	codeInvalidCredentials = "invalid-credentials"
	codeGatewayUnavailable = "gateway-unavailable"
	codeSettleError        = "settle-error"
	codeInternalError      = "internal-error"
)

type ConnectorHandler struct {
	service app.ConnectorService
	logger  *zap.Logger
}

func NewConnectorHandler(s app.ConnectorService, l *zap.Logger) *ConnectorHandler {
	return &ConnectorHandler{service: s, logger: l}
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaymentMethodManifest struct {
	Name string `json:"name"`
}

type Manifest struct {
	PaymentMethods []PaymentMethodManifest `json:"paymentMethods"`
}

func callerFrom(r *http.Request) app.Caller {
	return app.Caller{
		AppKey:    r.Header.Get(headerAppKey),
		AppToken:  r.Header.Get(headerAppToken),
		TestSuite: strings.EqualFold(r.Header.Get(headerTestSuite), "true"),
	}
}

func (h *ConnectorHandler) AuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid authorization request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}
	if req.PaymentID == "" {
		h.writeError(w, http.StatusBadRequest, codeInvalidRequest, "paymentId is required")
		return
	}

	resp, err := h.service.Authorize(r.Context(), callerFrom(r), req)
	if err != nil {
		h.handleServiceError(w, err, req.PaymentID)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ConnectorHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CancellationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid cancellation request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}
	req.PaymentID = paymentIDFrom(r, req.PaymentID)

	resp, err := h.service.Cancel(r.Context(), callerFrom(r), req)
	if err != nil {
		h.handleServiceError(w, err, req.PaymentID)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ConnectorHandler) RefundHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid refund request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}
	req.PaymentID = paymentIDFrom(r, req.PaymentID)

	resp, err := h.service.Refund(r.Context(), callerFrom(r), req)
	if err != nil {
		h.handleServiceError(w, err, req.PaymentID)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ConnectorHandler) SettleHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.SettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid settlement request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}
	req.PaymentID = paymentIDFrom(r, req.PaymentID)

	resp, err := h.service.Settle(r.Context(), callerFrom(r), req)
	if err != nil {
		h.handleServiceError(w, err, req.PaymentID)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ConnectorHandler) GatewayWebhookHandler(w http.ResponseWriter, r *http.Request) {
	var notification event.ChargeNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		h.logger.Warn("Invalid gateway notification body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}

	resp, err := h.service.HandleChargeNotification(r.Context(), notification)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidNotification) {
			h.writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
			return
		}
		h.logger.Error("Failed to process gateway notification", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, codeInternalError, "Internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ConnectorHandler) ManifestHandler(w http.ResponseWriter, r *http.Request) {
	labels := reconcile.SupportedLabels()
	manifest := Manifest{PaymentMethods: make([]PaymentMethodManifest, 0, len(labels))}
	for _, label := range labels {
		manifest.PaymentMethods = append(manifest.PaymentMethods, PaymentMethodManifest{Name: label})
	}
	h.writeJSON(w, http.StatusOK, manifest)
}

func paymentIDFrom(r *http.Request, fromBody string) string {
	if id := chi.URLParam(r, "paymentId"); id != "" {
		return id
	}
	return fromBody
}

func (h *ConnectorHandler) handleServiceError(w http.ResponseWriter, err error, paymentID string) {
	switch {
	case errors.Is(err, gateway.ErrMissingCredentials):
		h.logger.Warn("Request without usable gateway credentials", zap.String("payment_id", paymentID))
		h.writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "Gateway credentials are missing")
	case errors.Is(err, domain.ErrNotSettled):
		h.writeError(w, http.StatusInternalServerError, codeSettleError, "Charge is not settled")
	case errors.Is(err, domain.ErrGatewayUnavailable):
		h.logger.Error("Gateway unavailable", zap.String("payment_id", paymentID), zap.Error(err))
		h.writeError(w, http.StatusBadGateway, codeGatewayUnavailable, "Gateway could not be reached")
	default:
		h.logger.Error("Request failed", zap.String("payment_id", paymentID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, codeInternalError, "Internal server error")
	}
}

func (h *ConnectorHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func (h *ConnectorHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}
