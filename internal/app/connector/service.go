package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"connector/internal/domain"
	"connector/internal/domain/event"
	"connector/internal/infrastructure/gateway"
	"connector/internal/outbox"
	"connector/internal/reconcile"
	"connector/internal/repository/outbox_repo"
	"connector/internal/repository/payments_repo"
	"connector/internal/util"
)

// Caller carries what the platform sends in headers on every verb.
type Caller struct {
	AppKey    string
	AppToken  string
	TestSuite bool
}

// AuthorizationStore keeps test-suite authorize responses so retries get the
// same answer.
type AuthorizationStore interface {
	Get(ctx context.Context, paymentID string) (*domain.AuthorizationResponse, error)
	Save(ctx context.Context, paymentID string, resp domain.AuthorizationResponse) error
}

type ConnectorService interface {
	Authorize(ctx context.Context, caller Caller, req domain.AuthorizationRequest) (domain.AuthorizationResponse, error)
	Cancel(ctx context.Context, caller Caller, req domain.CancellationRequest) (domain.CancellationResponse, error)
	Refund(ctx context.Context, caller Caller, req domain.RefundRequest) (domain.RefundResponse, error)
	Settle(ctx context.Context, caller Caller, req domain.SettlementRequest) (domain.SettlementResponse, error)
	HandleChargeNotification(ctx context.Context, notification event.ChargeNotification) (domain.AuthorizationResponse, error)
}

type Deps struct {
	DB          *sql.DB
	Gateways    gateway.Factory
	PaymentRepo payments_repo.PaymentRepository
	OutboxRepo  outbox_repo.OutboxRepository
	TestStore   AuthorizationStore
	QR          reconcile.QRRenderer
	IDs         util.IDGenerator
	Clock       util.Clock
	Market      domain.Market
	// CallbackURL is where the gateway should push charge updates.
	CallbackURL string
}

type connectorService struct {
	db          *sql.DB
	gateways    gateway.Factory
	paymentRepo payments_repo.PaymentRepository
	outboxRepo  outbox_repo.OutboxRepository
	testStore   AuthorizationStore
	builder     *reconcile.ChargeBuilder
	projector   *reconcile.Projector
	ids         util.IDGenerator
	clock       util.Clock
	market      domain.Market
	callbackURL string
	logger      *zap.Logger
}

func NewConnectorService(deps Deps, logger *zap.Logger) ConnectorService {
	return &connectorService{
		db:          deps.DB,
		gateways:    deps.Gateways,
		paymentRepo: deps.PaymentRepo,
		outboxRepo:  deps.OutboxRepo,
		testStore:   deps.TestStore,
		builder:     reconcile.NewChargeBuilder(deps.Market, deps.Clock),
		projector:   reconcile.NewProjector(deps.IDs, deps.QR),
		ids:         deps.IDs,
		clock:       deps.Clock,
		market:      deps.Market,
		callbackURL: deps.CallbackURL,
		logger:      logger,
	}
}

func credentials(caller Caller, settings domain.MerchantSettings, sandbox bool) gateway.Credentials {
	return gateway.Credentials{
		ClientID:     settings.Get(domain.ClientIDSetting),
		ClientSecret: caller.AppToken,
		APIKey:       caller.AppKey,
		Sandbox:      sandbox,
	}
}

func (s *connectorService) Authorize(ctx context.Context, caller Caller, req domain.AuthorizationRequest) (domain.AuthorizationResponse, error) {
	logger := s.logger.With(zap.String("payment_id", req.PaymentID), zap.String("payment_method", req.PaymentMethod))

	if caller.TestSuite {
		return s.authorizeTestSuite(ctx, req, logger)
	}

	instrument := reconcile.ClassifyInstrument(req.PaymentMethod)
	if instrument == domain.InstrumentUnsupported {
		logger.Warn("Payment method has no gateway instrument")
		resp := s.projector.ProjectUnsupported(req)
		s.recordPayment(ctx, req, instrument, resp.Status, logger)
		return resp, nil
	}

	gw, err := s.gateways.For(credentials(caller, req.MerchantSettings, req.SandboxMode))
	if err != nil {
		return domain.AuthorizationResponse{}, fmt.Errorf("failed to resolve gateway for payment %s: %w", req.PaymentID, err)
	}

	chargeReq, ok := s.builder.Build(req, instrument, s.callbackURL)
	if !ok {
		return domain.AuthorizationResponse{}, fmt.Errorf("payment %s: %w", req.PaymentID, domain.ErrUnsupportedInstrument)
	}

	charge, err := gw.CreateCharge(ctx, chargeReq)
	if err != nil {
		logger.Error("Failed to create charge", zap.Error(err))
		return domain.AuthorizationResponse{}, fmt.Errorf("failed to create charge for payment %s: %w", req.PaymentID, err)
	}

	resp, err := s.projector.ProjectAuthorization(ctx, req, instrument, charge, gw)
	if err != nil {
		logger.Error("Failed to project authorization", zap.Error(err))
		return domain.AuthorizationResponse{}, err
	}

	logger.Info("Payment authorized",
		zap.String("instrument", instrument.String()),
		zap.Int("transfer_status_code", charge.StatusCode),
		zap.String("transfer_status", string(charge.TransferStatus)),
		zap.String("outcome", string(resp.Status)),
	)
	s.recordPayment(ctx, req, instrument, resp.Status, logger)
	return resp, nil
}

func (s *connectorService) authorizeTestSuite(ctx context.Context, req domain.AuthorizationRequest, logger *zap.Logger) (domain.AuthorizationResponse, error) {
	stored, err := s.testStore.Get(ctx, req.PaymentID)
	if err != nil {
		return domain.AuthorizationResponse{}, fmt.Errorf("failed to load test-suite authorization %s: %w", req.PaymentID, err)
	}
	if stored != nil {
		logger.Debug("Returning persisted test-suite authorization")
		return *stored, nil
	}

	resp := s.projector.TestSuiteAuthorization(req)
	if err := s.testStore.Save(ctx, req.PaymentID, resp); err != nil {
		return domain.AuthorizationResponse{}, fmt.Errorf("failed to persist test-suite authorization %s: %w", req.PaymentID, err)
	}
	logger.Info("Test-suite authorization", zap.String("outcome", string(resp.Status)))
	return resp, nil
}

// recordPayment keeps the callback URL for later gateway pushes. The charge
// already exists at this point, so a failed write is logged, not returned.
func (s *connectorService) recordPayment(ctx context.Context, req domain.AuthorizationRequest, instrument domain.Instrument, status domain.Outcome, logger *zap.Logger) {
	now := s.clock.Now().UTC()
	payment := &domain.Payment{
		PaymentID:    req.PaymentID,
		MerchantName: req.MerchantName,
		CallbackURL:  req.CallbackURL,
		Instrument:   instrument,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.paymentRepo.UpsertTx(ctx, s.db, payment); err != nil {
		logger.Error("Failed to record payment", zap.Error(err))
	}
}

func (s *connectorService) Cancel(ctx context.Context, caller Caller, req domain.CancellationRequest) (domain.CancellationResponse, error) {
	logger := s.logger.With(zap.String("payment_id", req.PaymentID), zap.String("request_id", req.RequestID))

	if caller.TestSuite {
		return reconcile.ApproveTestCancellation(req, s.ids.NewID()), nil
	}

	gw, err := s.gateways.For(credentials(caller, req.MerchantSettings, req.SandboxMode))
	if err != nil {
		return domain.CancellationResponse{}, fmt.Errorf("failed to resolve gateway for payment %s: %w", req.PaymentID, err)
	}

	current, err := gw.GetCharge(ctx, req.PaymentID)
	if err != nil {
		logger.Error("Failed to query charge before cancel", zap.Error(err))
		return domain.CancellationResponse{}, fmt.Errorf("failed to query charge %s: %w", req.PaymentID, err)
	}

	decision := reconcile.DecideCancel(current)
	logger.Info("Cancel decision",
		zap.Int("transfer_status_code", current.StatusCode),
		zap.String("transfer_status", string(current.TransferStatus)),
		zap.Stringer("decision", decision),
	)
	if rejection := decision.Rejection(); rejection != nil {
		return reconcile.RejectCancellation(req, rejection), nil
	}

	cancelled, err := gw.CancelCharge(ctx, req.PaymentID)
	if err != nil {
		logger.Error("Failed to cancel charge", zap.Error(err))
		return domain.CancellationResponse{}, fmt.Errorf("failed to cancel charge %s: %w", req.PaymentID, err)
	}
	resp := reconcile.ProjectCancellation(req, cancelled)
	if !resp.Approved() {
		logger.Warn("Gateway did not confirm cancellation",
			zap.Int("transfer_status_code", cancelled.StatusCode),
			zap.String("transfer_status", string(cancelled.TransferStatus)),
		)
	}
	return resp, nil
}

func (s *connectorService) Refund(ctx context.Context, caller Caller, req domain.RefundRequest) (domain.RefundResponse, error) {
	logger := s.logger.With(zap.String("payment_id", req.PaymentID), zap.String("request_id", req.RequestID))

	if caller.TestSuite {
		return reconcile.DenyTestRefund(req), nil
	}

	gw, err := s.gateways.For(credentials(caller, req.MerchantSettings, req.SandboxMode))
	if err != nil {
		return domain.RefundResponse{}, fmt.Errorf("failed to resolve gateway for payment %s: %w", req.PaymentID, err)
	}

	idempotencyKey := req.RequestID
	if idempotencyKey == "" {
		idempotencyKey = s.ids.NewID()
	}
	refundReq := reconcile.BuildRefundCharge(s.market, req, idempotencyKey, s.callbackURL)

	refund, err := gw.RefundCharge(ctx, refundReq)
	if err != nil {
		logger.Error("Failed to refund charge", zap.Error(err))
		return domain.RefundResponse{}, fmt.Errorf("failed to refund payment %s: %w", req.PaymentID, err)
	}

	resp := reconcile.ProjectRefund(req, refund)
	logger.Info("Refund processed",
		zap.Int64("amount", refundReq.Amount),
		zap.Int("transfer_status_code", refund.StatusCode),
		zap.String("transfer_status", string(refund.TransferStatus)),
		zap.Bool("accepted", resp.RefundID != nil),
	)
	return resp, nil
}

func (s *connectorService) Settle(ctx context.Context, caller Caller, req domain.SettlementRequest) (domain.SettlementResponse, error) {
	logger := s.logger.With(zap.String("payment_id", req.PaymentID), zap.String("request_id", req.RequestID))

	if caller.TestSuite {
		return reconcile.DenyTestSettlement(req), nil
	}

	gw, err := s.gateways.For(credentials(caller, req.MerchantSettings, req.SandboxMode))
	if err != nil {
		return domain.SettlementResponse{}, fmt.Errorf("failed to resolve gateway for payment %s: %w", req.PaymentID, err)
	}

	charge, err := gw.GetCharge(ctx, req.PaymentID)
	if err != nil {
		logger.Error("Failed to query charge for settlement", zap.Error(err))
		return domain.SettlementResponse{}, fmt.Errorf("failed to query charge %s: %w", req.PaymentID, err)
	}

	resp, ok := reconcile.ProjectSettlement(req, charge)
	if !ok {
		logger.Warn("Charge is not settled",
			zap.Int("transfer_status_code", charge.StatusCode),
			zap.String("transfer_status", string(charge.TransferStatus)),
		)
		return domain.SettlementResponse{}, fmt.Errorf("payment %s: %w", req.PaymentID, domain.ErrNotSettled)
	}
	logger.Info("Payment settled")
	return resp, nil
}

// HandleChargeNotification projects a gateway push and queues the outcome for
// the platform in the same transaction that updates the payment record.
func (s *connectorService) HandleChargeNotification(ctx context.Context, notification event.ChargeNotification) (domain.AuthorizationResponse, error) {
	resp := s.projector.ProjectCallback(notification)
	if resp.PaymentID == "" {
		return domain.AuthorizationResponse{}, domain.ErrInvalidNotification
	}
	logger := s.logger.With(zap.String("payment_id", resp.PaymentID), zap.String("outcome", string(resp.Status)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.AuthorizationResponse{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	payment, err := s.paymentRepo.GetByIDTx(ctx, tx, resp.PaymentID)
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
		logger.Warn("Notification for unknown payment, publishing without callback url")
		payment = &domain.Payment{PaymentID: resp.PaymentID}
	case err != nil:
		return domain.AuthorizationResponse{}, err
	default:
		if err := s.paymentRepo.UpdateStatusTx(ctx, tx, resp.PaymentID, resp.Status); err != nil {
			return domain.AuthorizationResponse{}, err
		}
	}

	now := s.clock.Now().UTC()
	payload, err := outbox.PreparePaymentOutcomePayload(*payment, resp, now)
	if err != nil {
		return domain.AuthorizationResponse{}, fmt.Errorf("failed to encode outcome for payment %s: %w", resp.PaymentID, err)
	}
	msg := &domain.OutboxMessage{
		ID:        s.ids.NewID(),
		PaymentID: resp.PaymentID,
		Outcome:   resp.Status,
		Payload:   payload,
		Status:    domain.OutboxStatusPending,
		CreatedAt: now,
	}
	if err := s.outboxRepo.CreateMessageTx(ctx, tx, msg); err != nil {
		return domain.AuthorizationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.AuthorizationResponse{}, fmt.Errorf("failed to commit notification for payment %s: %w", resp.PaymentID, err)
	}
	logger.Info("Charge notification processed")
	return resp, nil
}
