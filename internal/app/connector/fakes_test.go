package connector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"connector/internal/domain"
	"connector/internal/infrastructure/gateway"
)

type fakeGateway struct {
	created   []domain.ChargeRequest
	refunds   []domain.RefundChargeRequest
	cancelled []string
	docCalls  []string

	createResp domain.Charge
	getResp    domain.Charge
	cancelResp domain.Charge
	refundResp domain.Charge
	document   domain.DocumentURL
	err        error
}

func (g *fakeGateway) CreateCharge(_ context.Context, req domain.ChargeRequest) (domain.Charge, error) {
	g.created = append(g.created, req)
	return g.createResp, g.err
}

func (g *fakeGateway) GetCharge(_ context.Context, _ string) (domain.Charge, error) {
	return g.getResp, g.err
}

func (g *fakeGateway) CancelCharge(_ context.Context, key string) (domain.Charge, error) {
	g.cancelled = append(g.cancelled, key)
	return g.cancelResp, g.err
}

func (g *fakeGateway) RefundCharge(_ context.Context, req domain.RefundChargeRequest) (domain.Charge, error) {
	g.refunds = append(g.refunds, req)
	return g.refundResp, g.err
}

func (g *fakeGateway) GetDocumentURL(_ context.Context, key string) (domain.DocumentURL, error) {
	g.docCalls = append(g.docCalls, key)
	return g.document, nil
}

type fakeFactory struct {
	gw    *fakeGateway
	creds []gateway.Credentials
}

func (f *fakeFactory) For(creds gateway.Credentials) (gateway.Gateway, error) {
	f.creds = append(f.creds, creds)
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return f.gw, nil
}

type memoryPayments struct {
	mu        sync.Mutex
	payments  map[string]domain.Payment
	upsertErr error
}

func newMemoryPayments() *memoryPayments {
	return &memoryPayments{payments: map[string]domain.Payment{}}
}

func (m *memoryPayments) UpsertTx(_ context.Context, _ domain.Querier, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.payments[payment.PaymentID] = *payment
	return nil
}

func (m *memoryPayments) GetByIDTx(_ context.Context, _ domain.Querier, paymentID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", paymentID, domain.ErrPaymentNotFound)
	}
	return &payment, nil
}

func (m *memoryPayments) UpdateStatusTx(_ context.Context, _ domain.Querier, paymentID string, status domain.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[paymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	payment.Status = status
	m.payments[paymentID] = payment
	return nil
}

type memoryOutbox struct {
	messages []domain.OutboxMessage
}

func (m *memoryOutbox) CreateMessageTx(_ context.Context, _ domain.Querier, msg *domain.OutboxMessage) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memoryOutbox) GetPendingMessages(context.Context, domain.Querier, int) ([]domain.OutboxMessage, error) {
	return m.messages, nil
}

func (m *memoryOutbox) MarkMessagesAsSent(context.Context, domain.Querier, []string) error {
	return nil
}

func (m *memoryOutbox) MarkMessagesAsFailed(context.Context, domain.Querier, []string) error {
	return nil
}

type memoryAuthorizations struct {
	stored map[string]domain.AuthorizationResponse
}

func (m *memoryAuthorizations) Get(_ context.Context, paymentID string) (*domain.AuthorizationResponse, error) {
	resp, ok := m.stored[paymentID]
	if !ok {
		return nil, nil
	}
	return &resp, nil
}

func (m *memoryAuthorizations) Save(_ context.Context, paymentID string, resp domain.AuthorizationResponse) error {
	m.stored[paymentID] = resp
	return nil
}

type sequenceIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type stubQR struct{}

func (stubQR) DataURI(content string) (string, error) {
	return "data:image/png;base64,iVBORw0KGgo=", nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }
