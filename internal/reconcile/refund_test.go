package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connector/internal/domain"
)

func TestBuildRefundCharge(t *testing.T) {
	req := domain.RefundRequest{PaymentID: "pay-1", RequestID: "req-9", Value: decimal.RequireFromString("50.00")}

	refund := BuildRefundCharge(domain.DefaultMarket(), req, "req-9", "https://cb")

	assert.Equal(t, "req-9", refund.IdempotencyKey)
	assert.NotEqual(t, req.PaymentID, refund.IdempotencyKey)
	assert.Equal(t, "pay-1", refund.ReferenceID)
	assert.Equal(t, int64(5000), refund.Amount)
	assert.Equal(t, "BRL", refund.Currency)
	assert.Equal(t, "BR", refund.Country)
	assert.Equal(t, "https://cb", refund.CallbackURL)
}

func TestProjectRefund_Accepted(t *testing.T) {
	req := domain.RefundRequest{PaymentID: "pay-1", RequestID: "req-9", Value: decimal.RequireFromString("50")}
	refund := domain.Charge{StatusCode: 200, IdempotencyKey: "req-9", ReferenceID: "pay-1", Amount: 5000, TransferStatus: domain.ChargeInProgress}

	resp := ProjectRefund(req, refund)

	require.NotNil(t, resp.RefundID)
	assert.Equal(t, "req-9", *resp.RefundID)
	assert.Equal(t, 50.0, resp.Value)
	assert.Equal(t, "pay-1", resp.PaymentID)
	assert.Equal(t, "req-9", resp.RequestID)
	assert.Empty(t, resp.Code)
}

func TestProjectRefund_Failed(t *testing.T) {
	req := domain.RefundRequest{PaymentID: "pay-1", RequestID: "req-9", Value: decimal.RequireFromString("12.34")}

	for _, refund := range []domain.Charge{
		{StatusCode: 200, ReferenceID: "pay-1", Amount: 1234, TransferStatus: domain.ChargeFailed},
		{StatusCode: 200, ReferenceID: "pay-1", Amount: 1234, TransferStatus: domain.ChargeSettled},
		{StatusCode: 400, ReferenceID: "pay-1", Amount: 1234, TransferStatus: domain.ChargeInProgress},
		{StatusCode: 500},
	} {
		resp := ProjectRefund(req, refund)

		assert.Nil(t, resp.RefundID)
		assert.Equal(t, 12.34, resp.Value)
		assert.Equal(t, "pay-1", resp.PaymentID)
		assert.Equal(t, CodeRefundError, resp.Code)
		assert.Equal(t, "Error when refunding the payment", resp.Message)
	}
}

func TestProjectSettlement(t *testing.T) {
	req := domain.SettlementRequest{PaymentID: "pay-1", RequestID: "req-3", Value: decimal.RequireFromString("99.90")}

	resp, ok := ProjectSettlement(req, domain.Charge{StatusCode: 200, IdempotencyKey: "pay-1", Amount: 1, TransferStatus: domain.ChargeSettled})
	require.True(t, ok)
	require.NotNil(t, resp.SettleID)
	assert.Equal(t, "pay-1", *resp.SettleID)
	assert.Equal(t, 99.9, resp.Value)
	assert.Equal(t, "req-3", resp.RequestID)

	for _, charge := range []domain.Charge{
		{StatusCode: 200, TransferStatus: domain.ChargeInProgress},
		{StatusCode: 200, TransferStatus: domain.ChargeCancelled},
		{StatusCode: 404, TransferStatus: domain.ChargeSettled},
	} {
		resp, ok := ProjectSettlement(req, charge)
		assert.False(t, ok)
		assert.Equal(t, domain.SettlementResponse{}, resp)
	}
}

func TestTestSuiteProjections(t *testing.T) {
	cancel := ApproveTestCancellation(domain.CancellationRequest{PaymentID: "p", RequestID: "r"}, "c-1")
	require.True(t, cancel.Approved())
	assert.Equal(t, "c-1", *cancel.CancellationID)

	refund := DenyTestRefund(domain.RefundRequest{PaymentID: "p", RequestID: "r"})
	assert.Nil(t, refund.RefundID)
	assert.Equal(t, CodeDenied, refund.Code)

	settle := DenyTestSettlement(domain.SettlementRequest{PaymentID: "p", RequestID: "r"})
	assert.Nil(t, settle.SettleID)
	assert.Equal(t, CodeDenied, settle.Code)
}

func TestProjector_TestSuiteAuthorization(t *testing.T) {
	p := NewProjector(&sequenceIDs{}, &stubRenderer{})
	card := func(number string) domain.AuthorizationRequest {
		return domain.AuthorizationRequest{PaymentID: "p", Card: &domain.Card{Number: number}}
	}

	assert.Equal(t, domain.OutcomeApproved, p.TestSuiteAuthorization(card("4444333322221111")).Status)
	assert.Equal(t, domain.OutcomeDenied, p.TestSuiteAuthorization(card("4444333322221112")).Status)
	assert.Equal(t, domain.OutcomeUndefined, p.TestSuiteAuthorization(card("4222222222222224")).Status)
	assert.Equal(t, domain.OutcomeUndefined, p.TestSuiteAuthorization(domain.AuthorizationRequest{PaymentID: "p"}).Status)
}
