package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connector/internal/domain"
	"connector/internal/domain/event"
)

func TestProjector_Common(t *testing.T) {
	tests := []struct {
		outcome        domain.Outcome
		wantApprovalID bool
	}{
		{domain.OutcomeApproved, true},
		{domain.OutcomeDenied, false},
		{domain.OutcomeUndefined, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			p := NewProjector(&sequenceIDs{}, &stubRenderer{})

			resp := p.Common("pay-1", tt.outcome)

			assert.Equal(t, "pay-1", resp.PaymentID)
			assert.Equal(t, tt.outcome, resp.Status)
			assert.Equal(t, "TID-id-1", resp.TID)
			if tt.wantApprovalID {
				require.NotNil(t, resp.AuthorizationID)
				require.NotNil(t, resp.NSU)
				assert.Equal(t, "AUT-id-2", *resp.AuthorizationID)
				assert.Equal(t, "NSU-id-3", *resp.NSU)
			} else {
				assert.Nil(t, resp.AuthorizationID)
				assert.Nil(t, resp.NSU)
			}
		})
	}
}

func TestProjector_FreshTIDPerResponse(t *testing.T) {
	p := NewProjector(&sequenceIDs{}, &stubRenderer{})

	first := p.Common("pay-1", domain.OutcomeUndefined)
	second := p.Common("pay-1", domain.OutcomeUndefined)

	assert.NotEqual(t, first.TID, second.TID)
}

func TestProjector_ApprovalFieldsAbsentFromJSON(t *testing.T) {
	p := NewProjector(&sequenceIDs{}, &stubRenderer{})

	body, err := jsonOf(p.Common("pay-1", domain.OutcomeDenied))
	require.NoError(t, err)
	assert.NotContains(t, body, "authorizationId")
	assert.NotContains(t, body, "nsu")

	body, err = jsonOf(p.Common("pay-1", domain.OutcomeApproved))
	require.NoError(t, err)
	assert.Contains(t, body, `"authorizationId":"AUT-`)
	assert.Contains(t, body, `"nsu":"NSU-`)
}

func TestProjector_InstantTransferInProgress(t *testing.T) {
	renderer := &stubRenderer{}
	p := NewProjector(&sequenceIDs{}, renderer)
	charge := domain.Charge{
		StatusCode:     200,
		IdempotencyKey: "pay-pix",
		Amount:         1990,
		PaymentMethod:  domain.MethodPixStaticQR,
		TransferStatus: domain.ChargeInProgress,
		TransferDetails: &domain.TransferDetails{
			Pix: &domain.PixDetails{QRCode: "00020126580014br.gov.bcb.pix"},
		},
	}

	resp, err := p.ProjectAuthorization(context.Background(), domain.AuthorizationRequest{PaymentID: "pay-pix"}, domain.InstrumentInstantTransfer, charge, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeUndefined, resp.Status)
	require.NotNil(t, resp.PaymentAppData)
	assert.Equal(t, "00020126580014br.gov.bcb.pix", resp.PaymentAppData.Payload.Code)
	assert.NotEmpty(t, resp.PaymentAppData.Payload.QRCodeBase64Image)
	assert.False(t, strings.HasPrefix(resp.PaymentAppData.Payload.QRCodeBase64Image, "data:"))
	assert.Equal(t, "00020126580014br.gov.bcb.pix", renderer.content)
	assert.Nil(t, resp.AuthorizationID)
}

func TestProjector_InstantTransferWithoutUsableCode(t *testing.T) {
	tests := []struct {
		name      string
		details   *domain.TransferDetails
		renderErr error
		wantCode  string
	}{
		{name: "no transfer details", details: nil},
		{name: "no pix block", details: &domain.TransferDetails{}},
		{name: "empty code", details: &domain.TransferDetails{Pix: &domain.PixDetails{QRCode: ""}}},
		{
			name:      "render failure keeps raw code",
			details:   &domain.TransferDetails{Pix: &domain.PixDetails{QRCode: "code"}},
			renderErr: errors.New("boom"),
			wantCode:  "code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProjector(&sequenceIDs{}, &stubRenderer{err: tt.renderErr})
			charge := domain.Charge{
				StatusCode:      200,
				IdempotencyKey:  "pay-pix",
				TransferStatus:  domain.ChargeInProgress,
				TransferDetails: tt.details,
			}

			resp, err := p.ProjectAuthorization(context.Background(), domain.AuthorizationRequest{}, domain.InstrumentInstantTransfer, charge, nil)

			require.NoError(t, err)
			assert.Equal(t, domain.OutcomeUndefined, resp.Status)
			assert.Equal(t, "pay-pix", resp.PaymentID)
			assert.Equal(t, CodeQRUnavailable, resp.Code)
			assert.NotEmpty(t, resp.Message)
			if tt.wantCode == "" {
				assert.Nil(t, resp.PaymentAppData)
				return
			}
			require.NotNil(t, resp.PaymentAppData)
			assert.Equal(t, tt.wantCode, resp.PaymentAppData.Payload.Code)
			assert.Empty(t, resp.PaymentAppData.Payload.QRCodeBase64Image)
		})
	}
}

func TestProjector_Voucher(t *testing.T) {
	docs := &stubDocuments{url: domain.DocumentURL{Path: "https://gateway.example/boleto/pay-boleto.pdf"}}
	p := NewProjector(&sequenceIDs{}, &stubRenderer{})
	charge := domain.Charge{
		StatusCode:     200,
		IdempotencyKey: "pay-boleto",
		TransferStatus: domain.ChargeInProgress,
		TransferDetails: &domain.TransferDetails{
			Boleto: &domain.BoletoDetails{
				DigitalLine: "23790504004199031316957008109209378300000019900",
				Barcode:     "23793783000000199000504041990313165700810920",
			},
		},
	}

	resp, err := p.ProjectAuthorization(context.Background(), domain.AuthorizationRequest{}, domain.InstrumentVoucher, charge, docs)
	require.NoError(t, err)

	assert.Equal(t, []string{"pay-boleto"}, docs.calls)
	assert.Equal(t, domain.OutcomeUndefined, resp.Status)
	assert.Equal(t, "https://gateway.example/boleto/pay-boleto.pdf", resp.PaymentURL)
	assert.Equal(t, "23790504004199031316957008109209378300000019900", resp.IdentificationNumber)
	assert.Equal(t, "23790.50400 41990.313169 57008.109209 3 78300000019900", resp.IdentificationNumberFormatted)
	assert.Equal(t, "23793783000000199000504041990313165700810920", resp.BarCodeImageNumber)
	assert.Nil(t, resp.PaymentAppData)
}

func TestProjector_VoucherDocumentFailurePropagates(t *testing.T) {
	docs := &stubDocuments{err: errors.New("gateway down")}
	p := NewProjector(&sequenceIDs{}, &stubRenderer{})
	charge := domain.Charge{
		StatusCode:      200,
		IdempotencyKey:  "pay-boleto",
		TransferStatus:  domain.ChargeInProgress,
		TransferDetails: &domain.TransferDetails{Boleto: &domain.BoletoDetails{DigitalLine: "1"}},
	}

	_, err := p.ProjectAuthorization(context.Background(), domain.AuthorizationRequest{}, domain.InstrumentVoucher, charge, docs)
	assert.ErrorIs(t, err, docs.err)
}

func TestProjector_DeniedChargeIsNotEnriched(t *testing.T) {
	docs := &stubDocuments{}
	renderer := &stubRenderer{}
	p := NewProjector(&sequenceIDs{}, renderer)
	charge := domain.Charge{
		StatusCode:      400,
		TransferStatus:  domain.ChargeInProgress,
		TransferDetails: &domain.TransferDetails{Boleto: &domain.BoletoDetails{DigitalLine: "1"}},
	}

	resp, err := p.ProjectAuthorization(context.Background(), domain.AuthorizationRequest{PaymentID: "pay-x"}, domain.InstrumentVoucher, charge, docs)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeDenied, resp.Status)
	assert.Equal(t, "pay-x", resp.PaymentID)
	assert.Empty(t, docs.calls)
	assert.Empty(t, resp.PaymentURL)
}

func TestProjector_CardApproved(t *testing.T) {
	p := NewProjector(&sequenceIDs{}, &stubRenderer{})
	charge := domain.Charge{StatusCode: 200, IdempotencyKey: "pay-card", TransferStatus: domain.ChargeSettled}

	resp, err := p.ProjectAuthorization(context.Background(), domain.AuthorizationRequest{}, domain.InstrumentCard, charge, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeApproved, resp.Status)
	assert.Equal(t, "pay-card", resp.PaymentID)
	assert.NotNil(t, resp.AuthorizationID)
	assert.NotNil(t, resp.NSU)
	assert.Nil(t, resp.PaymentAppData)
	assert.Empty(t, resp.PaymentURL)
}

func TestProjector_Unsupported(t *testing.T) {
	p := NewProjector(&sequenceIDs{}, &stubRenderer{})

	resp := p.ProjectUnsupported(domain.AuthorizationRequest{PaymentID: "pay-u"})

	assert.Equal(t, domain.OutcomeDenied, resp.Status)
	assert.Equal(t, CodeUnsupportedMethod, resp.Code)
	assert.Nil(t, resp.AuthorizationID)
}

func TestProjector_Callback(t *testing.T) {
	p := NewProjector(&sequenceIDs{}, &stubRenderer{})
	var n event.ChargeNotification
	n.Data.ChargeDetails = domain.Charge{StatusCode: 200, IdempotencyKey: "pay-cb", TransferStatus: domain.ChargeSettled}

	resp := p.ProjectCallback(n)

	assert.Equal(t, "pay-cb", resp.PaymentID)
	assert.Equal(t, domain.OutcomeApproved, resp.Status)
	assert.NotNil(t, resp.AuthorizationID)

	n.Data.ChargeDetails.TransferStatus = domain.ChargeInProgress
	resp = p.ProjectCallback(n)
	assert.Equal(t, domain.OutcomeUndefined, resp.Status)
	assert.Nil(t, resp.AuthorizationID)
	assert.Nil(t, resp.NSU)
}
