package reconcile

import (
	"context"
	"fmt"
	"strings"

	"connector/internal/domain"
)

const pngDataURIPrefix = "data:image/png;base64,"

const (
	CodeQRUnavailable     = "qr-code-unavailable"
	messageQRMissing      = "Gateway returned no instant-transfer code"
	messageQRRenderFailed = "Instant-transfer code could not be rendered"
)

type QRRenderer interface {
	DataURI(content string) (string, error)
}

// DocumentResolver looks up the printable document of a voucher charge.
type DocumentResolver interface {
	GetDocumentURL(ctx context.Context, idempotencyKey string) (domain.DocumentURL, error)
}

// attachQRCode adds the instant-transfer payload. The charge already exists at
// this point, so a missing or unrenderable code never fails the call: the
// response keeps its outcome and carries CodeQRUnavailable instead.
func (p *Projector) attachQRCode(resp *domain.AuthorizationResponse, charge domain.Charge) {
	var code string
	if charge.TransferDetails != nil && charge.TransferDetails.Pix != nil {
		code = charge.TransferDetails.Pix.QRCode
	}
	if code == "" {
		resp.Code = CodeQRUnavailable
		resp.Message = messageQRMissing
		return
	}

	payload := domain.QRCodePayload{Code: code}
	uri, err := p.qr.DataURI(code)
	if err != nil {
		resp.Code = CodeQRUnavailable
		resp.Message = fmt.Sprintf("%s: %v", messageQRRenderFailed, err)
	} else {
		payload.QRCodeBase64Image = strings.TrimPrefix(uri, pngDataURIPrefix)
	}
	resp.PaymentAppData = &domain.PaymentAppData{Payload: payload}
}

func (p *Projector) attachVoucher(ctx context.Context, resp *domain.AuthorizationResponse, charge domain.Charge, docs DocumentResolver) error {
	if charge.TransferDetails == nil || charge.TransferDetails.Boleto == nil {
		return nil
	}
	document, err := docs.GetDocumentURL(ctx, charge.IdempotencyKey)
	if err != nil {
		return fmt.Errorf("failed to resolve voucher document for payment %s: %w", resp.PaymentID, err)
	}
	boleto := charge.TransferDetails.Boleto
	resp.PaymentURL = document.Path
	resp.IdentificationNumber = boleto.DigitalLine
	resp.IdentificationNumberFormatted = FormatDigitalLine(boleto.DigitalLine)
	resp.BarCodeImageNumber = boleto.Barcode
	return nil
}
