// Package qrcode rasterises instant-transfer codes into PNG images.
package qrcode

import (
	"encoding/base64"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const DataURIPrefix = "data:image/png;base64,"

const defaultSize = 256

type Renderer struct {
	size  int
	level goqrcode.RecoveryLevel
}

func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = defaultSize
	}
	return &Renderer{size: size, level: goqrcode.Medium}
}

// DataURI renders content as a PNG QR code and returns it as a data URI.
func (r *Renderer) DataURI(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qr code content is empty")
	}
	png, err := goqrcode.Encode(content, r.level, r.size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}
