package qrcode

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// DataURIPrefix is prepended to the base64 PNG payload.
const DataURIPrefix = "data:image/png;base64,"

// DefaultSize is the rendered image width and height in pixels.
const DefaultSize = 256

// ErrEmptyContent indicates there is nothing to encode.
var ErrEmptyContent = errors.New("qrcode: content is empty")

// Renderer turns text into image data suitable for direct display.
type Renderer interface {
	Render(ctx context.Context, content string) (string, error)
}

// PNG renders QR symbols as PNG data URIs.
type PNG struct {
	size  int
	level qr.ErrorCorrectionLevel
}

// NewPNG returns a PNG renderer producing size x size images.
//
// Non-positive sizes fall back to DefaultSize.
func NewPNG(size int) *PNG {
	if size <= 0 {
		size = DefaultSize
	}

	return &PNG{size: size, level: qr.M}
}

type result struct {
	uri string
	err error
}

// Render encodes content off the caller goroutine and waits for either the
// image or the context to finish.
func (p *PNG) Render(ctx context.Context, content string) (string, error) {
	if content == "" {
		return "", ErrEmptyContent
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan result, 1)
	go func() {
		uri, err := p.encode(content)
		done <- result{uri: uri, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.uri, res.err
	}
}

func (p *PNG) encode(content string) (string, error) {
	code, err := qr.Encode(content, p.level, qr.Auto)
	if err != nil {
		return "", err
	}

	scaled, err := barcode.Scale(code, p.size, p.size)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return "", err
	}

	return DataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
