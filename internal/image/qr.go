package imagepkg

import (
	"image"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/youruser/cardforge/internal/errors"
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	b, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode qr")
	}
	return b, nil
}

// GenerateQRImage returns a QR code as an image for further composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	if size <= 0 {
		size = 256
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode qr")
	}
	return q.Image(size), nil
}
