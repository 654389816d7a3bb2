package imagepkg

import (
	"bytes"
	"image/png"
	"testing"
)

func TestGenerateQRPNG(t *testing.T) {
	data, err := GenerateQRPNG("https://example.com/deck/42", 128)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("QR size = %v, want 128x128", b)
	}
}

func TestGenerateQRImageDefaultSize(t *testing.T) {
	img, err := GenerateQRImage("deck", 0)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 256 {
		t.Errorf("default QR width = %d, want 256", b.Dx())
	}
}
