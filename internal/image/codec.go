package imagepkg

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // AI providers may answer with WebP

	"github.com/youruser/cardforge/internal/errors"
)

// JPEGQuality is used whenever a card or sheet is written as JPEG.
const JPEGQuality = 95

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// OutputPath places the file name of src in dir. Formats that can only be
// decoded, such as WebP, are written as PNG instead.
func OutputPath(dir, src string) string {
	name := filepath.Base(src)
	if _, err := imaging.FormatFromFilename(name); err != nil {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	}
	return filepath.Join(dir, name)
}

// Open decodes the image file at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode %s", path)
	}
	return img, nil
}

// Decode decodes raw image bytes.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode image bytes")
	}
	return img, nil
}

// Save writes img to path, creating the parent directory. The format follows
// the file extension.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create directory for %s", path)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "save %s", path)
	}
	return nil
}

// Encode writes img to w in the format named by ext ("png", ".jpg", ...).
func Encode(w io.Writer, img image.Image, ext string) error {
	format, err := imaging.FormatFromExtension(strings.TrimPrefix(ext, "."))
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnsupported, err, "output format %q", ext)
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(JPEGQuality))
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
