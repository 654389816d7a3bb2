package deck

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/youruser/cardforge/internal/errors"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/util"
)

// ExportDeckText renders the deck as plain text: a "# name" heading, one
// "## file (rows x cols)" block per sheet, then "{n}x{card}" lines sorted by
// card name.
func ExportDeckText(d Deck) string {
	lines := []string{}
	if d.Name != "" {
		lines = append(lines, "# "+d.Name)
	}
	for _, s := range d.Sheets {
		lines = append(lines, fmt.Sprintf("## %s (%dx%d)", s.File, s.Rows, s.Cols))
		lines = append(lines, s.Cards...)
	}

	names := make([]string, 0, len(d.Cards))
	for name := range d.Cards {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		lines = append(lines, "## cards")
	}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%dx%s", d.Cards[name], name))
	}
	return strings.Join(lines, "\n")
}

// WriteText saves ExportDeckText(d) to path.
func WriteText(d Deck, path string) error {
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(ExportDeckText(d)+"\n"), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// CountsText is the compact "{n}x{card}" listing used for QR tiles.
func CountsText(d Deck) string {
	names := make([]string, 0, len(d.Cards))
	for name := range d.Cards {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%dx%s", d.Cards[name], name))
	}
	return strings.Join(lines, "\n")
}

// QRTile encodes the card counts of d as a size x size QR code that can be
// printed alongside the sheets. Very large decks exceed QR capacity and
// return an error.
func QRTile(d Deck, size int) (image.Image, error) {
	return imagepkg.GenerateQRImage(CountsText(d), size)
}
