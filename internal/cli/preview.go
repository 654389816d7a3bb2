package cli

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/deck"
	"github.com/youruser/cardforge/internal/document"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/util"
)

const defaultPreviewWidth = 60

func newPreviewCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "preview <image|url|document.json|deck.json>",
		Short: "Show a card, sheet, card document or deck manifest in the terminal",
		Long: `Preview draws an image with 24-bit colour half blocks.

For a card document the field values are listed, followed by the artwork.
A deck manifest is printed as its card list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if width <= 0 {
				width = previewWidth()
			}
			ctx := cmd.Context()
			ref := args[0]
			if strings.EqualFold(filepath.Ext(ref), ".json") {
				doc, err := document.Load(ref)
				if err != nil {
					d, derr := deck.Load(ref)
					if derr != nil || len(d.Sheets) == 0 {
						return err
					}
					fmt.Fprintln(w, deck.ExportDeckText(d))
					return nil
				}
				printFields(w, doc)
				src, ok := document.Lookup(doc.Root, document.KindImage, cards.FieldArt)
				if !ok || src == "" {
					return nil
				}
				if !util.IsURL(src) {
					if !filepath.IsAbs(src) {
						src = filepath.Join(filepath.Dir(ref), src)
					}
					if _, err := os.Stat(src); err != nil {
						loggerFromContext(ctx).Warn("art not found", "src", src)
						return nil
					}
				}
				ref = src
			}

			img, err := imagepkg.Source(ctx, ref)
			if err != nil {
				return err
			}
			fmt.Fprint(w, imageToANSI(img, width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "preview width in columns (default: terminal width, at most 60)")
	return cmd
}

func previewWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultPreviewWidth
	}
	return min(w, defaultPreviewWidth)
}

func printFields(w io.Writer, doc *document.Document) {
	for _, f := range document.Fields(doc.Root) {
		v, _ := document.Lookup(doc.Root, f.Kind, f.Name)
		if v == "" {
			v = dimStyle.Sprint("(empty)")
		}
		fmt.Fprintf(w, "%s %s\n", okStyle.Sprintf("%-16s", f.Name), v)
	}
}

// imageToANSI scales img to cols columns and draws two pixel rows per text
// row with the upper half block, foreground on top.
func imageToANSI(img image.Image, cols int) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || cols <= 0 {
		return ""
	}
	rows := max(1, b.Dy()*cols/b.Dx()/2)
	small := resize.Resize(uint(cols), uint(rows*2), img, resize.Lanczos3)

	var sb strings.Builder
	sb.Grow(rows * cols * 40)
	origin := small.Bounds().Min
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := opaque(small.At(origin.X+x, origin.Y+2*y))
			bottom := opaque(small.At(origin.X+x, origin.Y+2*y+1))
			tr, tg, tb := top.RGB255()
			br, bg, bb := bottom.RGB255()
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
		}
		sb.WriteString("\x1b[0m\n")
	}
	return sb.String()
}

// opaque blends c over white so transparent frames read as paper.
func opaque(c color.Color) colorful.Color {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	col, _ := colorful.MakeColor(color.NRGBA{R: nc.R, G: nc.G, B: nc.B, A: 255})
	return colorful.Color{R: 1, G: 1, B: 1}.BlendRgb(col, float64(nc.A)/255)
}
