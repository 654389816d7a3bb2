package imagepkg

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

func writeCards(t *testing.T, dir string, n int, c color.Color) []string {
	t.Helper()
	var paths []string
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("card_%03d.png", i))
		if err := imaging.Save(imaging.New(8, 12, c), p); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func testSheetOptions() SheetOptions {
	grid := DefaultGridSpec()
	grid.CardWidth, grid.CardHeight = 4, 6
	return SheetOptions{
		Grid:       grid,
		Pagination: PaginationPolicy{CardsPerSheet: 6, Cols: 4},
		Logger:     quietLogger(),
	}
}

func TestBuildSheets(t *testing.T) {
	paths := writeCards(t, t.TempDir(), 13, red)
	out := t.TempDir()

	report := BuildSheets(paths, out, testSheetOptions())

	if report.Total != 3 || report.Succeeded != 3 || report.Failed() {
		t.Fatalf("report = %+v", report)
	}
	wantSizes := [][2]int{{16, 12}, {16, 12}, {16, 6}}
	for i, want := range wantSizes {
		p := filepath.Join(out, SheetFileName(i+1, "png"))
		img, err := Open(p)
		if err != nil {
			t.Fatalf("sheet %d: %v", i+1, err)
		}
		if b := img.Bounds(); b.Dx() != want[0] || b.Dy() != want[1] {
			t.Errorf("sheet %d = %dx%d, want %dx%d", i+1, b.Dx(), b.Dy(), want[0], want[1])
		}
	}
}

func TestBuildSheetsUnreadableCardKeepsSlot(t *testing.T) {
	dir := t.TempDir()
	paths := writeCards(t, dir, 3, red)
	bad := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	paths = append(paths[:1], append([]string{bad}, paths[1:]...)...)
	out := t.TempDir()

	opts := testSheetOptions()
	report := BuildSheets(paths, out, opts)
	if report.Succeeded != 1 || len(report.Failures) != 1 || report.Failures[0].ID != bad {
		t.Fatalf("report = %+v", report)
	}

	sheet, err := Open(filepath.Join(out, "deck_sheet_1.png"))
	if err != nil {
		t.Fatal(err)
	}
	nrgba := imaging.Clone(sheet)
	if got := nrgba.NRGBAAt(6, 3); got != opts.Grid.Placeholder {
		t.Errorf("broken card slot = %v, want placeholder", got)
	}
	if got := nrgba.NRGBAAt(10, 3); got != red {
		t.Errorf("card after broken slot = %v, want red", got)
	}
}

func TestBuildSheetsAppliesResolution(t *testing.T) {
	paths := writeCards(t, t.TempDir(), 4, red)
	out := t.TempDir()

	opts := testSheetOptions()
	opts.Target = Target{Width: 8}
	report := BuildSheets(paths, out, opts)
	if report.Succeeded != 1 {
		t.Fatalf("report = %+v", report)
	}
	img, err := Open(report.Outputs[0])
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 3 {
		t.Errorf("rescaled sheet = %dx%d, want 8x3", b.Dx(), b.Dy())
	}
}

func TestAutoStitch(t *testing.T) {
	dir := t.TempDir()
	writeCards(t, dir, 5, blue)
	out := filepath.Join(t.TempDir(), "nested", "grid.jpg")

	report := AutoStitch(dir, out, 3, testSheetOptions())
	if report.Succeeded != 1 {
		t.Fatalf("report = %+v", report)
	}
	img, err := Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 12 {
		t.Errorf("auto grid = %dx%d, want 12x12 (2 rows x 3 cols)", b.Dx(), b.Dy())
	}
}

func TestStitchFilesEmpty(t *testing.T) {
	report := StitchFiles(nil, 1, 1, filepath.Join(t.TempDir(), "x.png"), testSheetOptions())
	if report.Succeeded != 0 || !report.Failed() {
		t.Errorf("report = %+v", report)
	}
}
