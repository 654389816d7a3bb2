package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	imagepkg "github.com/youruser/cardforge/internal/image"
)

func samplePaths(n int) []string {
	var out []string
	for i := 0; i < n; i++ {
		out = append(out, filepath.Join("out", fmt.Sprintf("card_%02d.png", i%4)))
	}
	return out
}

func TestFromSheets(t *testing.T) {
	paths := samplePaths(7)
	specs := imagepkg.Paginate(len(paths), imagepkg.PaginationPolicy{CardsPerSheet: 5, Cols: 3})

	d := FromSheets("test deck", paths, specs, "png")

	if len(d.Sheets) != 2 || d.Size() != 7 {
		t.Fatalf("deck = %+v", d)
	}
	if got := d.Sheets[1]; got.File != "deck_sheet_2.png" || got.Rows != 1 || !reflect.DeepEqual(got.Cards, []string{"card_01", "card_02"}) {
		t.Errorf("second sheet = %+v", got)
	}
	if d.Cards["card_00"] != 2 || d.Cards["card_03"] != 1 {
		t.Errorf("counts = %v", d.Cards)
	}
}

func TestExportDeckTextDeterministic(t *testing.T) {
	paths := samplePaths(6)
	d := FromSheets("demo", paths, imagepkg.Paginate(6, imagepkg.DefaultPagination()), "jpg")

	first := ExportDeckText(d)
	for i := 0; i < 10; i++ {
		if got := ExportDeckText(d); got != first {
			t.Fatalf("export changed between calls:\n%s\n---\n%s", first, got)
		}
	}
	want := strings.Join([]string{
		"# demo",
		"## deck_sheet_1.jpg (1x10)",
		"card_00", "card_01", "card_02", "card_03", "card_00", "card_01",
		"## cards",
		"2xcard_00", "2xcard_01", "1xcard_02", "1xcard_03",
	}, "\n")
	if first != want {
		t.Errorf("ExportDeckText() =\n%s\nwant\n%s", first, want)
	}
}

func TestSaveLoad(t *testing.T) {
	d := FromSheets("saved", samplePaths(3), imagepkg.Paginate(3, imagepkg.DefaultPagination()), "")
	path := filepath.Join(t.TempDir(), "sub", "deck.json")
	if err := d.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, d) {
		t.Errorf("Load() = %+v, want %+v", got, d)
	}
}

func TestQRTile(t *testing.T) {
	d := FromSheets("qr", samplePaths(4), imagepkg.Paginate(4, imagepkg.DefaultPagination()), "")
	img, err := QRTile(d, 200)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("tile = %v", b)
	}
}

func TestWriteText(t *testing.T) {
	d := FromSheets("txt", samplePaths(2), imagepkg.Paginate(2, imagepkg.DefaultPagination()), "")
	path := filepath.Join(t.TempDir(), "nested", "deck.txt")
	if err := WriteText(d, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != ExportDeckText(d)+"\n" {
		t.Errorf("deck.txt = %q", data)
	}
}
