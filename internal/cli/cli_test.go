package cli

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	fcolor "github.com/fatih/color"

	"github.com/youruser/cardforge/internal/config"
	"github.com/youruser/cardforge/internal/deck"
	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/errors"
	"github.com/youruser/cardforge/internal/render"
)

func init() {
	fcolor.NoColor = true
}

// run executes the CLI with args and returns what it printed to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// smallConfig writes settings with tiny cards so sheet tests stay fast.
func smallConfig(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	cfg.Card.Width, cfg.Card.Height = 4, 6
	cfg.Pagination.CardsPerSheet, cfg.Pagination.Cols = 2, 2
	cfg.Art.CacheDir = filepath.Join(t.TempDir(), "cache")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	want := []string{"art", "build", "config", "generate", "overlay", "preview", "render", "serve", "sheets", "stitch"}
	for _, w := range want {
		i := sort.SearchStrings(names, w)
		if i == len(names) || names[i] != w {
			t.Errorf("missing command %q in %v", w, names)
		}
	}
}

func TestPrintReport(t *testing.T) {
	var r errors.Report
	r.Total = 3
	r.AddSuccess("a.png")
	r.AddSkipped("b.png")
	r.AddFailure("c.png", errors.New(errors.ErrCodeDecodeFailed, "bad header"))

	var buf bytes.Buffer
	printReport(&buf, "overlay", r)
	out := buf.String()
	for _, want := range []string{"overlay", "1/3 succeeded, 1 skipped, 1 failed", "c.png: bad header", "b.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if err := reportErr("overlay", r); err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Errorf("reportErr() = %v", err)
	}
	if err := reportErr("overlay", errors.Report{Total: 1, Succeeded: 1}); err != nil {
		t.Errorf("clean report gave %v", err)
	}
}

func TestNewRenderer(t *testing.T) {
	cfg := config.Default()
	if _, err := newRenderer(cfg, "", "out"); err == nil {
		t.Error("no renderer configured should be an error")
	}

	cfg.Render.Dir = "configured"
	if r, _ := newRenderer(cfg, "", "out"); r.(render.DirRenderer).Dir != "configured" {
		t.Errorf("renderer = %#v", r)
	}

	cfg.Render.Command = "chromium"
	r, _ := newRenderer(cfg, "", "out")
	if ex, ok := r.(render.ExecRenderer); !ok || ex.OutDir != "out" {
		t.Errorf("renderer = %#v, want exec", r)
	}

	r, _ = newRenderer(cfg, "flag", "out")
	if dr, ok := r.(render.DirRenderer); !ok || dr.Dir != "flag" {
		t.Errorf("--from should win, got %#v", r)
	}
}

func TestImageToANSI(t *testing.T) {
	img := imaging.New(4, 4, color.NRGBA{R: 0xff, A: 0xff})
	out := imageToANSI(img, 2)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%q", len(lines), out)
	}
	if n := strings.Count(lines[0], "▀"); n != 2 {
		t.Errorf("got %d cells, want 2", n)
	}
	if !strings.Contains(out, "38;2;255;0;0") {
		t.Errorf("missing red foreground: %q", out)
	}
	if imageToANSI(img, 0) != "" {
		t.Error("zero width should draw nothing")
	}
}

func TestImageToANSITransparentIsWhite(t *testing.T) {
	out := imageToANSI(imaging.New(2, 2, color.NRGBA{}), 2)
	if !strings.Contains(out, "48;2;255;255;255") {
		t.Errorf("transparent pixels should read as white: %q", out)
	}
}

func TestConfigInitShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")

	out, err := run(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("init output = %q", out)
	}
	if _, err := run(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := run(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err = run(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cards_per_sheet = 70") {
		t.Errorf("show output missing pagination:\n%s", out)
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "stitch", t.TempDir())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "template.json")
	doc := document.New(document.NewGroup("Card", document.NewText("Title", ""), document.NewText("Type", "")))
	if err := doc.Save(tmpl); err != nil {
		t.Fatal(err)
	}
	sheet := filepath.Join(dir, "cards.csv")
	csv := "card_name,card_type,class_type\nEmber Blade,Action,ninja\nStone Wall,Defense,guardian\n"
	if err := os.WriteFile(sheet, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "docs")

	out, err := run(t, "--config", smallConfig(t), "generate", sheet, "-t", tmpl, "-o", outDir, "--class", "ninja")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	got, err := document.Load(filepath.Join(outDir, "Ember_Blade.json"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := document.Lookup(got.Root, document.KindText, "Title"); v != "Ember Blade" {
		t.Errorf("Title = %q", v)
	}
	if _, err := os.Stat(filepath.Join(outDir, "Stone_Wall.json")); !os.IsNotExist(err) {
		t.Error("filtered card was written")
	}
}

func TestSheetsCommand(t *testing.T) {
	cardDir, outDir := t.TempDir(), t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if err := imaging.Save(imaging.New(8, 12, color.NRGBA{B: 0xff, A: 0xff}), filepath.Join(cardDir, name)); err != nil {
			t.Fatal(err)
		}
	}

	out, err := run(t, "--config", smallConfig(t), "sheets", cardDir, "-o", outDir, "--name", "mini", "--qr", "64")
	if err != nil {
		t.Fatalf("sheets: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2/2 succeeded") {
		t.Errorf("output = %q", out)
	}
	d, err := deck.Load(filepath.Join(outDir, "deck.json"))
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "mini" || d.Size() != 3 || len(d.Sheets) != 2 {
		t.Errorf("deck = %+v", d)
	}
	for _, f := range []string{"deck_sheet_1.png", "deck_sheet_2.png", "deck.txt", "deck_qr.png"} {
		if _, err := os.Stat(filepath.Join(outDir, f)); err != nil {
			t.Errorf("%s: %v", f, err)
		}
	}
}

func TestStitchCommandAuto(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if err := imaging.Save(imaging.New(8, 12, color.NRGBA{R: 0xff, A: 0xff}), filepath.Join(dir, name)); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(t.TempDir(), "grid.png")
	if _, err := run(t, "--config", smallConfig(t), "stitch", dir, "-o", out, "--max-cols", "2"); err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 12 {
		t.Errorf("grid = %v, want 8x12", b)
	}
}

func TestPreviewDocument(t *testing.T) {
	dir := t.TempDir()
	if err := imaging.Save(imaging.New(4, 4, color.NRGBA{G: 0xff, A: 0xff}), filepath.Join(dir, "art.png")); err != nil {
		t.Fatal(err)
	}
	doc := document.New(document.NewGroup("Card",
		document.NewText("Title", "Ember Blade"),
		document.NewText("Rules", ""),
		document.NewImage("Art", "art.png"),
	))
	path := filepath.Join(dir, "ember.json")
	if err := doc.Save(path); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", smallConfig(t), "preview", path, "--width", "4")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Ember Blade", "(empty)", "▀", "38;2;0;255;0"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}
}

func TestPreviewDeckManifest(t *testing.T) {
	d := deck.Deck{Name: "mini", Cards: map[string]int{"a": 2}, Sheets: []deck.Sheet{{Index: 1, File: "deck_sheet_1.png", Rows: 1, Cols: 2, Cards: []string{"a", "a"}}}}
	path := filepath.Join(t.TempDir(), "deck.json")
	if err := d.Save(path); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", smallConfig(t), "preview", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "# mini") || !strings.Contains(out, "2xa") {
		t.Errorf("preview = %q", out)
	}
}
