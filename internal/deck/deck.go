package deck

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/youruser/cardforge/internal/errors"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/util"
)

// Sheet lists the cards placed on one deck sheet, in cell order.
type Sheet struct {
	Index int      `json:"index"`
	File  string   `json:"file"`
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cards []string `json:"cards"`
}

type Deck struct {
	Name   string         `json:"name"`
	Cards  map[string]int `json:"cards"` // card name -> copies
	Sheets []Sheet        `json:"sheets"`
}

// FromSheets records which card file landed on which sheet. Card names are
// the file stems of cardPaths.
func FromSheets(name string, cardPaths []string, specs []imagepkg.SheetSpec, ext string) Deck {
	d := Deck{Name: name, Cards: map[string]int{}}
	for _, s := range specs {
		sheet := Sheet{
			Index: s.Index,
			File:  imagepkg.SheetFileName(s.Index, ext),
			Rows:  s.Rows,
			Cols:  s.Cols,
		}
		for _, p := range cardPaths[s.Start:s.End] {
			stem := util.Stem(p)
			sheet.Cards = append(sheet.Cards, stem)
			d.Cards[stem]++
		}
		d.Sheets = append(d.Sheets, sheet)
	}
	return d
}

// Size is the total number of cards across all sheets.
func (d Deck) Size() int {
	n := 0
	for _, c := range d.Cards {
		n += c
	}
	return n
}

// Save writes the manifest as indented JSON.
func (d Deck) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode deck manifest")
	}
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// Load reads a manifest written by Save.
func Load(path string) (Deck, error) {
	var d Deck
	data, err := os.ReadFile(path)
	if err != nil {
		return d, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, errors.Wrap(errors.ErrCodeDecodeFailed, err, "parse %s", path)
	}
	return d, nil
}
