package imagepkg

import (
	"fmt"
	"strings"
)

// Tabletop Simulator accepts at most 70 cards per deck sheet, laid out 10x7.
const (
	DefaultCardsPerSheet = 70
	DefaultSheetCols     = 10
)

// PaginationPolicy bounds how many cards go on one sheet.
type PaginationPolicy struct {
	CardsPerSheet int
	Cols          int
}

// DefaultPagination returns the 70 cards / 10 columns policy.
func DefaultPagination() PaginationPolicy {
	return PaginationPolicy{CardsPerSheet: DefaultCardsPerSheet, Cols: DefaultSheetCols}
}

func (p PaginationPolicy) normalized() PaginationPolicy {
	if p.CardsPerSheet <= 0 {
		p.CardsPerSheet = DefaultCardsPerSheet
	}
	if p.Cols <= 0 {
		p.Cols = DefaultSheetCols
	}
	return p
}

// SheetSpec is one page of a paginated deck: cards [Start, End) of the input
// placed on a Rows x Cols grid.
type SheetSpec struct {
	Index int // 1-based
	Start int
	End   int
	Rows  int
	Cols  int
}

// Count is the number of cards on the sheet.
func (s SheetSpec) Count() int {
	return s.End - s.Start
}

// Placeholders is the number of blank cells in the sheet's last row.
func (s SheetSpec) Placeholders() int {
	return s.Rows*s.Cols - s.Count()
}

// Grid returns base with the sheet's rows and cols applied.
func (s SheetSpec) Grid(base GridSpec) GridSpec {
	base.Rows, base.Cols = s.Rows, s.Cols
	return base
}

// Paginate splits total cards into contiguous sheets of at most
// CardsPerSheet cards. Each sheet has ceil(count/cols) rows; when
// CardsPerSheet is not a multiple of Cols the last row of a sheet is padded
// with placeholders, which is a valid physical sheet.
func Paginate(total int, policy PaginationPolicy) []SheetSpec {
	if total <= 0 {
		return nil
	}
	p := policy.normalized()
	sheets := make([]SheetSpec, 0, ceilDiv(total, p.CardsPerSheet))
	for start := 0; start < total; start += p.CardsPerSheet {
		end := min(start+p.CardsPerSheet, total)
		sheets = append(sheets, SheetSpec{
			Index: len(sheets) + 1,
			Start: start,
			End:   end,
			Rows:  ceilDiv(end-start, p.Cols),
			Cols:  p.Cols,
		})
	}
	return sheets
}

// SheetFileName returns "deck_sheet_{n}.{ext}" for a 1-based sheet index.
func SheetFileName(index int, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "png"
	}
	return fmt.Sprintf("deck_sheet_%d.%s", index, ext)
}
