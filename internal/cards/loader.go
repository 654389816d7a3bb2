package cards

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/youruser/cardforge/internal/errors"
)

// LoadRecords reads the CSV file at path. The first row is the header.
func LoadRecords(path string) ([]Record, error) {
	fp, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "card sheet %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer fp.Close()

	recs, err := ParseRecords(fp)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return recs, nil
}

// LoadRecordsFromFiles concatenates every file that exists, in order.
// Missing files are skipped; it fails only when none of them exist.
func LoadRecordsFromFiles(paths ...string) ([]Record, error) {
	var all []Record
	var found bool
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		found = true
		recs, err := LoadRecords(p)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	if !found {
		return nil, errors.New(errors.ErrCodeNotFound, "no card sheets found among %s", strings.Join(paths, ", "))
	}
	return all, nil
}

// ParseRecords reads CSV rows into records keyed by the header row. Short
// rows leave the missing columns empty and blank rows are dropped.
func ParseRecords(in io.Reader) ([]Record, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "parse csv")
	}
	if len(rows) < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv has no header")
	}

	header := rows[0]
	cols := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			continue
		}
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}

	get := func(row []string, idx int) string {
		if idx < len(row) {
			return row[idx]
		}
		return ""
	}

	out := []Record{}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := make(Record, len(cols))
		for name, idx := range cols {
			rec[name] = get(row, idx)
		}
		out = append(out, rec)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
