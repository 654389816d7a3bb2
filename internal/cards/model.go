package cards

import "strings"

// Spreadsheet columns understood by the default field mapping.
const (
	ColName    = "card_name"
	ColType    = "card_type"
	ColRules   = "rules_text"
	ColCost    = "cost"
	ColPower   = "power"
	ColDefense = "defense"
	ColArtist  = "artist"
	ColYear    = "year"
	ColArtPath = "art_path"
	ColClass   = "class_type"
)

// Record is one ingested card row, keyed by column header. Unknown columns
// are kept so custom mappings can use them.
type Record map[string]string

// Get returns the trimmed value of col, or "" when the column is absent.
func (r Record) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// GetOr returns the value of col, or def when it is absent or blank.
func (r Record) GetOr(col, def string) string {
	if v := r.Get(col); v != "" {
		return v
	}
	return def
}

func (r Record) Name() string {
	return r.Get(ColName)
}

// Class returns the lower-cased class_type, or "" when unset.
func (r Record) Class() string {
	return strings.ToLower(r.Get(ColClass))
}

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
