package cards

import (
	"fmt"

	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/util"
)

// FieldMapping binds a spreadsheet column to a named template field.
type FieldMapping struct {
	Column string
	Kind   document.Kind
	Field  string
	// SkipEmpty leaves the template value alone when the cell is blank.
	SkipEmpty bool
}

// Template field names used by the default mapping.
const (
	FieldTitle     = "Title"
	FieldType      = "Type"
	FieldRules     = "Rules"
	FieldCost      = "Cost"
	FieldLeftStat  = "Left Stat"
	FieldRightStat = "Right Stat"
	FieldCollector = "Collector Info"
	FieldArt       = "Art"
)

// DefaultMapping returns the column to field bindings of a standard card
// template. Art is only replaced when the row names a file.
func DefaultMapping() []FieldMapping {
	return []FieldMapping{
		{Column: ColName, Kind: document.KindText, Field: FieldTitle},
		{Column: ColType, Kind: document.KindText, Field: FieldType},
		{Column: ColRules, Kind: document.KindText, Field: FieldRules},
		{Column: ColCost, Kind: document.KindText, Field: FieldCost},
		{Column: ColPower, Kind: document.KindText, Field: FieldLeftStat},
		{Column: ColDefense, Kind: document.KindText, Field: FieldRightStat},
		{Column: ColArtPath, Kind: document.KindImage, Field: FieldArt, SkipEmpty: true},
	}
}

// BuildOptions controls how a record is merged into a template.
type BuildOptions struct {
	Mapping         []FieldMapping
	Conventions     document.Conventions
	DefaultClass    string
	CollectorSuffix string
	DefaultArtist   string
	DefaultYear     string
}

// DefaultBuildOptions returns the mapping and conventions of the stock
// template.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Mapping:         DefaultMapping(),
		Conventions:     document.DefaultConventions(),
		DefaultClass:    "ninja",
		CollectorSuffix: "Legend Story Studios",
		DefaultArtist:   "Unknown Artist",
		DefaultYear:     "2024",
	}
}

// CollectorInfo renders "{artist} © {year} {suffix}" for rec.
func (o BuildOptions) CollectorInfo(rec Record) string {
	info := fmt.Sprintf("%s © %s", rec.GetOr(ColArtist, o.DefaultArtist), rec.GetOr(ColYear, o.DefaultYear))
	if o.CollectorSuffix != "" {
		info += " " + o.CollectorSuffix
	}
	return info
}

// Build clones template and writes rec into it. The template is never
// modified. It also returns the names of mapped fields the template does not
// have; those are expected for partial templates and are not an error.
func Build(template *document.Document, rec Record, opts BuildOptions) (*document.Document, []string) {
	doc := template.Clone()
	var missing []string

	for _, m := range opts.Mapping {
		v := rec.Get(m.Column)
		if m.SkipEmpty && v == "" {
			continue
		}
		if !document.FindAndUpdate(doc.Root, m.Kind, m.Field, v) {
			missing = append(missing, m.Field)
		}
	}

	if !document.FindAndUpdate(doc.Root, document.KindText, FieldCollector, opts.CollectorInfo(rec)) {
		missing = append(missing, FieldCollector)
	}

	// An absent class column takes the default; a blank cell keeps the
	// template's frame.
	class := rec.Class()
	if _, ok := rec[ColClass]; !ok {
		class = opts.DefaultClass
	}
	if class != "" && !document.UpdateClassVariant(doc.Root, class, opts.Conventions) {
		missing = append(missing, opts.Conventions.ClassMarker)
	}
	return doc, missing
}

// FileName returns the base name (without extension) used for every
// artifact of the idx-th record: the sanitized card name, or card_{idx+1}.
func FileName(rec Record, idx int) string {
	if s := util.SanitizeName(rec.Name()); s != "" {
		return s
	}
	return fmt.Sprintf("card_%d", idx+1)
}
