package cards

import "github.com/youruser/cardforge/internal/document"

// FromDocument reads the title, type and rules back out of a rendered card
// document. Documents carry no class, so defaultClass is used.
func FromDocument(doc *document.Document, defaultClass string) Record {
	return Record{
		ColName:  document.ExtractByName(doc.Root, FieldTitle),
		ColType:  document.ExtractByName(doc.Root, FieldType),
		ColRules: document.ExtractByName(doc.Root, FieldRules),
		ColClass: defaultClass,
	}
}
