package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// rootKey is the top-level key under which templates store their tree.
const rootKey = "data"

// Document owns one template tree. A template is loaded once and cloned per
// card; all field updates happen on the clone.
type Document struct {
	Root *Node

	// Extra keeps the other top-level keys of the template file.
	Extra map[string]json.RawMessage
}

// New wraps root in a Document.
func New(root *Node) *Document {
	return &Document{Root: root}
}

// Clone returns a structurally independent copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		Root:  d.Root.Clone(),
		Extra: cloneRaw(d.Extra),
	}
}

// Parse decodes a template file body.
func Parse(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	body, ok := raw[rootKey]
	if !ok {
		return nil, fmt.Errorf("parse document: missing %q key", rootKey)
	}
	delete(raw, rootKey)

	var root Node
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	d := &Document{Root: &root}
	if len(raw) > 0 {
		d.Extra = raw
	}
	return d, nil
}

// Load reads and parses the template at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Marshal encodes d with four-space indentation. Non-ASCII text and HTML
// characters are written verbatim.
func (d *Document) Marshal() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+1)
	for k, v := range d.Extra {
		out[k] = v
	}
	out[rootKey] = d.Root

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes d to path, creating the parent directory.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
