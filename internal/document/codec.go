package document

import (
	"bytes"
	"encoding/json"
)

// Template keys understood by this package. Everything else lands in Extra.
const (
	keyType     = "type"
	keyName     = "name"
	keyText     = "text"
	keySrc      = "src"
	keyThumb    = "thumb"
	keyBounds   = "bounds"
	keyChildren = "children"
)

// UnmarshalJSON decodes a template node. Known keys whose value has an
// unexpected JSON type are kept verbatim in Extra rather than rejected, since
// the editor that produced the template is free to evolve.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = Node{}
	takeString := func(key string, dst *string) {
		v, ok := raw[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(v, dst); err == nil {
			delete(raw, key)
		}
	}

	var kind string
	takeString(keyType, &kind)
	n.Kind = Kind(kind)
	takeString(keyName, &n.Name)
	takeString(keyText, &n.Text)
	takeString(keySrc, &n.Src)
	takeString(keyThumb, &n.Thumb)

	if v, ok := raw[keyBounds]; ok {
		var b Bounds
		if err := json.Unmarshal(v, &b); err == nil {
			n.Bounds = &b
			delete(raw, keyBounds)
		}
	}

	if v, ok := raw[keyChildren]; ok {
		var children []*Node
		if err := json.Unmarshal(v, &children); err != nil {
			return err
		}
		n.Children = children
		delete(raw, keyChildren)
	}

	if len(raw) > 0 {
		n.Extra = raw
	}
	return nil
}

// MarshalJSON encodes n back into template form. Text is always written for
// text nodes and src for image nodes, even when empty, because the editor
// expects those keys to exist. An empty default never clobbers a value kept
// verbatim in Extra.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+6)
	for k, v := range n.Extra {
		out[k] = v
	}
	put := func(key string, v any, set, required bool) {
		if set {
			out[key] = v
			return
		}
		if _, kept := out[key]; required && !kept {
			out[key] = v
		}
	}
	put(keyType, n.Kind, n.Kind != "", false)
	put(keyName, n.Name, n.Name != "", false)
	put(keyText, n.Text, n.Text != "", n.Kind == KindText)
	put(keySrc, n.Src, n.Src != "", n.Kind == KindImage)
	put(keyThumb, n.Thumb, n.Thumb != "", false)
	if n.Bounds != nil {
		out[keyBounds] = n.Bounds
	}
	if n.Children != nil {
		out[keyChildren] = n.Children
	}
	return marshalVerbatim(out)
}

// marshalVerbatim is json.Marshal without HTML escaping, so rules text such
// as "<b>Go again</b>" survives a round trip unchanged.
func marshalVerbatim(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
