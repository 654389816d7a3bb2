// Package document models card templates as trees of named fields.
//
// Templates come from an external visual editor, so their shape is not under
// our control: nesting depth, sibling order and which fields exist all vary.
// Fields are therefore addressed by (Kind, Name) and resolved by a
// depth-first, pre-order scan where the first match wins. Duplicate names at
// different depths are resolved by traversal order, not uniqueness.
package document

import "encoding/json"

// Kind tags a Node as text, image or group.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindGroup Kind = "group"
)

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindImage, KindGroup:
		return true
	}
	return false
}

// Placement selects cover ("fill") or contain ("fit") scaling for overlay art.
type Placement string

const (
	PlacementFill Placement = "fill"
	PlacementFit  Placement = "fit"
)

// HAlign is the horizontal alignment of art inside Bounds.
type HAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"
)

// VAlign is the vertical alignment of art inside Bounds.
type VAlign string

const (
	AlignTop    VAlign = "top"
	AlignMiddle VAlign = "center"
	AlignBottom VAlign = "bottom"
)

// Bounds is the rectangle, in template pixels, where overlay art belongs.
type Bounds struct {
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Placement  Placement `json:"placement,omitempty"`
	Horizontal HAlign    `json:"horizontal,omitempty"`
	Vertical   VAlign    `json:"vertical,omitempty"`
}

// Normalized returns b with empty or unknown policy fields replaced by
// fill / center / center.
func (b Bounds) Normalized() Bounds {
	switch b.Placement {
	case PlacementFill, PlacementFit:
	default:
		b.Placement = PlacementFill
	}
	switch b.Horizontal {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		b.Horizontal = AlignCenter
	}
	switch b.Vertical {
	case AlignTop, AlignMiddle, AlignBottom:
	default:
		b.Vertical = AlignMiddle
	}
	return b
}

// Empty reports whether b has no usable area.
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Node is one element of a template tree.
//
// Text holds the display string of text nodes; Src, Thumb and Bounds belong
// to image nodes. Children is normally only set on groups, but text and image
// nodes acting as containers may carry children too.
type Node struct {
	Kind     Kind
	Name     string
	Text     string
	Src      string
	Thumb    string
	Bounds   *Bounds
	Children []*Node

	// Extra keeps template keys this package does not interpret so that a
	// load/save round trip is lossless.
	Extra map[string]json.RawMessage
}

// Value returns the kind-specific value: the text of a text node, the
// source of an image node, and "" for groups.
func (n *Node) Value() string {
	switch n.Kind {
	case KindText:
		return n.Text
	case KindImage:
		return n.Src
	}
	return ""
}

// SetValue writes the kind-specific value. Groups carry no value and are
// left untouched.
func (n *Node) SetValue(v string) {
	switch n.Kind {
	case KindText:
		n.Text = v
	case KindImage:
		n.Src = v
	}
}

// Clone returns a deep copy of n. The copy shares no slice, map or pointer
// with n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Kind:  n.Kind,
		Name:  n.Name,
		Text:  n.Text,
		Src:   n.Src,
		Thumb: n.Thumb,
	}
	if n.Bounds != nil {
		b := *n.Bounds
		c.Bounds = &b
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	c.Extra = cloneRaw(n.Extra)
	return c
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// NewText, NewImage and NewGroup are small constructors used mostly by
// tests and by code that assembles templates programmatically.
func NewText(name, text string) *Node {
	return &Node{Kind: KindText, Name: name, Text: text}
}

func NewImage(name, src string) *Node {
	return &Node{Kind: KindImage, Name: name, Src: src}
}

func NewGroup(name string, children ...*Node) *Node {
	return &Node{Kind: KindGroup, Name: name, Children: children}
}
