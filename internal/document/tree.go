package document

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Walk visits the tree rooted at n in depth-first pre-order. Returning false
// from fn stops the walk; Walk reports whether it ran to completion.
func Walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}

// FindFirst returns the first node in pre-order that satisfies match, or nil.
// Nothing after the match is visited.
func FindFirst(root *Node, match func(*Node) bool) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// Find returns the first node with the given kind and name.
func Find(root *Node, kind Kind, name string) (*Node, bool) {
	n := FindFirst(root, func(n *Node) bool {
		return n.Kind == kind && n.Name == name
	})
	return n, n != nil
}

// FindAndUpdate sets the value of the first (kind, name) node and reports
// whether one was found. A miss is not an error: templates legitimately omit
// fields, and deciding what to do about that belongs to the caller.
func FindAndUpdate(root *Node, kind Kind, name, value string) bool {
	n, ok := Find(root, kind, name)
	if !ok {
		return false
	}
	n.SetValue(value)
	return true
}

// Lookup is the read-only counterpart of FindAndUpdate.
func Lookup(root *Node, kind Kind, name string) (string, bool) {
	n, ok := Find(root, kind, name)
	if !ok {
		return "", false
	}
	return n.Value(), true
}

// ExtractByName returns the text of the first text node called name, or ""
// when the template has no such field.
func ExtractByName(root *Node, name string) string {
	v, _ := Lookup(root, KindText, name)
	return v
}

// BoundsFor returns the bounds recorded on the first image node called name.
func BoundsFor(root *Node, name string) (Bounds, bool) {
	n, ok := Find(root, KindImage, name)
	if !ok || n.Bounds == nil {
		return Bounds{}, false
	}
	return *n.Bounds, true
}

// UpdateClassVariant points the first image node whose name contains the
// class marker at the frame for className and renames it
// "{Classname} Class". It reports whether such a node exists.
func UpdateClassVariant(root *Node, className string, conv Conventions) bool {
	n := FindFirst(root, func(n *Node) bool {
		return n.Kind == KindImage && strings.Contains(n.Name, conv.ClassMarker)
	})
	if n == nil {
		return false
	}
	n.Src = conv.ClassFramePath(className)
	n.Thumb = conv.ClassThumbPath(className)
	n.Name = cases.Title(language.Und).String(className) + " " + conv.ClassMarker
	return true
}

// Field identifies an addressable leaf of a template.
type Field struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

// Fields lists every named text and image node in pre-order, duplicates
// included.
func Fields(root *Node) []Field {
	var out []Field
	Walk(root, func(n *Node) bool {
		if n.Name != "" && (n.Kind == KindText || n.Kind == KindImage) {
			out = append(out, Field{Kind: n.Kind, Name: n.Name})
		}
		return true
	})
	return out
}
