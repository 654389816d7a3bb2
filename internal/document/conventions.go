package document

import (
	"path"
	"strings"
)

// Conventions holds the naming rules the template editor uses for class
// frames. They are plain data so callers and tests can substitute their own.
type Conventions struct {
	ClassFrameBase   string // directory of frame images, e.g. "fab/frame/classes"
	ClassThumbPrefix string // file prefix for thumbnails, e.g. "thumb-"
	ClassMarker      string // substring identifying the class frame node
	ImageExt         string // extension of frame images, with the dot
}

// DefaultConventions returns the conventions of the stock card template.
func DefaultConventions() Conventions {
	return Conventions{
		ClassFrameBase:   "fab/frame/classes",
		ClassThumbPrefix: "thumb-",
		ClassMarker:      "Class",
		ImageExt:         ".png",
	}
}

// ClassFramePath returns "{base}/{class}.png" with the class lowercased.
func (c Conventions) ClassFramePath(className string) string {
	return path.Join(c.ClassFrameBase, strings.ToLower(className)+c.ImageExt)
}

// ClassThumbPath returns "{base}/thumb-{class}.png" with the class lowercased.
func (c Conventions) ClassThumbPath(className string) string {
	return path.Join(c.ClassFrameBase, c.ClassThumbPrefix+strings.ToLower(className)+c.ImageExt)
}
