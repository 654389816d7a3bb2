package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// SanitizeName keeps letters, digits, spaces, hyphens and underscores, trims
// the result and turns spaces into underscores. "Warrior's Shield" becomes
// "Warriors_Shield".
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ListFiles returns the regular files in dir accepted by keep, sorted by
// name so that batch order does not depend on the filesystem.
func ListFiles(dir string, keep func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || (keep != nil && !keep(e.Name())) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// HasExt returns a ListFiles filter for the given extensions (with dot).
func HasExt(exts ...string) func(string) bool {
	return func(name string) bool {
		ext := strings.ToLower(filepath.Ext(name))
		for _, e := range exts {
			if ext == e {
				return true
			}
		}
		return false
	}
}
