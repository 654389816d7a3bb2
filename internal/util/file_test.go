package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Shadow Strike", "Shadow_Strike"},
		{"Warrior's Shield", "Warriors_Shield"},
		{"  Frost-bite_2 ", "Frost-bite_2"},
		{"a/b\\c:d", "abcd"},
		{"火焰 之剑", "火焰_之剑"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/tmp/cards/Shadow_Strike.final.png"); got != "Shadow_Strike.final" {
		t.Errorf("Stem() = %q", got)
	}
}

func TestListFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.png", "a.PNG", "b.txt", "d.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "e.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListFiles(dir, HasExt(".png", ".jpg"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.PNG", "c.png", "d.jpg"}
	if len(got) != len(want) {
		t.Fatalf("ListFiles() = %v", got)
	}
	for i := range want {
		if filepath.Base(got[i]) != want[i] {
			t.Errorf("ListFiles()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
