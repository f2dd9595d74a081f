package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHasPathPrefix(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		prefix string
		want   bool
	}{
		{"exact match", "/a/b", "/a/b", true},
		{"direct child", "/a/b/c", "/a/b", true},
		{"deep descendant", "/a/b/c/d/e", "/a/b", true},
		{"sibling with shared string prefix", "/a/bcd", "/a/b", false},
		{"parent of prefix", "/a", "/a/b", false},
		{"root prefix", "/a/b", "/", true},
		{"unrelated", "/x/y", "/a/b", false},
		{"trailing slash on prefix", "/a/b/c", "/a/b/", true},
		{"unresolvable path", Unresolvable, "/a/b", false},
		{"unresolvable prefix", "/a/b", Unresolvable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPathPrefix(tt.path, tt.prefix); got != tt.want {
				t.Errorf("HasPathPrefix(%q, %q) = %v, want %v", tt.path, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCanonicalize_ResolvesSymlinks(t *testing.T) {
	tmpDir := t.TempDir()

	realDir := filepath.Join(tmpDir, "real")
	if err := os.Mkdir(realDir, 0o750); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Fatal(err)
	}

	got := Canonicalize(link)
	want := Canonicalize(realDir)
	if got != want {
		t.Errorf("Canonicalize(%q) = %q, want %q", link, got, want)
	}
	if got == Unresolvable {
		t.Error("expected resolvable path, got sentinel")
	}
}

func TestCanonicalize_BrokenLinkFailsClosed(t *testing.T) {
	tmpDir := t.TempDir()

	link := filepath.Join(tmpDir, "dangling")
	if err := os.Symlink(filepath.Join(tmpDir, "missing"), link); err != nil {
		t.Fatal(err)
	}

	if got := Canonicalize(link); got != Unresolvable {
		t.Errorf("Canonicalize(broken link) = %q, want %q", got, Unresolvable)
	}
}
