// Package services implements domain business logic and use cases.
package services

import (
	"path/filepath"
	"strings"
)

// Unresolvable is the sentinel returned when a path cannot be
// canonicalized (broken link, permission error). Containment checks
// treat it as not contained, so classification fails closed.
const Unresolvable = "unresolvable"

// Canonicalize resolves path to its real absolute form: symbolic links
// followed, "." and ".." removed. Resolution failure returns the
// Unresolvable sentinel instead of an error.
func Canonicalize(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return Unresolvable
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return Unresolvable
	}
	return abs
}

// HasPathPrefix reports whether path lies at or under prefix, comparing
// whole path segments so that /a/bcd does not match prefix /a/b.
// The Unresolvable sentinel never matches any prefix.
func HasPathPrefix(path, prefix string) bool {
	if path == Unresolvable || prefix == Unresolvable {
		return false
	}
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	if prefix == string(filepath.Separator) {
		return strings.HasPrefix(path, prefix)
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}
