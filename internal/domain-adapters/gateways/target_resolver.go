// Package gateways provides adapter implementations for external services and tools.
package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

// targetExtensions is the search order when a directory of candidates is
// given: packages first, then images, then loose application bundles
var targetExtensions = []string{".pkg", ".dmg", ".app"}

// TargetResolver locates the artifact to validate from a file path or a
// directory of candidates
type TargetResolver struct{}

// NewTargetResolver creates a new target resolver
func NewTargetResolver() *TargetResolver {
	return &TargetResolver{}
}

// Resolve returns the validation target for path. A path with a
// recognized extension is the target itself (an .app bundle is a
// directory and still a direct target). A directory is searched for
// candidates, preferring one whose filename contains the hint.
func (r *TargetResolver) Resolve(path, hint string) (*entities.ValidationTarget, error) {
	path = expandUser(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access target: %w", err)
	}

	if kind, ok := entities.KindForPath(path); ok {
		return &entities.ValidationTarget{Path: path, Kind: kind}, nil
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("unrecognized artifact type: %s", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate directory: %w", err)
	}

	var matches []string
	for _, ext := range targetExtensions {
		for _, entry := range entries {
			if strings.HasSuffix(strings.ToLower(entry.Name()), ext) {
				matches = append(matches, filepath.Join(path, entry.Name()))
			}
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no installer found in %s", path)
	}

	if hint != "" {
		lowered := strings.ToLower(hint)
		for _, m := range matches {
			if strings.Contains(strings.ToLower(filepath.Base(m)), lowered) {
				return targetFor(m)
			}
		}
	}

	return targetFor(matches[0])
}

func targetFor(path string) (*entities.ValidationTarget, error) {
	kind, ok := entities.KindForPath(path)
	if !ok {
		return nil, fmt.Errorf("unrecognized artifact type: %s", path)
	}
	return &entities.ValidationTarget{Path: path, Kind: kind}, nil
}

// expandUser resolves a leading ~ to the current user's home directory
func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
