package services

import (
	"io/fs"
	"path/filepath"

	"github.com/trustgate/trustgate/internal/domain/entities"
	"github.com/trustgate/trustgate/internal/domain/interfaces"
)

// ScanSymlinks walks root without following links and classifies every
// symlink by where its canonicalized target resolves. An escape is a
// target outside the canonicalized root and outside every allowed
// prefix. Unresolvable targets classify as escapes.
func (s *validationService) ScanSymlinks(root string, pol entities.Policy) ([]entities.Finding, error) {
	realRoot := Canonicalize(root)

	allowed := make([]string, 0, len(pol.AllowedSymlinkPrefixes))
	for _, p := range pol.AllowedSymlinkPrefixes {
		allowed = append(allowed, Canonicalize(p))
	}

	var findings []entities.Finding
	var fatal error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		target := Canonicalize(path)
		if HasPathPrefix(target, realRoot) {
			return nil
		}
		for _, prefix := range allowed {
			if HasPathPrefix(target, prefix) {
				s.logger.Debug("symlink target inside allowed prefix",
					interfaces.F("path", path), interfaces.F("target", target))
				return nil
			}
		}

		finding := entities.Finding{Kind: entities.FindingSymlinkEscape, Path: path, Target: target}
		findings = append(findings, finding)

		if pol.FailOnSymlinkEscape {
			fatal = entities.NewError(entities.ErrSymlinkEscape, path, "resolves to "+target)
			return fs.SkipAll
		}
		s.logger.Warn("symlink escape", interfaces.F("path", path), interfaces.F("target", target))
		return nil
	})
	if fatal != nil {
		return findings, fatal
	}
	if walkErr != nil {
		return findings, entities.WrapError(entities.ErrSymlinkEscape, root, walkErr)
	}
	return findings, nil
}
