package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/trustgate/trustgate/internal/domain/entities"
	"github.com/trustgate/trustgate/internal/domain/interfaces"
)

// classifyMode maps raw mode bits to hygiene finding kinds. An entry may
// fall into several classes at once.
func classifyMode(mode fs.FileMode) []entities.FindingKind {
	var kinds []entities.FindingKind
	if mode&fs.ModeSetuid != 0 {
		kinds = append(kinds, entities.FindingSetuid)
	}
	if mode&fs.ModeSetgid != 0 {
		kinds = append(kinds, entities.FindingSetgid)
	}
	if mode&0o002 != 0 {
		kinds = append(kinds, entities.FindingWorldWritable)
	}
	return kinds
}

// ScanPermissions recursively classifies every regular file under root by
// its dangerous mode bits. The scan is exhaustive: a single missed setuid
// binary defeats the whole check. Symlinks are stat'd by their own
// metadata, never their target's.
func (s *validationService) ScanPermissions(root string, pol entities.Policy) ([]entities.Finding, error) {
	var findings []entities.Finding

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, matching the lstat
			// tolerance of the walk itself
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := os.Lstat(path)
		if err != nil {
			return nil
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			// Symlink hygiene is the escape detector's concern
			return nil
		}

		for _, kind := range classifyMode(info.Mode()) {
			findings = append(findings, entities.Finding{Kind: kind, Path: path})
		}
		return nil
	})
	if walkErr != nil {
		return findings, entities.WrapError(entities.ErrDangerousPermissions, root, walkErr)
	}

	counts := entities.CountByKind(findings)

	// setuid/setgid takes precedence over world-writable when both
	// flags are fatal
	if pol.FailOnSetuid {
		for _, f := range findings {
			if f.Kind == entities.FindingSetuid || f.Kind == entities.FindingSetgid {
				return findings, entities.NewError(entities.ErrDangerousPermissions, f.Path,
					fmt.Sprintf("%s file found", f.Kind))
			}
		}
	}
	if pol.FailOnWorldWritable {
		for _, f := range findings {
			if f.Kind == entities.FindingWorldWritable {
				return findings, entities.NewError(entities.ErrDangerousPermissions, f.Path,
					"world-writable file found")
			}
		}
	}

	if len(findings) > 0 {
		s.logger.Warn("permission issues found",
			interfaces.F("setuid", counts[entities.FindingSetuid]),
			interfaces.F("setgid", counts[entities.FindingSetgid]),
			interfaces.F("world_writable", counts[entities.FindingWorldWritable]))
	}

	return findings, nil
}
