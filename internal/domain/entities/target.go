// Package entities defines core domain models and data structures.
package entities

import (
	"path/filepath"
	"strings"
)

// TargetKind identifies the artifact format of a validation target
type TargetKind string

const (
	// KindPackage is a flat installer package (.pkg)
	KindPackage TargetKind = "package"
	// KindDiskImage is a disk image (.dmg) that must be mounted to inspect
	KindDiskImage TargetKind = "disk-image"
	// KindApplication is an application bundle directory (.app)
	KindApplication TargetKind = "application"
)

// ValidationTarget is a resolved artifact path plus its kind.
// Immutable for the life of a run.
type ValidationTarget struct {
	Path string
	Kind TargetKind
}

// KindForPath classifies a path by its extension.
// Returns false for unrecognized extensions.
func KindForPath(path string) (TargetKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pkg":
		return KindPackage, true
	case ".dmg":
		return KindDiskImage, true
	case ".app":
		return KindApplication, true
	default:
		return "", false
	}
}
