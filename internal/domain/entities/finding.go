package entities

import "fmt"

// FindingKind classifies a filesystem hygiene finding
type FindingKind string

const (
	// FindingSetuid marks a file carrying the setuid bit
	FindingSetuid FindingKind = "setuid"
	// FindingSetgid marks a file carrying the setgid bit
	FindingSetgid FindingKind = "setgid"
	// FindingWorldWritable marks a file writable by any user
	FindingWorldWritable FindingKind = "world-writable"
	// FindingSymlinkEscape marks a symlink whose resolved target leaves the bundle
	FindingSymlinkEscape FindingKind = "symlink-escape"
)

// Finding is a single filesystem hygiene observation.
// Never mutated after creation; aggregated for decision and reporting.
type Finding struct {
	Kind FindingKind
	Path string
	// Target is the canonicalized symlink target, set only for symlink escapes
	Target string
}

// String renders the finding for warning summaries
func (f Finding) String() string {
	if f.Kind == FindingSymlinkEscape {
		return fmt.Sprintf("%s: %s -> %s", f.Kind, f.Path, f.Target)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Path)
}

// CountByKind tallies findings per kind for warning summaries
func CountByKind(findings []Finding) map[FindingKind]int {
	counts := make(map[FindingKind]int)
	for _, f := range findings {
		counts[f.Kind]++
	}
	return counts
}
