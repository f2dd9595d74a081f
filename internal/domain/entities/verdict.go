package entities

import "time"

// StageResult records one passed pipeline stage for progress reporting
type StageResult struct {
	Name   string
	Detail string
}

// Verdict is the terminal outcome of a validation run. Checks are
// fail-fast: Err names the first violation encountered. Hygiene findings
// downgraded by policy accumulate in Warnings instead.
type Verdict struct {
	Target   *ValidationTarget
	Passed   bool
	Stages   []StageResult
	Warnings []Finding
	Duration time.Duration
	Err      error
}

// RecordStage appends a passed stage
func (v *Verdict) RecordStage(name, detail string) {
	v.Stages = append(v.Stages, StageResult{Name: name, Detail: detail})
}

// FailureKind returns the error kind of a failed verdict, or "" on pass
func (v *Verdict) FailureKind() ErrorKind {
	if v.Err == nil {
		return ""
	}
	return KindOf(v.Err)
}
