package entities

import "errors"

// ErrorKind classifies a validation failure. Every fatal error in the
// pipeline carries exactly one kind plus the offending path.
type ErrorKind string

const (
	// ErrTargetResolutionFailed means no usable artifact was found at the input path
	ErrTargetResolutionFailed ErrorKind = "target resolution failed"
	// ErrMountFailed means the disk image could not be attached
	ErrMountFailed ErrorKind = "mount failed"
	// ErrNoApplicationInImage means a mounted image contained no application bundle
	ErrNoApplicationInImage ErrorKind = "no application in image"
	// ErrAssessmentFailed means the Gatekeeper/notarization assessment rejected the target
	ErrAssessmentFailed ErrorKind = "assessment failed"
	// ErrUntrustedPackageIdentity means the package signature carries an untrusted team ID
	ErrUntrustedPackageIdentity ErrorKind = "untrusted package identity"
	// ErrDangerousPermissions means a setuid/setgid or world-writable file was found
	ErrDangerousPermissions ErrorKind = "dangerous permissions"
	// ErrSymlinkEscape means a symlink resolves outside the bundle and all allowed prefixes
	ErrSymlinkEscape ErrorKind = "symlink escape"
	// ErrSignatureInspectionFailed means the signature inspector could not read a component
	ErrSignatureInspectionFailed ErrorKind = "signature inspection failed"
	// ErrUntrustedComponentIdentity means a nested component carries an untrusted team ID
	ErrUntrustedComponentIdentity ErrorKind = "untrusted component identity"
	// ErrExternalToolTimeout means an external tool exceeded the bounded timeout
	ErrExternalToolTimeout ErrorKind = "external tool timeout"
	// ErrChecksumMismatch means the artifact does not match its expected checksum
	ErrChecksumMismatch ErrorKind = "checksum mismatch"
	// ErrSignatureVerificationFailed means the detached signature did not verify
	ErrSignatureVerificationFailed ErrorKind = "signature verification failed"
	// ErrPolicyLoadFailed means the policy file could not be read or parsed
	ErrPolicyLoadFailed ErrorKind = "policy load failed"
)

// ValidationError is the one error type crossing component boundaries.
// It names the failure kind and the offending path so every failure
// message is specific and actionable.
type ValidationError struct {
	Kind   ErrorKind
	Path   string
	Detail string
	Err    error
}

// Error renders "kind: path (detail)"
func (e *ValidationError) Error() string {
	msg := string(e.Kind)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewError creates a ValidationError for the given kind and path
func NewError(kind ErrorKind, path, detail string) *ValidationError {
	return &ValidationError{Kind: kind, Path: path, Detail: detail}
}

// WrapError attaches kind and path to an underlying error. If err is
// already a ValidationError its kind is preserved so that, for example,
// a tool timeout is not masked by the stage that observed it.
func WrapError(kind ErrorKind, path string, err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return &ValidationError{Kind: kind, Path: path, Err: err}
}

// IsKind reports whether err carries the given failure kind
func IsKind(err error, kind ErrorKind) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind == kind
	}
	return false
}

// KindOf extracts the failure kind, or "" for foreign errors
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
