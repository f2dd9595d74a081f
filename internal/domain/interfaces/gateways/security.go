package gateways

import (
	"context"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

// AssessmentKind selects the Gatekeeper assessment mode
type AssessmentKind string

const (
	// AssessInstall is the assessment mode for installer packages
	AssessInstall AssessmentKind = "install"
	// AssessExecute is the assessment mode for everything else
	AssessExecute AssessmentKind = "execute"
)

// SecurityGateway defines the interface for the external security tools
// the pipeline delegates to. Implementations wrap blocking tool
// invocations behind bounded contexts.
type SecurityGateway interface {
	// Assess runs the OS notarization/Gatekeeper assessment on path.
	// A rejection is an error; the returned text is diagnostic output.
	Assess(ctx context.Context, path string, kind AssessmentKind) (string, error)

	// InspectPackage returns the raw signature diagnostic text for an
	// installer package (contains a developer-identity line)
	InspectPackage(ctx context.Context, path string) (string, error)

	// InspectComponent returns the raw signature diagnostic text for a
	// bundle component or binary (contains a TeamIdentifier= field)
	InspectComponent(ctx context.Context, path string) (string, error)

	// VerifyChecksum checks the file against a sum file (sha256/sha512)
	VerifyChecksum(ctx context.Context, filePath, sumFile string) error

	// VerifyDetachedSignature checks a detached OpenPGP signature using
	// a local public key file
	VerifyDetachedSignature(ctx context.Context, filePath, sigPath, keyPath string) error
}

// ImageGateway mounts and unmounts disk images. The mount point returned
// by Attach is exclusively owned by the caller until Detach.
type ImageGateway interface {
	// Attach mounts the image read-only and returns the mount point
	Attach(ctx context.Context, imagePath string) (string, error)

	// Detach unmounts and removes the mount point directory
	Detach(ctx context.Context, mountPoint string) error
}

// TargetResolver locates the artifact to validate from a file path or a
// directory of candidates
type TargetResolver interface {
	Resolve(path, hint string) (*entities.ValidationTarget, error)
}
