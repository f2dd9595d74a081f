package gateways

import (
	"context"
	"time"

	"github.com/trustgate/trustgate/internal/domain/interfaces/gateways"
	"github.com/trustgate/trustgate/internal/external-adapters/codesign"
	"github.com/trustgate/trustgate/internal/external-adapters/gpg"
	"github.com/trustgate/trustgate/internal/external-adapters/pkgutil"
	"github.com/trustgate/trustgate/internal/external-adapters/spctl"
)

// compositeSecurityGateway implements the SecurityGateway interface by
// composing the individual tool adapters together
type compositeSecurityGateway struct {
	assessor           *spctl.Assessor
	packageInspector   *pkgutil.Inspector
	componentInspector *codesign.Inspector
	checksumVerifier   *checksumVerifier
	signatureVerifier  *gpg.Verifier
}

// NewCompositeSecurityGateway creates a composite gateway whose external
// tool invocations are bounded by toolTimeout
func NewCompositeSecurityGateway(toolTimeout time.Duration) gateways.SecurityGateway {
	return &compositeSecurityGateway{
		assessor:           spctl.NewAssessor(toolTimeout),
		packageInspector:   pkgutil.NewInspector(toolTimeout),
		componentInspector: codesign.NewInspector(toolTimeout),
		checksumVerifier:   NewChecksumVerifier(),
		signatureVerifier:  gpg.NewVerifier(),
	}
}

// Assess runs the Gatekeeper/notarization assessment
func (c *compositeSecurityGateway) Assess(ctx context.Context, path string, kind gateways.AssessmentKind) (string, error) {
	return c.assessor.Assess(ctx, path, string(kind))
}

// InspectPackage returns the raw package signature diagnostic text
func (c *compositeSecurityGateway) InspectPackage(ctx context.Context, path string) (string, error) {
	return c.packageInspector.CheckSignature(ctx, path)
}

// InspectComponent returns the raw component signature diagnostic text
func (c *compositeSecurityGateway) InspectComponent(ctx context.Context, path string) (string, error) {
	return c.componentInspector.Inspect(ctx, path)
}

// VerifyChecksum verifies a file against a sum file
func (c *compositeSecurityGateway) VerifyChecksum(ctx context.Context, filePath, sumFile string) error {
	return c.checksumVerifier.VerifyChecksum(ctx, filePath, sumFile)
}

// VerifyDetachedSignature verifies a detached OpenPGP signature with a
// local public key file
func (c *compositeSecurityGateway) VerifyDetachedSignature(_ context.Context, filePath, sigPath, keyPath string) error {
	if err := c.signatureVerifier.ImportKeyFromFile(keyPath); err != nil {
		return err
	}
	return c.signatureVerifier.VerifySignatureFromFile(filePath, sigPath)
}
