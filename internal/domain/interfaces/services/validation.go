// Package services defines interfaces for domain service contracts.
package services

import (
	"context"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

// ValidationService defines the interface for the deep inspection
// operations composed by the pipeline. Contains the trust and hygiene
// business logic; external tool access goes through gateways.
type ValidationService interface {
	// ScanPermissions walks root and classifies dangerous mode bits.
	// Returns the findings; the error is non-nil when policy makes a
	// finding fatal.
	ScanPermissions(root string, pol entities.Policy) ([]entities.Finding, error)

	// ScanSymlinks walks root and classifies symlinks as contained or
	// escaping, honoring the policy's allowed prefixes
	ScanSymlinks(root string, pol entities.Policy) ([]entities.Finding, error)

	// VerifyComponents walks an application bundle verifying every
	// nested bundle and native binary against the trusted set
	VerifyComponents(ctx context.Context, appRoot string, trusted *entities.TrustedIdentitySet) error

	// VerifyPackageIdentity checks the installer package signature
	// against the trusted set
	VerifyPackageIdentity(ctx context.Context, pkgPath string, trusted *entities.TrustedIdentitySet) (entities.SigningIdentity, error)
}
