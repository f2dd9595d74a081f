// Package orchestrators coordinates services and gateways for complex use cases.
package orchestrators

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/trustgate/trustgate/internal/domain/entities"
	"github.com/trustgate/trustgate/internal/domain/interfaces"
	"github.com/trustgate/trustgate/internal/domain/interfaces/gateways"
	"github.com/trustgate/trustgate/internal/domain/interfaces/services"
)

// ValidationOrchestrator sequences the validation pipeline:
// resolve -> (mount) -> assess -> (package identity) -> (deep scan) -> cleanup.
// Checks are fail-fast; hygiene findings may be downgraded to warnings by
// policy, identity checks never are.
type ValidationOrchestrator struct {
	resolver   gateways.TargetResolver
	security   gateways.SecurityGateway
	images     gateways.ImageGateway
	validation services.ValidationService
	logger     interfaces.Logger
}

// NewValidationOrchestrator creates a new validation orchestrator
func NewValidationOrchestrator(
	resolver gateways.TargetResolver,
	security gateways.SecurityGateway,
	images gateways.ImageGateway,
	validation services.ValidationService,
	logger interfaces.Logger,
) *ValidationOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &ValidationOrchestrator{
		resolver:   resolver,
		security:   security,
		images:     images,
		validation: validation,
		logger:     logger,
	}
}

// Validate runs the whole pipeline against the artifact at inputPath and
// returns the terminal verdict. The verdict's Err carries the first
// violation encountered, if any.
func (o *ValidationOrchestrator) Validate(ctx context.Context, inputPath string, trusted *entities.TrustedIdentitySet, pol entities.Policy) *entities.Verdict {
	start := time.Now()
	verdict := &entities.Verdict{Passed: true}

	if err := o.run(ctx, inputPath, trusted, pol, verdict); err != nil {
		verdict.Passed = false
		verdict.Err = err
	}

	verdict.Duration = time.Since(start)
	return verdict
}

func (o *ValidationOrchestrator) run(ctx context.Context, inputPath string, trusted *entities.TrustedIdentitySet, pol entities.Policy, verdict *entities.Verdict) error {
	target, err := o.resolver.Resolve(inputPath, pol.RecipeHint)
	if err != nil {
		return entities.WrapError(entities.ErrTargetResolutionFailed, inputPath, err)
	}
	verdict.Target = target
	o.logger.Debug("target resolved",
		interfaces.F("path", target.Path), interfaces.F("kind", target.Kind))

	// Optional artifact pre-verification runs before anything is
	// mounted or assessed
	if pol.ChecksumFile != "" {
		if err := o.security.VerifyChecksum(ctx, target.Path, pol.ChecksumFile); err != nil {
			return entities.WrapError(entities.ErrChecksumMismatch, target.Path, err)
		}
		verdict.RecordStage("Checksum", "matched "+filepath.Base(pol.ChecksumFile))
	}
	if pol.SignatureFile != "" {
		if err := o.security.VerifyDetachedSignature(ctx, target.Path, pol.SignatureFile, pol.SignatureKeyFile); err != nil {
			return entities.WrapError(entities.ErrSignatureVerificationFailed, target.Path, err)
		}
		verdict.RecordStage("Detached signature", "verified")
	}

	scanPath := target.Path
	scanKind := target.Kind

	if target.Kind == entities.KindDiskImage {
		mountPoint, err := o.images.Attach(ctx, target.Path)
		if err != nil {
			return entities.WrapError(entities.ErrMountFailed, target.Path, err)
		}
		// The temporary mount must never be left attached, whatever
		// happens below. Detach runs on a fresh deadline so a canceled
		// run still releases the mount; a detach failure is logged,
		// never escalated.
		defer func() {
			detachCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pol.ToolTimeout)
			defer cancel()
			if derr := o.images.Detach(detachCtx, mountPoint); derr != nil {
				o.logger.Error("failed to detach image",
					interfaces.F("mount_point", mountPoint), interfaces.F("error", derr))
			}
		}()

		apps, globErr := filepath.Glob(filepath.Join(mountPoint, "*.app"))
		if globErr != nil || len(apps) == 0 {
			return entities.NewError(entities.ErrNoApplicationInImage, target.Path,
				"no .app at image top level")
		}
		scanPath = apps[0]
		scanKind = entities.KindApplication
		verdict.RecordStage("Disk image", "mounted, found "+filepath.Base(scanPath))
	}

	// The notarization assessment is the single most important gate and
	// runs before any deeper inspection
	assessKind := gateways.AssessExecute
	if scanKind == entities.KindPackage {
		assessKind = gateways.AssessInstall
	}
	out, err := o.security.Assess(ctx, scanPath, assessKind)
	if err != nil {
		return entities.WrapError(entities.ErrAssessmentFailed, scanPath, err)
	}
	o.logger.Debug("assessment passed", interfaces.F("output", out))
	verdict.RecordStage("Gatekeeper/Notarization", "PASSED")

	if scanKind == entities.KindPackage {
		identity, err := o.validation.VerifyPackageIdentity(ctx, scanPath, trusted)
		if err != nil {
			return err
		}
		verdict.RecordStage("Installer Team ID", identity.TeamID)
	}

	if scanKind == entities.KindApplication {
		if err := o.deepScan(ctx, scanPath, trusted, pol, verdict); err != nil {
			return err
		}
	}

	return nil
}

// deepScan composes the hygiene scanners and the component traversal, in
// order, each of which may abort the pipeline
func (o *ValidationOrchestrator) deepScan(ctx context.Context, appPath string, trusted *entities.TrustedIdentitySet, pol entities.Policy, verdict *entities.Verdict) error {
	findings, err := o.validation.ScanPermissions(appPath, pol)
	if err != nil {
		return err
	}
	verdict.Warnings = append(verdict.Warnings, findings...)
	verdict.RecordStage("File permissions", summarizeFindings(findings))

	symFindings, err := o.validation.ScanSymlinks(appPath, pol)
	if err != nil {
		return err
	}
	verdict.Warnings = append(verdict.Warnings, symFindings...)
	verdict.RecordStage("Symlink containment", summarizeFindings(symFindings))

	if err := o.validation.VerifyComponents(ctx, appPath, trusted); err != nil {
		return err
	}
	verdict.RecordStage("Component signatures", "PASSED")

	return nil
}

func summarizeFindings(findings []entities.Finding) string {
	if len(findings) == 0 {
		return "clean"
	}
	return fmt.Sprintf("%d finding(s) downgraded to warnings", len(findings))
}
