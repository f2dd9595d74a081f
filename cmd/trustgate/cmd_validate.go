package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/trustgate/trustgate/internal/domain-adapters/gateways"
	"github.com/trustgate/trustgate/internal/domain-adapters/trust"
	orchestrators "github.com/trustgate/trustgate/internal/domain-orchestrators"
	"github.com/trustgate/trustgate/internal/domain/entities"
	"github.com/trustgate/trustgate/internal/domain/interfaces"
	"github.com/trustgate/trustgate/internal/domain/services"
	"github.com/trustgate/trustgate/internal/external-adapters/hdiutil"
	yamladapter "github.com/trustgate/trustgate/internal/external-adapters/yaml"
)

// validateFlags holds the parsed validate-subcommand flag values
type validateFlags struct {
	trustedIDs    *string
	policyFile    *string
	recipeHint    *string
	failWorld     *bool
	failSetuid    *bool
	failSymlink   *bool
	allowPrefixes *string
	checksumFile  *string
	gpgSig        *string
	gpgKey        *string
	toolTimeout   *time.Duration
	verbose       *bool
}

// newValidateFlagSet registers the validate subcommand's flags
func newValidateFlagSet() (*flag.FlagSet, *validateFlags) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	f := &validateFlags{
		trustedIDs:    fs.String("trusted-ids", "", "Path to the trusted team-ID list (one ID per line)"),
		policyFile:    fs.String("policy", "", "YAML policy file (flags set explicitly override it)"),
		recipeHint:    fs.String("recipe-hint", "", "Name hint to pick between multiple candidate artifacts"),
		failWorld:     fs.Bool("fail-on-world-writable", true, "Fail on world-writable files"),
		failSetuid:    fs.Bool("fail-on-setuid", true, "Fail on setuid/setgid files"),
		failSymlink:   fs.Bool("fail-on-symlink-escape", true, "Fail on symlinks escaping the bundle"),
		allowPrefixes: fs.String("allow-symlink-prefix", "", "Comma-separated extra trusted prefixes for symlink targets"),
		checksumFile:  fs.String("checksum", "", "Checksum file to verify the artifact against (.sha256 or .sha512)"),
		gpgSig:        fs.String("gpg-sig", "", "Detached GPG signature file for the artifact"),
		gpgKey:        fs.String("gpg-key", "", "Local GPG public key file (required with --gpg-sig)"),
		toolTimeout:   fs.Duration("tool-timeout", entities.DefaultToolTimeout, "Timeout per external tool invocation"),
		verbose:       fs.Bool("verbose", false, "Show detailed progress for every inspected component"),
	}
	return fs, f
}

func runValidate(ctx context.Context, args []string) {
	fs, f := newValidateFlagSet()

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: trustgate validate <path> [options]

Validate that a macOS installer artifact is safe to trust before deployment.

Performs:
  - Gatekeeper/notarization assessment
  - Signing identity verification against a trusted team-ID list
  - Dangerous permission bit detection (setuid/setgid, world-writable)
  - Symlink containment checks

<path> may be a .pkg, .dmg, or .app, or a directory to search for one.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  trustgate validate ./downloads/App-1.2.dmg --trusted-ids trusted_ids.txt
  trustgate validate ./downloads --trusted-ids trusted_ids.txt --recipe-hint MyApp
  trustgate validate App.pkg --policy validation.yml
  trustgate validate App.app --trusted-ids ids.txt --fail-on-world-writable=false
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: target path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	targetPath := fs.Arg(0)

	pol, idsFile, err := buildValidateConfig(fs, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if idsFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --trusted-ids is required (directly or via --policy)\n\n")
		fs.Usage()
		os.Exit(1)
	}
	if pol.SignatureFile != "" && pol.SignatureKeyFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --gpg-key is required with --gpg-sig\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if err := executeValidate(ctx, targetPath, idsFile, pol); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildValidateConfig assembles the run policy: the policy file (or the
// defaults) first, then explicitly set flags win. Returns the policy and
// the trusted-ids file path, preferring the flag over the policy file.
func buildValidateConfig(fs *flag.FlagSet, f *validateFlags) (entities.Policy, string, error) {
	pol := entities.DefaultPolicy()
	idsFile := *f.trustedIDs

	if *f.policyFile != "" {
		loaded, policyIDsFile, err := yamladapter.NewPolicyRepository().LoadPolicy(*f.policyFile)
		if err != nil {
			return pol, "", err
		}
		pol = loaded
		if idsFile == "" {
			idsFile = policyIDsFile
		}
	}

	return mergePolicy(fs, f, pol), idsFile, nil
}

// mergePolicy applies flag values on top of a loaded policy. Only flags
// the user set explicitly override the file; defaults never clobber it.
func mergePolicy(fs *flag.FlagSet, f *validateFlags, pol entities.Policy) entities.Policy {
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["fail-on-world-writable"] {
		pol.FailOnWorldWritable = *f.failWorld
	}
	if set["fail-on-setuid"] {
		pol.FailOnSetuid = *f.failSetuid
	}
	if set["fail-on-symlink-escape"] {
		pol.FailOnSymlinkEscape = *f.failSymlink
	}
	if set["verbose"] {
		pol.Verbose = *f.verbose
	}
	if set["recipe-hint"] {
		pol.RecipeHint = *f.recipeHint
	}
	if set["tool-timeout"] {
		pol.ToolTimeout = *f.toolTimeout
	}
	if *f.allowPrefixes != "" {
		for _, p := range strings.Split(*f.allowPrefixes, ",") {
			if p = strings.TrimSpace(p); p != "" {
				pol.AllowedSymlinkPrefixes = append(pol.AllowedSymlinkPrefixes, p)
			}
		}
	}
	pol.ChecksumFile = *f.checksumFile
	pol.SignatureFile = *f.gpgSig
	pol.SignatureKeyFile = *f.gpgKey

	return pol
}

func executeValidate(ctx context.Context, targetPath, idsFile string, pol entities.Policy) error {
	trusted, err := trust.LoadTrustedIDs(idsFile)
	if err != nil {
		return err
	}

	logger := &interfaces.ConsoleLogger{Verbose: pol.Verbose}

	// Layer 1: gateways (infrastructure)
	securityGateway := gateways.NewCompositeSecurityGateway(pol.ToolTimeout)
	imageGateway := hdiutil.NewMounter(pol.ToolTimeout)
	resolver := gateways.NewTargetResolver()

	// Layer 2: service (business logic)
	validationService := services.NewValidationService(securityGateway, logger)

	// Layer 3: orchestrator (use case)
	orchestrator := orchestrators.NewValidationOrchestrator(
		resolver, securityGateway, imageGateway, validationService, logger)

	fmt.Printf("🔍 Validating %s (trusted IDs: %d)\n\n", targetPath, trusted.Len())

	verdict := orchestrator.Validate(ctx, targetPath, trusted, pol)
	displayVerdict(verdict)

	if !verdict.Passed {
		return verdict.Err
	}
	return nil
}

func displayVerdict(verdict *entities.Verdict) {
	for _, stage := range verdict.Stages {
		fmt.Printf("✅ %s: %s\n", stage.Name, stage.Detail)
	}

	if len(verdict.Warnings) > 0 {
		counts := entities.CountByKind(verdict.Warnings)
		fmt.Printf("\n⚠️  %d warning(s):", len(verdict.Warnings))
		for kind, n := range counts {
			fmt.Printf(" %s=%d", kind, n)
		}
		fmt.Println()
	}

	fmt.Printf("\n⏱️  Duration: %v\n", verdict.Duration.Round(time.Millisecond))

	if verdict.Passed {
		fmt.Println("✅ Security validation successful.")
	} else {
		fmt.Printf("🚫 Security validation FAILED: %s\n", verdict.FailureKind())
	}
}
