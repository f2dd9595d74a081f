package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/trustgate/trustgate/internal/domain-adapters/trust"
	"github.com/trustgate/trustgate/internal/domain/entities"
	"github.com/trustgate/trustgate/internal/domain/services"
	"github.com/trustgate/trustgate/internal/external-adapters/codesign"
	"github.com/trustgate/trustgate/internal/external-adapters/pkgutil"
)

func runInspect(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	var (
		trustedIDs  = fs.String("trusted-ids", "", "Optionally check the identity against this trusted team-ID list")
		toolTimeout = fs.Duration("tool-timeout", entities.DefaultToolTimeout, "Timeout per external tool invocation")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: trustgate inspect <path> [options]

Inspect the signing identity of a single package, bundle, or binary and
print the extracted team identifier.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  trustgate inspect App.pkg
  trustgate inspect App.app/Contents/Frameworks/Helper.framework --trusted-ids ids.txt
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if err := executeInspect(ctx, fs.Arg(0), *trustedIDs, *toolTimeout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func executeInspect(ctx context.Context, path, idsFile string, timeout time.Duration) error {
	kind, _ := entities.KindForPath(path)

	var raw string
	var teamID string
	var found bool
	var err error

	if kind == entities.KindPackage {
		raw, err = pkgutil.NewInspector(timeout).CheckSignature(ctx, path)
		if err != nil {
			return err
		}
		teamID, found = services.ExtractPackageTeamID(raw)
	} else {
		raw, err = codesign.NewInspector(timeout).Inspect(ctx, path)
		if err != nil {
			return err
		}
		teamID, found = services.ExtractComponentTeamID(raw)
	}

	if !found {
		fmt.Printf("%s: no team identifier in signature\n", path)
	} else {
		fmt.Printf("%s: TeamIdentifier=%s\n", path, teamID)
	}

	if idsFile != "" {
		trusted, err := trust.LoadTrustedIDs(idsFile)
		if err != nil {
			return err
		}
		identity := entities.SigningIdentity{Path: path, TeamID: teamID}
		if !services.VerifyIdentity(identity, trusted) {
			return fmt.Errorf("identity is not in the trusted set")
		}
		fmt.Println("✅ Identity is trusted.")
	}

	return nil
}
