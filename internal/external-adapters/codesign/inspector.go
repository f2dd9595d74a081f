// Package codesign wraps the macOS code-signing inspection tool.
package codesign

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

// codesign is resolved via PATH; unlike the other tools it has no fixed
// install location across macOS versions
const codesignPath = "codesign"

// Inspector reads code-signature details from bundles and binaries
type Inspector struct {
	timeout  time.Duration
	toolPath string
}

// NewInspector creates a new code-signature inspector
func NewInspector(timeout time.Duration) *Inspector {
	if timeout <= 0 {
		timeout = entities.DefaultToolTimeout
	}
	return &Inspector{timeout: timeout, toolPath: codesignPath}
}

// Inspect runs `codesign -dv <path>` and returns the diagnostic text.
// codesign writes its details to stderr; both streams are returned so
// callers can extract the TeamIdentifier field. A non-zero exit is a
// hard failure for that path.
func (i *Inspector) Inspect(ctx context.Context, path string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	//nolint:gosec // G204: path is a component inside the artifact under validation
	cmd := exec.CommandContext(execCtx, i.toolPath, "-dv", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return "", entities.NewError(entities.ErrExternalToolTimeout, path,
				fmt.Sprintf("codesign exceeded %v", i.timeout))
		}
		return "", fmt.Errorf("codesign failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}

	return stderr.String() + stdout.String(), nil
}
