// Package pkgutil wraps the macOS package-signature inspection tool.
package pkgutil

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

const pkgutilPath = "/usr/sbin/pkgutil"

// Inspector reads installer package signature details
type Inspector struct {
	timeout  time.Duration
	toolPath string
}

// NewInspector creates a new package-signature inspector
func NewInspector(timeout time.Duration) *Inspector {
	if timeout <= 0 {
		timeout = entities.DefaultToolTimeout
	}
	return &Inspector{timeout: timeout, toolPath: pkgutilPath}
}

// CheckSignature runs `pkgutil --check-signature <path>` and returns its
// output, which contains the Developer ID Installer identity line
func (i *Inspector) CheckSignature(ctx context.Context, path string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	//nolint:gosec // G204: path is the package under validation
	cmd := exec.CommandContext(execCtx, i.toolPath, "--check-signature", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return "", entities.NewError(entities.ErrExternalToolTimeout, path,
				fmt.Sprintf("pkgutil exceeded %v", i.timeout))
		}
		return "", fmt.Errorf("pkgutil failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}

	return stdout.String(), nil
}
