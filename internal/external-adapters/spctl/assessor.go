// Package spctl wraps the macOS Gatekeeper/notarization assessment tool.
package spctl

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

const spctlPath = "/usr/sbin/spctl"

// Assessor runs Gatekeeper assessments with a bounded timeout per call
type Assessor struct {
	timeout  time.Duration
	toolPath string
}

// NewAssessor creates a new Gatekeeper assessor
func NewAssessor(timeout time.Duration) *Assessor {
	if timeout <= 0 {
		timeout = entities.DefaultToolTimeout
	}
	return &Assessor{timeout: timeout, toolPath: spctlPath}
}

// Assess runs `spctl --assess --type <kind> -vv <path>`. kind is
// "install" for packages and "execute" otherwise. A rejection or a
// timeout is an error; the returned text is spctl's diagnostic output.
func (a *Assessor) Assess(ctx context.Context, path, kind string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	//nolint:gosec // G204: path is the artifact under validation
	cmd := exec.CommandContext(execCtx, a.toolPath, "--assess", "--type", kind, "-vv", path)
	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return output, entities.NewError(entities.ErrExternalToolTimeout, path,
				fmt.Sprintf("spctl exceeded %v", a.timeout))
		}
		return output, fmt.Errorf("assessment rejected: %s: %w", strings.TrimSpace(output), err)
	}

	return output, nil
}
