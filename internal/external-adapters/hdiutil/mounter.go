// Package hdiutil wraps the macOS disk image attach/detach tool.
package hdiutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

const hdiutilPath = "/usr/bin/hdiutil"

// Mounter attaches disk images read-only at temporary mount points. The
// mount point is exclusively owned by the caller until Detach.
type Mounter struct {
	timeout  time.Duration
	toolPath string
}

// NewMounter creates a new disk image mounter
func NewMounter(timeout time.Duration) *Mounter {
	if timeout <= 0 {
		timeout = entities.DefaultToolTimeout
	}
	return &Mounter{timeout: timeout, toolPath: hdiutilPath}
}

// Attach mounts the image read-only and unbrowsable at a fresh temporary
// directory and returns the mount point. The directory is removed again
// if the attach fails.
func (m *Mounter) Attach(ctx context.Context, imagePath string) (string, error) {
	mountPoint, err := os.MkdirTemp("", "trustgate_dmg_")
	if err != nil {
		return "", fmt.Errorf("failed to create mount point: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	//nolint:gosec // G204: imagePath is the artifact under validation
	cmd := exec.CommandContext(execCtx, m.toolPath, "attach", imagePath,
		"-readonly", "-nobrowse", "-quiet", "-mountpoint", mountPoint)
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(mountPoint)
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return "", entities.NewError(entities.ErrExternalToolTimeout, imagePath,
				fmt.Sprintf("hdiutil attach exceeded %v", m.timeout))
		}
		return "", fmt.Errorf("hdiutil attach failed: %s: %w", strings.TrimSpace(string(out)), err)
	}

	return mountPoint, nil
}

// Detach force-unmounts the mount point and removes the temporary
// directory. The directory is removed even when the unmount reports an
// error, so a stale mount point never accumulates.
func (m *Mounter) Detach(ctx context.Context, mountPoint string) error {
	execCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, m.toolPath, "detach", mountPoint, "-force", "-quiet")
	out, err := cmd.CombinedOutput()

	rmErr := os.RemoveAll(mountPoint)

	if err != nil {
		return fmt.Errorf("hdiutil detach failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return rmErr
}
