package codesign

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

func fakeTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codesign")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// codesign writes its signature details to stderr; Inspect must return them
func TestInspect_ReturnsStderrDiagnostics(t *testing.T) {
	i := NewInspector(time.Minute)
	i.toolPath = fakeTool(t, "#!/bin/sh\necho 'TeamIdentifier=ABCDE12345' >&2\n")

	out, err := i.Inspect(context.Background(), "/tmp/App.app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "TeamIdentifier=ABCDE12345") {
		t.Errorf("output = %q, want the stderr diagnostics", out)
	}
}

func TestInspect_FailureIsError(t *testing.T) {
	i := NewInspector(time.Minute)
	i.toolPath = fakeTool(t, "#!/bin/sh\necho 'code object is not signed at all' >&2\nexit 1\n")

	_, err := i.Inspect(context.Background(), "/tmp/App.app/Contents/MacOS/App")
	if err == nil {
		t.Fatal("expected error for an unsigned component")
	}
	if !strings.Contains(err.Error(), "codesign failed") {
		t.Errorf("err = %v, want codesign failure", err)
	}
	if entities.IsKind(err, entities.ErrExternalToolTimeout) {
		t.Error("a signing failure must not classify as a timeout")
	}
}

func TestInspect_TimeoutMapsToTimeoutKind(t *testing.T) {
	i := NewInspector(50 * time.Millisecond)
	i.toolPath = fakeTool(t, "#!/bin/sh\nsleep 5\n")

	_, err := i.Inspect(context.Background(), "/tmp/App.app")
	if !entities.IsKind(err, entities.ErrExternalToolTimeout) {
		t.Fatalf("err = %v, want external tool timeout", err)
	}
}
