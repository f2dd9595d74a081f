package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

var machO64LittleEndian = []byte{0xcf, 0xfa, 0xed, 0xfe, 0x07, 0x00, 0x00, 0x01}

func writeMachO(t *testing.T, path string) {
	t.Helper()
	mkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, machO64LittleEndian, 0o700); err != nil {
		t.Fatal(err)
	}
}

func writeText(t *testing.T, path, content string) {
	t.Helper()
	mkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// buildAppBundle lays out a minimal app with one loose binary, one
// framework containing its own binary, and a Resources subtree
func buildAppBundle(t *testing.T, root string) (mainBinary, framework, frameworkBinary string) {
	t.Helper()
	mainBinary = filepath.Join(root, "Contents", "MacOS", "App")
	writeMachO(t, mainBinary)

	framework = filepath.Join(root, "Contents", "Frameworks", "Helper.framework")
	frameworkBinary = filepath.Join(framework, "Versions", "A", "Helper")
	writeMachO(t, frameworkBinary)

	writeText(t, filepath.Join(root, "Contents", "Info.plist"), "<plist/>")
	writeMachO(t, filepath.Join(root, "Contents", "Resources", "tool"))
	writeText(t, filepath.Join(root, "Contents", "_CodeSignature", "CodeResources"), "sealed")
	return mainBinary, framework, frameworkBinary
}

func TestVerifyComponents_AllTrustedPasses(t *testing.T) {
	root := filepath.Join(t.TempDir(), "App.app")
	mainBinary, framework, _ := buildAppBundle(t, root)

	gateway := &mockSecurityGateway{
		inspectComponent: func(string) (string, error) {
			return "TeamIdentifier=ABCDE12345", nil
		},
	}
	svc := NewValidationService(gateway, nil)
	trusted := entities.NewTrustedIdentitySet([]string{"ABCDE12345"})

	if err := svc.VerifyComponents(context.Background(), root, trusted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]bool{mainBinary: true, framework: true}
	for _, p := range gateway.inspectedPaths {
		if !want[p] {
			t.Errorf("unexpected inspection of %s", p)
		}
		delete(want, p)
	}
	for p := range want {
		t.Errorf("expected inspection of %s, never happened", p)
	}
}

func TestVerifyComponents_DescendOnce(t *testing.T) {
	root := filepath.Join(t.TempDir(), "App.app")
	_, _, frameworkBinary := buildAppBundle(t, root)

	gateway := &mockSecurityGateway{
		inspectComponent: func(string) (string, error) {
			return "TeamIdentifier=ABCDE12345", nil
		},
	}
	svc := NewValidationService(gateway, nil)
	trusted := entities.NewTrustedIdentitySet([]string{"ABCDE12345"})

	if err := svc.VerifyComponents(context.Background(), root, trusted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Once the framework is verified as a unit, nothing under it may be
	// re-reported as a loose native binary
	for _, p := range gateway.inspectedPaths {
		if p == frameworkBinary {
			t.Errorf("binary inside verified framework was independently inspected: %s", p)
		}
	}
}

func TestVerifyComponents_UntrustedFrameworkNamedInFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "App.app")
	_, framework, _ := buildAppBundle(t, root)

	gateway := &mockSecurityGateway{
		inspectComponent: func(path string) (string, error) {
			if path == framework {
				return "TeamIdentifier=ZZZZZ99999", nil
			}
			return "TeamIdentifier=ABCDE12345", nil
		},
	}
	svc := NewValidationService(gateway, nil)
	trusted := entities.NewTrustedIdentitySet([]string{"ABCDE12345"})

	err := svc.VerifyComponents(context.Background(), root, trusted)
	if !entities.IsKind(err, entities.ErrUntrustedComponentIdentity) {
		t.Fatalf("expected untrusted component identity, got %v", err)
	}
	var ve *entities.ValidationError
	if !asValidationError(err, &ve) || ve.Path != framework {
		t.Errorf("expected failure naming %s, got %v", framework, err)
	}
}

func TestVerifyComponents_InspectionErrorAborts(t *testing.T) {
	root := filepath.Join(t.TempDir(), "App.app")
	buildAppBundle(t, root)

	gateway := &mockSecurityGateway{
		inspectComponent: func(string) (string, error) {
			return "", os.ErrPermission
		},
	}
	svc := NewValidationService(gateway, nil)
	trusted := entities.NewTrustedIdentitySet([]string{"ABCDE12345"})

	err := svc.VerifyComponents(context.Background(), root, trusted)
	if !entities.IsKind(err, entities.ErrSignatureInspectionFailed) {
		t.Fatalf("expected signature inspection failure, got %v", err)
	}
}

func TestVerifyComponents_ReservedDirsSkipped(t *testing.T) {
	root := filepath.Join(t.TempDir(), "App.app")
	writeMachO(t, filepath.Join(root, "Contents", "Resources", "embedded"))
	writeMachO(t, filepath.Join(root, "Contents", "_MASReceipt", "receipt"))
	writeMachO(t, filepath.Join(root, "Contents", "_CodeSignature", "blob"))

	gateway := &mockSecurityGateway{
		inspectComponent: func(string) (string, error) {
			return "TeamIdentifier=ZZZZZ99999", nil
		},
	}
	svc := NewValidationService(gateway, nil)
	trusted := entities.NewTrustedIdentitySet([]string{"ABCDE12345"})

	// Untrusted binaries sit only inside reserved metadata dirs, so the
	// traversal must never see them
	if err := svc.VerifyComponents(context.Background(), root, trusted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gateway.inspectedPaths) != 0 {
		t.Errorf("inspected %v, want nothing", gateway.inspectedPaths)
	}
}

func TestVerifyComponents_EmptyBundlePassesTrivially(t *testing.T) {
	root := filepath.Join(t.TempDir(), "App.app")
	writeText(t, filepath.Join(root, "Contents", "Info.plist"), "<plist/>")

	gateway := &mockSecurityGateway{}
	svc := NewValidationService(gateway, nil)
	trusted := entities.NewTrustedIdentitySet([]string{"ABCDE12345"})

	if err := svc.VerifyComponents(context.Background(), root, trusted); err != nil {
		t.Fatalf("bundle with no native components must pass: %v", err)
	}
}

func TestVerifyComponents_SymlinkNeverTreatedAsBinary(t *testing.T) {
	root := filepath.Join(t.TempDir(), "App.app")
	mainBinary := filepath.Join(root, "Contents", "MacOS", "App")
	writeMachO(t, mainBinary)
	symlink(t, mainBinary, filepath.Join(root, "Contents", "MacOS", "App-alias"))

	gateway := &mockSecurityGateway{
		inspectComponent: func(string) (string, error) {
			return "TeamIdentifier=ABCDE12345", nil
		},
	}
	svc := NewValidationService(gateway, nil)
	trusted := entities.NewTrustedIdentitySet([]string{"ABCDE12345"})

	if err := svc.VerifyComponents(context.Background(), root, trusted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gateway.inspectedPaths) != 1 {
		t.Errorf("inspected %v, want the binary verified exactly once", gateway.inspectedPaths)
	}
}

func TestIsMachOBinary(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name  string
		bytes []byte
		want  bool
	}{
		{"64-bit little endian", []byte{0xcf, 0xfa, 0xed, 0xfe, 0x07, 0x00}, true},
		{"64-bit big endian", []byte{0xfe, 0xed, 0xfa, 0xcf, 0x00, 0x07}, true},
		{"32-bit little endian", []byte{0xce, 0xfa, 0xed, 0xfe}, true},
		{"32-bit big endian", []byte{0xfe, 0xed, 0xfa, 0xce}, true},
		{"fat binary", []byte{0xca, 0xfe, 0xba, 0xbe, 0x00, 0x00, 0x00, 0x02}, true},
		{"shell script", []byte("#!/bin/sh\n"), false},
		{"empty file", nil, false},
		{"short file", []byte{0xcf, 0xfa}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name)
			if err := os.WriteFile(path, tt.bytes, 0o600); err != nil {
				t.Fatal(err)
			}
			if got := isMachOBinary(path); got != tt.want {
				t.Errorf("isMachOBinary(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
