package services

import (
	"testing"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

func TestExtractPackageTeamID(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantID string
		wantOK bool
	}{
		{
			name:   "developer ID installer line",
			raw:    "Status: signed by a developer certificate\n    1. Developer ID Installer: Example Corp (ABCDE12345)\n",
			wantID: "ABCDE12345",
			wantOK: true,
		},
		{
			name:   "no identity line",
			raw:    "Status: no signature",
			wantOK: false,
		},
		{
			name:   "application cert is not an installer identity",
			raw:    "Developer ID Application: Example Corp (ABCDE12345)",
			wantOK: false,
		},
		{
			name:   "identifier too short",
			raw:    "Developer ID Installer: Example Corp (ABC123)",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractPackageTeamID(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestExtractComponentTeamID(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantID string
		wantOK bool
	}{
		{
			name:   "codesign diagnostic output",
			raw:    "Identifier=com.example.app\nTeamIdentifier=ABCDE12345\nSealed Resources version=2\n",
			wantID: "ABCDE12345",
			wantOK: true,
		},
		{
			name:   "unsigned component",
			raw:    "code object is not signed at all",
			wantOK: false,
		},
		{
			name:   "ad-hoc signature has no team",
			raw:    "TeamIdentifier=not set",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractComponentTeamID(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestVerifyIdentity(t *testing.T) {
	trusted := entities.NewTrustedIdentitySet([]string{"ABCDE12345"})

	tests := []struct {
		name     string
		identity entities.SigningIdentity
		want     bool
	}{
		{"trusted member", entities.SigningIdentity{TeamID: "ABCDE12345"}, true},
		{"untrusted", entities.SigningIdentity{TeamID: "ZZZZZ99999"}, false},
		{"absent identity", entities.SigningIdentity{}, false},
		{"no prefix trust", entities.SigningIdentity{TeamID: "ABCDE12346"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyIdentity(tt.identity, trusted); got != tt.want {
				t.Errorf("VerifyIdentity(%v) = %v, want %v", tt.identity, got, tt.want)
			}
		})
	}
}
