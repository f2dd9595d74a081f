package gateways

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// checksumVerifier implements checksum verification using pure Go
type checksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksumVerifier() *checksumVerifier {
	return &checksumVerifier{}
}

// VerifyChecksum verifies filePath against a sum file in the usual
// "hash  filename" format. The digest algorithm is chosen by the hash
// length: 64 hex chars means SHA-256, 128 means SHA-512.
func (v *checksumVerifier) VerifyChecksum(_ context.Context, filePath, sumFile string) error {
	//nolint:gosec // G304: sumFile is user-provided for checksum verification
	data, err := os.ReadFile(sumFile)
	if err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return fmt.Errorf("invalid checksum file format")
	}
	expected := strings.ToLower(fields[0])

	var h hash.Hash
	switch len(expected) {
	case 64:
		h = sha256.New()
	case 128:
		h = sha512.New()
	default:
		return fmt.Errorf("unrecognized checksum length %d (expected SHA-256 or SHA-512)", len(expected))
	}

	//nolint:gosec // G304: filePath is user-provided for checksum verification
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("failed to hash file: %w", err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}

	return nil
}
