package services

import (
	"context"
	"debug/macho"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/trustgate/trustgate/internal/domain/entities"
	"github.com/trustgate/trustgate/internal/domain/interfaces"
)

// reservedMetadataDirs are signed-but-uninteresting subtrees: signature
// metadata, Mac App Store receipts, and resource directories covered
// implicitly by the outer signature
var reservedMetadataDirs = map[string]struct{}{
	"_CodeSignature": {},
	"_MASReceipt":    {},
	"Resources":      {},
}

// componentBundleSuffixes mark directories that are themselves signed
// bundles and get inspected as a unit
var componentBundleSuffixes = []string{".framework", ".appex", ".plugin", ".bundle"}

func isComponentBundle(name string) bool {
	for _, suffix := range componentBundleSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// VerifyComponents walks an application bundle top-down, inspecting the
// signature of every nested component bundle and every loose native
// binary. A verified sub-bundle is recorded in an exclusion set and never
// descended into (descend-once), so its contents are not re-inspected as
// loose files of the outer bundle. The first untrusted or uninspectable
// component aborts the traversal.
func (s *validationService) VerifyComponents(ctx context.Context, appRoot string, trusted *entities.TrustedIdentitySet) error {
	verified := make(map[string]struct{})
	var failure error

	walkErr := filepath.WalkDir(appRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == appRoot {
			return nil
		}

		if d.IsDir() {
			if _, reserved := reservedMetadataDirs[d.Name()]; reserved {
				return fs.SkipDir
			}
			if !isComponentBundle(d.Name()) {
				return nil
			}
			if _, done := verified[path]; !done {
				if err := s.verifyComponent(ctx, path, trusted); err != nil {
					failure = err
					return fs.SkipAll
				}
				verified[path] = struct{}{}
			}
			// Covered by its own signature as a unit
			return fs.SkipDir
		}

		// Symlinks are never treated as binaries, so a binary reachable
		// by two paths is verified once
		if !d.Type().IsRegular() {
			return nil
		}
		if underAny(path, verified) {
			return nil
		}
		if !isMachOBinary(path) {
			return nil
		}
		if err := s.verifyComponent(ctx, path, trusted); err != nil {
			failure = err
			return fs.SkipAll
		}
		return nil
	})
	if failure != nil {
		return failure
	}
	if walkErr != nil {
		return entities.WrapError(entities.ErrSignatureInspectionFailed, appRoot, walkErr)
	}
	return nil
}

// verifyComponent inspects one component's signature and checks the
// extracted identity against the trusted set
func (s *validationService) verifyComponent(ctx context.Context, path string, trusted *entities.TrustedIdentitySet) error {
	raw, err := s.gateway.InspectComponent(ctx, path)
	if err != nil {
		return entities.WrapError(entities.ErrSignatureInspectionFailed, path, err)
	}

	identity := entities.SigningIdentity{Path: path}
	if id, ok := ExtractComponentTeamID(raw); ok {
		identity.TeamID = id
	}

	if !VerifyIdentity(identity, trusted) {
		extracted := identity.TeamID
		if extracted == "" {
			extracted = "none"
		}
		return entities.NewError(entities.ErrUntrustedComponentIdentity, path,
			fmt.Sprintf("team ID %s not in trusted set", extracted))
	}

	s.logger.Debug("component verified",
		interfaces.F("path", path), interfaces.F("team_id", identity.TeamID))
	return nil
}

// underAny reports whether path lies under any directory in the set
func underAny(path string, dirs map[string]struct{}) bool {
	for dir := range dirs {
		if HasPathPrefix(path, dir) {
			return true
		}
	}
	return false
}

// isMachOBinary sniffs the first bytes of a regular file for the known
// native-binary magic numbers (thin 32/64-bit and fat, either byte order)
func isMachOBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	var head [4]byte
	if _, err := io.ReadFull(f, head[:]); err != nil {
		return false
	}

	be := binary.BigEndian.Uint32(head[:])
	le := binary.LittleEndian.Uint32(head[:])
	for _, magic := range []uint32{macho.Magic32, macho.Magic64, macho.MagicFat} {
		if be == magic || le == magic {
			return true
		}
	}
	return false
}
