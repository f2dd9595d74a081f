package services

import (
	"regexp"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

// Signature diagnostic formats differ between the package inspector
// (a labeled Developer ID line) and the component inspector (a
// TeamIdentifier key-value pair). Both embed a ten-character team ID.
var (
	packageTeamIDPattern   = regexp.MustCompile(`Developer ID Installer: .*\(([A-Z0-9]{10})\)`)
	componentTeamIDPattern = regexp.MustCompile(`TeamIdentifier=([A-Z0-9]{10})`)
)

// ExtractPackageTeamID pulls the team identifier out of raw package
// signature diagnostic text. Returns false when no identifier is present.
func ExtractPackageTeamID(raw string) (string, bool) {
	m := packageTeamIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractComponentTeamID pulls the team identifier out of raw component
// signature diagnostic text. Returns false when no identifier is present.
func ExtractComponentTeamID(raw string) (string, bool) {
	m := componentTeamIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// VerifyIdentity checks an extracted identity against the trusted set.
// No partial matches: the identifier must exactly equal a trusted entry.
func VerifyIdentity(identity entities.SigningIdentity, trusted *entities.TrustedIdentitySet) bool {
	return identity.Present() && trusted.Contains(identity.TeamID)
}
