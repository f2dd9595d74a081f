package entities

// TeamIDLength is the fixed length of an Apple team identifier
const TeamIDLength = 10

// SigningIdentity is a team identifier extracted from a signature,
// attached to the path it was extracted from. An empty TeamID means
// no identifier was present in the signature.
type SigningIdentity struct {
	Path   string
	TeamID string
}

// Present reports whether an identifier was extracted at all
func (s SigningIdentity) Present() bool {
	return s.TeamID != ""
}

// TrustedIdentitySet is an immutable set of team identifiers loaded once
// per run. Membership is exact-match and case-sensitive.
type TrustedIdentitySet struct {
	ids map[string]struct{}
}

// NewTrustedIdentitySet builds a set from the given identifiers.
// Identifiers failing the team-ID shape are silently dropped; callers
// validate and report at load time.
func NewTrustedIdentitySet(ids []string) *TrustedIdentitySet {
	set := &TrustedIdentitySet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if ValidTeamID(id) {
			set.ids[id] = struct{}{}
		}
	}
	return set
}

// Contains reports exact, case-sensitive membership
func (s *TrustedIdentitySet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of trusted identifiers
func (s *TrustedIdentitySet) Len() int {
	return len(s.ids)
}

// ValidTeamID reports whether id has the team-identifier shape:
// exactly 10 characters from [A-Z0-9]
func ValidTeamID(id string) bool {
	if len(id) != TeamIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}
