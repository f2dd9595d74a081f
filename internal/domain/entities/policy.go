package entities

import "time"

// DefaultToolTimeout bounds every external tool invocation so a corrupt
// artifact cannot hang the pipeline indefinitely
const DefaultToolTimeout = 2 * time.Minute

// Policy is the immutable run configuration passed into the orchestrator.
// Every recognized option is enumerated here; there is no ambient
// environment lookup anywhere else.
type Policy struct {
	FailOnWorldWritable bool
	FailOnSetuid        bool
	FailOnSymlinkEscape bool
	Verbose             bool

	// AllowedSymlinkPrefixes are extra filesystem prefixes symlink targets
	// may resolve into without counting as escapes
	AllowedSymlinkPrefixes []string

	// RecipeHint disambiguates multiple candidate artifacts in a directory
	RecipeHint string

	// ChecksumFile, SignatureFile and SignatureKeyFile enable optional
	// artifact pre-verification before any deeper inspection
	ChecksumFile     string
	SignatureFile    string
	SignatureKeyFile string

	// ToolTimeout bounds each external tool invocation
	ToolTimeout time.Duration
}

// DefaultPolicy returns the policy with all hygiene checks fatal
func DefaultPolicy() Policy {
	return Policy{
		FailOnWorldWritable: true,
		FailOnSetuid:        true,
		FailOnSymlinkEscape: true,
		ToolTimeout:         DefaultToolTimeout,
	}
}
