// Package yaml provides YAML-based validation policy loading.
package yaml

import (
	"fmt"
	"os"
	"time"

	"github.com/trustgate/trustgate/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlPolicy represents the raw YAML structure. Booleans are pointers so
// an absent key keeps its default instead of reading as false.
type yamlPolicy struct {
	FailOnWorldWritable    *bool    `yaml:"fail_on_world_writable"`
	FailOnSetuid           *bool    `yaml:"fail_on_setuid"`
	FailOnSymlinkEscape    *bool    `yaml:"fail_on_symlink_escape"`
	Verbose                *bool    `yaml:"verbose"`
	AllowedSymlinkPrefixes []string `yaml:"allowed_symlink_prefixes"`
	RecipeHint             string   `yaml:"recipe_hint"`
	TrustedIDsFile         string   `yaml:"trusted_ids_file"`
	ToolTimeoutMinutes     int      `yaml:"tool_timeout_minutes"`
}

// PolicyRepository loads validation policies from YAML files
type PolicyRepository struct{}

// NewPolicyRepository creates a new YAML-based policy repository
func NewPolicyRepository() *PolicyRepository {
	return &PolicyRepository{}
}

// LoadPolicy parses a policy file on top of the default policy and
// returns it along with the trusted-ids file path named by the file (""
// when the file doesn't name one). CLI flags set explicitly override
// file values; that merge happens in the caller.
func (r *PolicyRepository) LoadPolicy(path string) (entities.Policy, string, error) {
	pol := entities.DefaultPolicy()

	//nolint:gosec // G304: path is a user-provided policy file
	data, err := os.ReadFile(path)
	if err != nil {
		return pol, "", entities.WrapError(entities.ErrPolicyLoadFailed, path, err)
	}

	var raw yamlPolicy
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return pol, "", entities.WrapError(entities.ErrPolicyLoadFailed, path,
			fmt.Errorf("invalid YAML: %w", err))
	}

	if raw.FailOnWorldWritable != nil {
		pol.FailOnWorldWritable = *raw.FailOnWorldWritable
	}
	if raw.FailOnSetuid != nil {
		pol.FailOnSetuid = *raw.FailOnSetuid
	}
	if raw.FailOnSymlinkEscape != nil {
		pol.FailOnSymlinkEscape = *raw.FailOnSymlinkEscape
	}
	if raw.Verbose != nil {
		pol.Verbose = *raw.Verbose
	}
	pol.AllowedSymlinkPrefixes = append(pol.AllowedSymlinkPrefixes, raw.AllowedSymlinkPrefixes...)
	if raw.RecipeHint != "" {
		pol.RecipeHint = raw.RecipeHint
	}
	if raw.ToolTimeoutMinutes > 0 {
		pol.ToolTimeout = time.Duration(raw.ToolTimeoutMinutes) * time.Minute
	}

	return pol, raw.TrustedIDsFile, nil
}
