// Package trust loads the trusted team-identifier list.
package trust

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trustgate/trustgate/internal/domain/entities"
)

// LoadTrustedIDs reads a trusted-identifier file: one team ID per line,
// `#` comments stripped, blank lines ignored. Lines failing the
// ten-character alphanumeric shape are rejected with a warning.
func LoadTrustedIDs(path string) (*entities.TrustedIdentitySet, error) {
	//nolint:gosec // G304: path is the user-provided trusted-ids file
	f, err := os.Open(expandUser(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open trusted-ids file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !entities.ValidTeamID(line) {
			fmt.Fprintf(os.Stderr, "Warning: ignoring malformed team ID %q in %s\n", line, path)
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trusted-ids file: %w", err)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("no trusted team IDs found in %s", path)
	}

	return entities.NewTrustedIdentitySet(ids), nil
}

func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
