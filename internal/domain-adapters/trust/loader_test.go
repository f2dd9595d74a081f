package trust

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeIDsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trusted_ids.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTrustedIDs_SkipsCommentsAndBlanks(t *testing.T) {
	path := writeIDsFile(t, `# vendor allowlist
ABCDE12345

FGHIJ67890  # widgets inc
`)

	set, err := LoadTrustedIDs(path)
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 {
		t.Fatalf("loaded %d ids, want 2", set.Len())
	}
	for _, id := range []string{"ABCDE12345", "FGHIJ67890"} {
		if !set.Contains(id) {
			t.Errorf("set missing %s", id)
		}
	}
}

func TestLoadTrustedIDs_RejectsMalformedLines(t *testing.T) {
	path := writeIDsFile(t, `ABCDE12345
tooshort
lowercase1
WAYTOOLONG123456
FGHIJ67890
`)

	set, err := LoadTrustedIDs(path)
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 {
		t.Errorf("loaded %d ids, want only the two well-formed ones", set.Len())
	}
	if set.Contains("tooshort") || set.Contains("WAYTOOLONG123456") {
		t.Error("malformed ids must not enter the trusted set")
	}
}

func TestLoadTrustedIDs_EmptyFileErrors(t *testing.T) {
	path := writeIDsFile(t, "# nothing but comments\n\n")

	_, err := LoadTrustedIDs(path)
	if err == nil || !strings.Contains(err.Error(), "no trusted team IDs") {
		t.Errorf("err = %v, want empty-set error", err)
	}
}

func TestLoadTrustedIDs_MissingFile(t *testing.T) {
	_, err := LoadTrustedIDs(filepath.Join(t.TempDir(), "gone.txt"))
	if err == nil || !strings.Contains(err.Error(), "failed to open") {
		t.Errorf("err = %v, want open error", err)
	}
}
