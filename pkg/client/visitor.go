package client

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

// LoadOrCreateVisitorID returns the visitor token stored at path, creating
// and persisting a fresh one on first use. The token is a correlation key,
// not a credential. If the file cannot be written the generated id is still
// returned and lives only for the session.
func LoadOrCreateVisitorID(path string) string {
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}

	id := "v_" + ulid.Make().String()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		_ = os.WriteFile(path, []byte(id), 0o644)
	}
	return id
}
