// Package security validates file paths taken from configuration.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbiddenChars are shell metacharacters never expected in a database or
// env file path.
const forbiddenChars = ";&|$`(){}<>!\n\r"

// ValidateFilePath cleans path and makes it absolute. An existing file has
// its symlinks resolved; a missing one is returned cleaned so it can be
// created.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	if i := strings.IndexAny(path, forbiddenChars); i >= 0 {
		return "", fmt.Errorf("file path contains forbidden character %q: %s", path[i], path)
	}

	clean, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(clean)
	switch {
	case err == nil:
		return resolved, nil
	case os.IsNotExist(err):
		return clean, nil
	default:
		return "", fmt.Errorf("resolve file path: %w", err)
	}
}
