// Package security validates file paths supplied by external inputs
// such as corpus manifests.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateWithinDir checks that path, once cleaned and resolved
// against dir when relative, does not escape dir. Manifest files list
// image paths and are not trusted to stay inside their corpus.
func ValidateWithinDir(path, dir string) error {
	if path == "" {
		return fmt.Errorf("security: empty path")
	}

	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return fmt.Errorf("security: resolve directory %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	if !filepath.IsAbs(target) {
		target = filepath.Join(absDir, target)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("security: resolve path %s: %w", path, err)
	}

	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return fmt.Errorf("security: relate %s to %s: %w", absTarget, absDir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("security: path %s escapes directory %s", path, dir)
	}
	return nil
}
