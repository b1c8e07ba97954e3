// Package security contains filesystem path hardening used by the
// results store.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscape indicates a resolved path would leave its base directory.
var ErrPathEscape = errors.New("path escapes base directory")

// ResolveWithin joins name under base and rejects any result that would
// traverse outside base. Run artifacts are always addressed through this
// so a hostile results_dir or run name cannot write elsewhere.
func ResolveWithin(base string, elems ...string) (string, error) {
	if base == "" {
		return "", errors.New("base directory is required")
	}

	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base %q: %w", base, err)
	}

	target := filepath.Join(append([]string{absBase}, elems...)...)

	rel, err := filepath.Rel(absBase, target)
	if err != nil {
		return "", fmt.Errorf("relativize %q: %w", target, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, target)
	}
	return target, nil
}
