package disk

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyPath is returned when an empty path is normalized.
var ErrEmptyPath = errors.New("empty path")

// Normalize canonicalizes a path into one unambiguous absolute form with
// platform separators: symlinks in the existing portion are resolved, the
// non-existent suffix is rejoined verbatim, and verbatim/UNC markers are
// stripped. Upload sessions reference paths that do not exist yet, so the
// leaf components are allowed to be missing; Normalize fails only when no
// ancestor of the path can be resolved.
func Normalize(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	abs, err := filepath.Abs(filepath.FromSlash(path))
	if err != nil {
		return "", err
	}
	abs = stripVerbatimPrefix(abs)

	resolved, suffix, err := resolveExistingPrefix(abs)
	if err != nil {
		return "", err
	}

	resolved = stripVerbatimPrefix(resolved)
	if suffix == "" {
		return resolved, nil
	}
	return filepath.Join(resolved, suffix), nil
}

// resolveExistingPrefix walks the path upwards until a component exists,
// canonicalizes that prefix and returns it together with the remaining
// non-existent suffix.
func resolveExistingPrefix(abs string) (string, string, error) {
	current := abs
	suffix := ""

	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return resolved, suffix, nil
		}
		if !os.IsNotExist(err) {
			return "", "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Ran out of ancestors; even the root failed to resolve.
			return "", "", err
		}
		suffix = filepath.Join(filepath.Base(current), suffix)
		current = parent
	}
}

// stripVerbatimPrefix removes Windows verbatim path markers so that paths
// compare equal regardless of how they were produced. No-op for paths that
// carry no marker.
func stripVerbatimPrefix(path string) string {
	if strings.HasPrefix(path, `\\?\UNC\`) {
		return `\\` + path[len(`\\?\UNC\`):]
	}
	if strings.HasPrefix(path, `\\?\`) {
		return path[len(`\\?\`):]
	}
	return path
}
