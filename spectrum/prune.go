package spectrum

import (
	"fmt"
	"os"
	"path/filepath"
)

// Prune removes files matching the glob pattern from keep's directory,
// leaving keep itself. The pattern is matched against base names. It returns
// the names removed; a failed removal is reported but does not stop the rest.
func Prune(keep, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("prune pattern %q: %w", pattern, err)
	}

	dir := filepath.Dir(keep)
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}

	keepAbs, err := filepath.Abs(keep)
	if err != nil {
		return nil, err
	}

	var (
		removed  []string
		firstErr error
	)
	for _, m := range matches {
		abs, err := filepath.Abs(m)
		if err != nil || abs == keepAbs {
			continue
		}
		if fi, err := os.Stat(m); err != nil || fi.IsDir() {
			continue
		}
		if err := os.Remove(m); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed = append(removed, filepath.Base(m))
	}
	return removed, firstErr
}
