// Package walker discovers Python source files for flow analysis.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested root path does not exist.
	ErrNotFound = errors.New("path does not exist")
	// ErrUnsupported indicates the root exists but is neither a Python
	// source file nor a directory.
	ErrUnsupported = errors.New("not a Python file or directory")
)

// Config controls the behaviour of Discover.
type Config struct {
	Root         string   // File or directory to search.
	Include      []string // Glob patterns — only matching files are included.
	Exclude      []string // Glob patterns — matching files are excluded.
	ExcludeNames []string // Additional directory names to skip entirely.
}

// Discover returns the Python files under config.Root in deterministic
// sorted order. Hidden directories, well-known cache/dependency/test
// directories, and test-named files are skipped. A single .py file as
// root is returned as-is.
func Discover(config Config) ([]string, error) {
	root, err := filepath.Abs(config.Root)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	}
	if err != nil {
		return nil, fmt.Errorf("walker: stat root: %w", err)
	}

	if !info.IsDir() {
		if strings.HasSuffix(root, ".py") {
			return []string{root}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, root)
	}

	excludeNames := excludeSet(config.ExcludeNames)

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path != root && shouldExcludeDir(name, excludeNames) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !strings.HasSuffix(name, ".py") {
			return nil
		}
		if isTestFile(name) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !MatchesInclude(relPath, config.Include) {
			return nil
		}
		if MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	// WalkDir is already lexical, but keep the ordering contract explicit:
	// downstream resolution depends on a fixed file order.
	sort.Strings(files)
	return files, nil
}

// isTestFile returns true if the filename follows a test naming convention.
func isTestFile(name string) bool {
	stem := strings.TrimSuffix(name, ".py")
	return strings.HasPrefix(stem, "test_") ||
		strings.HasSuffix(stem, "_test") ||
		stem == "conftest"
}
