package walker

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludeNames are directory names excluded from traversal by
// default: virtualenvs, caches, VCS metadata, and test directories.
var DefaultExcludeNames = []string{
	"__pycache__",
	".git",
	".hg",
	".svn",
	".venv",
	"venv",
	"env",
	".env",
	".tox",
	".nox",
	".pytest_cache",
	".mypy_cache",
	".ruff_cache",
	"node_modules",
	"tests",
	"test",
}

// excludeSet merges the default exclusions with caller-supplied names.
func excludeSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(DefaultExcludeNames)+len(extra))
	for _, name := range DefaultExcludeNames {
		set[name] = true
	}
	for _, name := range extra {
		set[name] = true
	}
	return set
}

// shouldExcludeDir checks whether a directory should be skipped entirely.
// Hidden directories are always skipped.
func shouldExcludeDir(name string, excludes map[string]bool) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return excludes[name]
}

// MatchesInclude returns true if the given relative path matches any of the
// include patterns. If patterns is empty, everything is included.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if the given relative path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny checks if relPath matches any of the given glob patterns.
// It uses doublestar for ** support and also tries the bare filename.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
