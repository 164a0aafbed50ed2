// Package security holds path checks for files named inside other files.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolveWithin joins name onto baseDir and rejects results that escape
// baseDir. The check is lexical so it works on any fsutil.FileSystem,
// including the in-memory one; absolute names are refused outright.
func ResolveWithin(baseDir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("absolute path %q not allowed, must be relative to %s", name, baseDir)
	}

	joined := filepath.Join(baseDir, name)
	rel, err := filepath.Rel(filepath.Clean(baseDir), joined)
	if err != nil {
		return "", fmt.Errorf("path is outside %s: %w", baseDir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %s attempts to escape %s", name, baseDir)
	}
	return joined, nil
}

// SanitizeFilename makes a file name from an arbitrary clip name. Runs of
// anything other than ASCII letters, digits, dot or dash become a single
// underscore; the result is at most 128 bytes.
func SanitizeFilename(s string) string {
	const maxLen = 128

	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
