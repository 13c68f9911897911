// utils/validator.go - Input validation
package utils

import (
	"path"
	"strings"
)

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}

// ValidateRelativePath checks that a media path is a clean relative path
// inside the upload area (no absolute paths, no parent traversal).
func ValidateRelativePath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

// SanitizePathList trims and validates a list of media paths, returning the
// cleaned list and whether every entry was acceptable.
func SanitizePathList(paths []string) ([]string, bool) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = SanitizeInput(p)
		if !ValidateRelativePath(p) {
			return nil, false
		}
		out = append(out, p)
	}
	return out, true
}
