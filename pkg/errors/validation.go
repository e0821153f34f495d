package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName validates a ROS package name for safety and correctness.
// It rejects names that could be used for path traversal or shell injection
// when passed to colcon on the command line.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
//
// REP-144 naming conventions (lowercase, underscores) are not enforced here;
// plenty of real workspaces violate them and still build.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
		" ",    // colcon treats names as single argv entries
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateWorkspaceRoot validates a workspace root path before scanning.
// The path must be non-empty and free of null bytes; existence is checked
// by the scanner itself so the error can name the missing src directory.
func ValidateWorkspaceRoot(path string) error {
	if path == "" {
		return New(ErrCodeInvalidWorkspace, "workspace root cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidWorkspace, "workspace root contains null byte")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidWorkspace, "workspace root path too long")
	}
	return nil
}
