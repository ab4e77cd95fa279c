package errors

import (
	"strings"
	"unicode"
)

// ValidateAssetPath validates a long package path such as "/Game/Blueprints/BP_Door".
// It rejects paths that could not name an asset package.
//
// Validation rules:
//   - Path cannot be empty
//   - Must start with a single "/" followed by a mount point
//   - Maximum length of 256 characters
//   - No control characters, traversal sequences, backslashes or dots
func ValidateAssetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "package path cannot be empty")
	}

	if len(path) > 256 {
		return New(ErrCodeInvalidPath, "package path too long (max 256 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "package path contains invalid control characters")
		}
	}

	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return New(ErrCodeInvalidPath, "package path must start with a mount point (e.g. /Game/...): %q", path)
	}

	dangerousPatterns := []string{
		"..", // Parent directory
		"//", // Empty segment
		"\\", // Backslash (Windows path)
		".",  // Object names are not part of a package path
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(path, pattern) {
			return New(ErrCodeInvalidPath, "package path contains invalid characters: %q", pattern)
		}
	}

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "package path must name an asset, not a folder: %q", path)
	}

	return nil
}

// ValidateCacheKey validates a cache key for use as a file name.
// It ensures the key is a simple basename without path components.
func ValidateCacheKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "cache key cannot be empty")
	}

	if strings.ContainsAny(key, "/\\") {
		return New(ErrCodeInvalidKey, "cache key cannot contain path separators")
	}

	if strings.HasPrefix(key, ".") {
		return New(ErrCodeInvalidKey, "cache key cannot be a hidden file")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "cache key contains invalid control characters")
		}
	}

	return nil
}
