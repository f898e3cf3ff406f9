package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidateModelPath validates a model or options file path given on the
// command line or in an API request.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - Extension must be one of .toml, .yaml, .yml or .json
func ValidateModelPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml", ".json":
	default:
		return New(ErrCodeInvalidPath, "unsupported file extension %q (want .toml, .yaml or .json)", filepath.Ext(path))
	}

	return nil
}

// varNameRegex matches variable and constraint names accepted in model files.
var varNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\[\],#-]*$`)

// ValidateName validates a variable or constraint name.
// Names must start with a letter or underscore and stay below 256 characters.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModel, "name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidModel, "name too long (max 256 characters)")
	}
	if !varNameRegex.MatchString(name) {
		return New(ErrCodeInvalidModel, "invalid name: %q", name)
	}
	return nil
}
