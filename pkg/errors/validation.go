package errors

import (
	"strings"
	"unicode"
)

// ValidateEditID validates an edit identifier before it is used as a file
// name or a database key. It rejects anything that could escape a store
// directory:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateEditID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "edit id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "edit id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "edit id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",
		"/",
		"\\",
		"\x00",
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "edit id contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(id, ".") {
		return New(ErrCodeInvalidInput, "edit id cannot start with a dot")
	}

	return nil
}

// ValidateName validates a display name for scenes, tag definitions and
// edits. Names are free text but must be non-blank and printable.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}
