package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node and edge identifiers accepted from untrusted input.
const maxIDLength = 512

// ValidateID validates a node or edge identifier received from a diagram snapshot.
//
// The rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of 512 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidDiagram, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidDiagram, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDiagram, "%s id %q contains control characters", kind, id)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
