package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// maxElementIDLength bounds element IDs accepted from diagram input.
const maxElementIDLength = 256

// ValidateElementID validates a diagram element ID.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only IDs
//   - No control characters
//   - Maximum length of 256 characters
//
// The "~" character is allowed; virtual node IDs that collide with user IDs
// get a numeric suffix instead.
func ValidateElementID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "element id cannot be empty")
	}

	if len(id) > maxElementIDLength {
		return New(ErrCodeInvalidInput, "element id too long (max %d characters)", maxElementIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "element id contains invalid control characters")
		}
	}

	return nil
}

// ValidateLayoutID validates a stored layout ID. IDs are UUIDs.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid layout id %q", id)
	}
	return nil
}

// ValidateOutputFormat checks that format is one of the render formats.
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "json", "dot", "svg", "png", "pdf":
		return nil
	case "":
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	default:
		return New(ErrCodeUnsupported, "unsupported output format %q (want json, dot, svg, png or pdf)", format)
	}
}
