package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from graph files and
// API requests.
const MaxNodeIDLength = 256

// OutputFormats lists the artifact formats the pipeline can produce.
var OutputFormats = []string{"json", "dot", "svg"}

// ValidateNodeID validates a node identifier from an external graph.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of MaxNodeIDLength bytes
//   - No double quotes (identifiers are embedded in DOT output)
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidNodeID, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node id contains invalid control characters: %q", id)
		}
	}

	if strings.Contains(id, `"`) {
		return New(ErrCodeInvalidNodeID, "node id cannot contain double quotes: %q", id)
	}

	return nil
}

// ValidateFormats validates a list of requested output formats. An empty
// list is valid and means "use the default".
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(OutputFormats, f) {
			return New(ErrCodeInvalidFormat, "unsupported output format %q (want one of %s)", f, strings.Join(OutputFormats, ", "))
		}
	}
	return nil
}

// ValidateRedisURL checks that a cache backend URL uses a redis scheme.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis:// or rediss:// scheme")
	}
	return nil
}
