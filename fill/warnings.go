package fill

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal fill issue.
type WarningKind int

const (
	// UnknownField: the template has a token with no supplied value; the
	// token is left in place.
	UnknownField WarningKind = iota
	// UnusedValue: a value was supplied for a name the template does not use.
	UnusedValue
	// PhotoIgnored: a photo was supplied but the template has no photo field.
	PhotoIgnored
	// PhotoMissing: the template has a photo field but no photo was supplied;
	// the photo line is removed.
	PhotoMissing
	// PhotoValueIgnored: a text value was supplied for the reserved photo
	// field.
	PhotoValueIgnored
)

// String returns a short name for the kind.
func (k WarningKind) String() string {
	switch k {
	case UnknownField:
		return "unknown-field"
	case UnusedValue:
		return "unused-value"
	case PhotoIgnored:
		return "photo-ignored"
	case PhotoMissing:
		return "photo-missing"
	case PhotoValueIgnored:
		return "photo-value-ignored"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found while filling. The fill still produced
// a document.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message"`
}

// String returns the warning message.
func (w Warning) String() string {
	if w.Field == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

// FormatWarnings joins warnings into a single line for logging.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
