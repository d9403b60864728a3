package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLabelLength is the maximum number of characters in a snapshot label
const MaxLabelLength = 100

// DefaultMarkers are the words that select a commit for snapshotting
var DefaultMarkers = []string{"Exercise", "Solution"}

// SanitizeLabel derives a filesystem-safe label from a commit message.
//
// Only the first line is used. Letters, numbers (including ½ and Ⅻ), spaces and "-", "_", "." are
// kept, surrounding whitespace is trimmed, and the result is cut to
// MaxLabelLength characters. SanitizeLabel(SanitizeLabel(m)) == SanitizeLabel(m).
func SanitizeLabel(message string) string {
	firstLine, _, _ := strings.Cut(message, "\n")

	var b strings.Builder
	for _, r := range firstLine {
		if IsLabelRune(r) {
			b.WriteRune(r)
		}
	}

	label := strings.TrimSpace(b.String())
	if utf8.RuneCountInString(label) > MaxLabelLength {
		// Trim again so a cut at a space stays idempotent
		label = strings.TrimSpace(string([]rune(label)[:MaxLabelLength]))
	}
	return label
}

// IsLabelRune reports whether r may appear in a label
func IsLabelRune(r rune) bool {
	switch r {
	case ' ', '-', '_', '.':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// HasMarker reports whether any marker occurs in the label (case-sensitive)
func HasMarker(label string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(label, marker) {
			return true
		}
	}
	return false
}
