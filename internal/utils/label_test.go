package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSanitizeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{
			name:     "first line only and colon removed",
			message:  "Exercise 1: Intro\nmore text",
			expected: "Exercise 1 Intro",
		},
		{
			name:     "safe punctuation kept",
			message:  "S02.01-Exercise-Networking",
			expected: "S02.01-Exercise-Networking",
		},
		{
			name:     "underscores kept",
			message:  "Solution_3",
			expected: "Solution_3",
		},
		{
			name:     "surrounding whitespace trimmed",
			message:  "   Solution 2   \n",
			expected: "Solution 2",
		},
		{
			name:     "carriage return dropped",
			message:  "Exercise 4\r\nbody",
			expected: "Exercise 4",
		},
		{
			name:     "path separators removed",
			message:  "Exercise ../../etc/passwd",
			expected: "Exercise ....etcpasswd",
		},
		{
			name:     "non-ascii letters kept",
			message:  "Übung Exercise 5",
			expected: "Übung Exercise 5",
		},
		{
			name:     "fraction and roman numerals kept",
			message:  "Exercise Ⅻ: ½ done",
			expected: "Exercise Ⅻ ½ done",
		},
		{
			name:     "superscript digits kept",
			message:  "Solution x²",
			expected: "Solution x²",
		},
		{
			name:     "empty message",
			message:  "",
			expected: "",
		},
		{
			name:     "only unsafe characters",
			message:  "!!! ??? :::",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, SanitizeLabel(tt.message))
		})
	}
}

func TestSanitizeLabel_Truncates(t *testing.T) {
	t.Parallel()

	label := SanitizeLabel("Exercise " + strings.Repeat("x", 200))

	require.Equal(t, MaxLabelLength, utf8.RuneCountInString(label))
	require.True(t, strings.HasPrefix(label, "Exercise xxx"))
}

func TestSanitizeLabel_TruncationAtSpaceStaysTrimmed(t *testing.T) {
	t.Parallel()

	// Character 100 is a space
	message := strings.Repeat("a", MaxLabelLength-1) + " " + strings.Repeat("b", 20)

	label := SanitizeLabel(message)

	require.Equal(t, strings.Repeat("a", MaxLabelLength-1), label)
	require.Equal(t, label, SanitizeLabel(label))
}

func TestSanitizeLabel_Properties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Exercise 1: Intro\nmore text",
		"Minor fix",
		"  \t Solution: final (really) \t ",
		"Exercise\x00\x01 control chars",
		strings.Repeat("Solution ", 40),
		strings.Repeat("é", 150),
		"emoji 🚀 Exercise",
		"tabs\tand\vvertical",
	}

	for _, input := range inputs {
		label := SanitizeLabel(input)

		require.Equal(t, label, SanitizeLabel(label), "idempotent for %q", input)
		require.LessOrEqual(t, utf8.RuneCountInString(label), MaxLabelLength, "length for %q", input)
		for _, r := range label {
			require.True(t, IsLabelRune(r), "unexpected rune %q in label for %q", r, input)
		}
	}
}

func TestHasMarker(t *testing.T) {
	t.Parallel()

	require.True(t, HasMarker("Exercise 1 Intro", DefaultMarkers))
	require.True(t, HasMarker("S02.01-Solution-Networking", DefaultMarkers))
	require.False(t, HasMarker("Minor fix", DefaultMarkers))
	require.False(t, HasMarker("exercise lowercase", DefaultMarkers))
	require.False(t, HasMarker("Exercise", nil))
	require.False(t, HasMarker("Exercise", []string{""}))
	require.True(t, HasMarker("Lab 3", []string{"Lab"}))
}
