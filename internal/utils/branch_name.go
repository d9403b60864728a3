package utils

import (
	"regexp"
	"strings"
)

const (
	// MaxBranchNameByteLength is the maximum length for a branch name
	// Git refs have a max length of 256 bytes, minus 22 for the "refs/heads/" prefix and headroom
	MaxBranchNameByteLength = 234
)

var (
	// BranchNameReplaceRegex matches characters that are not valid in branch names
	// Valid characters: letters, numbers, -, _, /, .
	BranchNameReplaceRegex = regexp.MustCompile(`[^-_/.a-zA-Z0-9]+`)

	dotRunRegex    = regexp.MustCompile(`\.{2,}`)
	hyphenRunRegex = regexp.MustCompile(`-+`)
)

// SanitizeBranchName turns an arbitrary string (usually a snapshot label) into a
// name git accepts under refs/heads.
func SanitizeBranchName(name string) string {
	// Replace invalid characters with hyphens
	name = BranchNameReplaceRegex.ReplaceAllString(name, "-")

	// git rejects ".." anywhere in a ref
	name = dotRunRegex.ReplaceAllString(name, ".")

	name = hyphenRunRegex.ReplaceAllString(name, "-")

	name = strings.TrimLeft(name, "-./")
	name = strings.TrimRight(name, "-./")

	// Limit length
	if len(name) > MaxBranchNameByteLength {
		name = name[:MaxBranchNameByteLength]
		name = strings.TrimRight(name, "-./")
	}

	return name
}
