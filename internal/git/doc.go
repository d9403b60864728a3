// Package git provides the version-control side of flatten.
//
// It wraps go-git and git command execution behind the VCS interface:
//   - Branch management (list, delete, create/reset to a commit)
//   - History queries (revision walk, commit messages)
//   - Work tree operations (checkout, clean)
//
// This package should be the only place where git is touched directly.
package git
