// Package testhelpers provides testing utilities for flatten,
// including a scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected local branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	cmd := exec.Command("git", "-C", repo.Dir,
		"for-each-ref", "refs/heads/", "--format=%(refname:short)")
	output, err := cmd.Output()
	require.NoError(t, err, "Failed to list branches")

	filtered := []string{}
	for _, b := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		b = strings.TrimSpace(b)
		if b != "" {
			filtered = append(filtered, b)
		}
	}

	sort.Strings(filtered)
	want := append([]string(nil), expected...)
	sort.Strings(want)

	require.Equal(t, want, filtered, "Branches do not match")
}

// ExpectFileContent asserts that a file below dir has the given content.
func ExpectFileContent(t *testing.T, dir, relPath, expected string) {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(dir, relPath))
	require.NoError(t, err, "Failed to read %s", relPath)
	require.Equal(t, expected, string(content), "Unexpected content in %s", relPath)
}

// ExpectNoPath asserts that a path below dir does not exist.
func ExpectNoPath(t *testing.T, dir, relPath string) {
	t.Helper()

	_, err := os.Stat(filepath.Join(dir, relPath))
	require.True(t, os.IsNotExist(err), "Expected %s not to exist", relPath)
}
