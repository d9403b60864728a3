package actions_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	flattenerrors "flatten.dev/flatten/internal/errors"
)

const fakeRoot = "/repo"

type fakeCommit struct {
	rev     string
	message string
	files   map[string]string
}

// fakeVCS is an in-memory git.VCS. Checking out a revision replaces the work
// tree under fakeRoot, .git excepted, with that commit's files.
type fakeVCS struct {
	fs       afero.Fs
	commits  []fakeCommit // newest first
	branches map[string]string
	head     string

	// fail maps "Op" or "Op arg" to the error that call returns
	fail  map[string]error
	calls []string
}

func newFakeVCS(fs afero.Fs) *fakeVCS {
	_ = fs.MkdirAll(filepath.Join(fakeRoot, ".git"), 0o755)
	_ = afero.WriteFile(fs, filepath.Join(fakeRoot, ".git", "HEAD"), []byte("ref: refs/heads/develop\n"), 0o644)
	return &fakeVCS{
		fs:       fs,
		branches: map[string]string{},
		fail:     map[string]error{},
	}
}

// commit adds a commit on top of the history and returns its revision
func (f *fakeVCS) commit(message string, files map[string]string) string {
	rev := fmt.Sprintf("%040d", len(f.commits)+1)
	f.commits = append([]fakeCommit{{rev: rev, message: message, files: files}}, f.commits...)
	return rev
}

func (f *fakeVCS) failOn(call string) {
	f.fail[call] = flattenerrors.NewGitCommandError("git", strings.Fields(call), "", "injected failure", fmt.Errorf("exit status 1"))
}

func (f *fakeVCS) record(op string, args ...string) error {
	call := strings.TrimSpace(op + " " + strings.Join(args, " "))
	f.calls = append(f.calls, call)
	if err, ok := f.fail[call]; ok {
		return err
	}
	if err, ok := f.fail[op]; ok {
		return err
	}
	return nil
}

func (f *fakeVCS) mutations() []string {
	var out []string
	for _, call := range f.calls {
		switch strings.Fields(call)[0] {
		case "DeleteBranch", "SetBranch", "Checkout", "Clean":
			out = append(out, call)
		}
	}
	return out
}

func (f *fakeVCS) lookup(rev string) (fakeCommit, bool) {
	if target, ok := f.branches[rev]; ok {
		rev = target
	}
	for _, c := range f.commits {
		if c.rev == rev {
			return c, true
		}
	}
	return fakeCommit{}, false
}

func (f *fakeVCS) Root() string {
	return fakeRoot
}

func (f *fakeVCS) ListBranches(_ context.Context) ([]string, error) {
	if err := f.record("ListBranches"); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(f.branches))
	for name := range f.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeVCS) DeleteBranch(_ context.Context, name string) error {
	if err := f.record("DeleteBranch", name); err != nil {
		return err
	}
	if _, ok := f.branches[name]; !ok {
		return flattenerrors.NewGitCommandError("git", []string{"branch", "-D", name}, "", "branch not found", nil)
	}
	delete(f.branches, name)
	return nil
}

func (f *fakeVCS) SetBranch(_ context.Context, name, rev string) error {
	if err := f.record("SetBranch", name, rev); err != nil {
		return err
	}
	f.branches[name] = rev
	return nil
}

func (f *fakeVCS) RevList(_ context.Context, ref string) ([]string, error) {
	if err := f.record("RevList", ref); err != nil {
		return nil, err
	}
	start, ok := f.lookup(ref)
	if !ok {
		return nil, flattenerrors.NewRepositoryError("resolve "+ref, fmt.Errorf("reference not found"))
	}
	var revs []string
	found := false
	for _, c := range f.commits {
		if c.rev == start.rev {
			found = true
		}
		if found {
			revs = append(revs, c.rev)
		}
	}
	return revs, nil
}

func (f *fakeVCS) CommitMessage(_ context.Context, rev string) (string, error) {
	if err := f.record("CommitMessage", rev); err != nil {
		return "", err
	}
	c, ok := f.lookup(rev)
	if !ok {
		return "", flattenerrors.NewRepositoryError("read commit "+rev, fmt.Errorf("object not found"))
	}
	return c.message, nil
}

func (f *fakeVCS) Checkout(_ context.Context, rev string) error {
	if err := f.record("Checkout", rev); err != nil {
		return err
	}
	c, ok := f.lookup(rev)
	if !ok {
		return flattenerrors.NewGitCommandError("git", []string{"checkout", rev}, "", "pathspec did not match", nil)
	}

	entries, err := afero.ReadDir(f.fs, fakeRoot)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := f.fs.RemoveAll(filepath.Join(fakeRoot, entry.Name())); err != nil {
			return err
		}
	}
	for name, content := range c.files {
		path := filepath.Join(fakeRoot, name)
		if err := f.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(f.fs, path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	f.head = c.rev
	return nil
}

// Clean removes files the current checkout does not track
func (f *fakeVCS) Clean(_ context.Context) error {
	if err := f.record("Clean"); err != nil {
		return err
	}
	tracked := map[string]bool{}
	if c, ok := f.lookup(f.head); ok {
		for name := range c.files {
			tracked[filepath.Join(fakeRoot, name)] = true
		}
	}
	var untracked []string
	err := afero.Walk(f.fs, fakeRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && info.Name() == ".git" {
			return filepath.SkipDir
		}
		if !info.IsDir() && !tracked[path] {
			untracked = append(untracked, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, path := range untracked {
		if err := f.fs.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

// readTree returns the files under dir keyed by their slash-separated relative path
func readTree(fs afero.Fs, dir string) map[string]string {
	tree := map[string]string{}
	_ = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		data, _ := afero.ReadFile(fs, path)
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	return tree
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}
