package runtime

import (
	"context"

	"flatten.dev/flatten/internal/fsutil"
	"flatten.dev/flatten/internal/git"
	"flatten.dev/flatten/internal/tui"
)

// Context provides access to the repository, the filesystem and output for commands
type Context struct {
	context.Context
	Git      git.VCS
	FS       fsutil.Filesystem
	Splog    *tui.Splog
	RepoRoot string
}

// NewContext creates a new context with the given collaborators
func NewContext(ctx context.Context, vcs git.VCS, fs fsutil.Filesystem, splog *tui.Splog) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if splog == nil {
		splog = tui.NewSplog()
	}
	return &Context{
		Context:  ctx,
		Git:      vcs,
		FS:       fs,
		Splog:    splog,
		RepoRoot: vcs.Root(),
	}
}

// GetContext opens the repository containing repoPath and returns a context
// backed by real git and the operating system's filesystem.
func GetContext(ctx context.Context, repoPath string, splog *tui.Splog) (*Context, error) {
	if repoPath == "" {
		repoPath = "."
	}

	client, err := git.NewClient(repoPath)
	if err != nil {
		return nil, err
	}

	return NewContext(ctx, client, fsutil.NewOS(), splog), nil
}
