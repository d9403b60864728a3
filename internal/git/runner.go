package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	flattenerrors "flatten.dev/flatten/internal/errors"
)

// DefaultCommandTimeout bounds a single git invocation when the caller's
// context has no deadline of its own. A checkout or clean of a large course
// tree is the slowest thing flatten asks git to do.
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner invokes the git binary in the work tree root. Flatten uses it
// for the work-tree mutations: detached checkouts, clean -fdx and branch -D.
type CommandRunner struct {
	workTree string
}

// NewCommandRunner returns a runner that executes git in workTree
func NewCommandRunner(workTree string) *CommandRunner {
	return &CommandRunner{workTree: workTree}
}

// Run executes git with args and returns its trimmed stdout. A non-zero exit
// or an expired deadline yields a *GitCommandError carrying both streams.
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, bounded := ctx.Deadline(); !bounded {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.workTree
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Report the deadline rather than the "signal: killed" it causes
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", flattenerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
