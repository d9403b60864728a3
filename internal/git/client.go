package git

import (
	"context"
	"fmt"
)

// VCS defines the version-control operations used by the flatten pipeline.
// This allows the pipeline to be used with both real git and fake implementations.
type VCS interface {
	// Root returns the work tree root
	Root() string

	// Branch Management
	ListBranches(ctx context.Context) ([]string, error)
	DeleteBranch(ctx context.Context, branchName string) error
	SetBranch(ctx context.Context, branchName, revision string) error

	// History
	RevList(ctx context.Context, ref string) ([]string, error)
	CommitMessage(ctx context.Context, revision string) (string, error)

	// Work tree
	Checkout(ctx context.Context, revision string) error
	Clean(ctx context.Context) error
}

// Client implements VCS. Reads and ref updates go through go-git; anything
// that touches the work tree runs the git binary.
type Client struct {
	repo   *Repository
	runner *CommandRunner
}

// NewClient opens the repository containing path and returns a Client for it
func NewClient(path string) (*Client, error) {
	repo, err := OpenRepository(path)
	if err != nil {
		return nil, err
	}
	return &Client{
		repo:   repo,
		runner: NewCommandRunner(repo.Root()),
	}, nil
}

// Root returns the work tree root
func (c *Client) Root() string {
	return c.repo.Root()
}

// ListBranches returns all local branch names
func (c *Client) ListBranches(_ context.Context) ([]string, error) {
	names, err := c.repo.BranchNames()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return names, nil
}

// DeleteBranch force-deletes a local branch
func (c *Client) DeleteBranch(ctx context.Context, branchName string) error {
	_, err := c.runner.Run(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// SetBranch creates or resets a local branch to point at revision
func (c *Client) SetBranch(_ context.Context, branchName, revision string) error {
	if err := c.repo.SetBranch(branchName, revision); err != nil {
		return fmt.Errorf("failed to point branch %s at %s: %w", branchName, revision, err)
	}
	return nil
}

// RevList returns every commit reachable from ref, newest first
func (c *Client) RevList(_ context.Context, ref string) ([]string, error) {
	revs, err := c.repo.RevList(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions of %s: %w", ref, err)
	}
	return revs, nil
}

// CommitMessage returns the full message of a commit
func (c *Client) CommitMessage(_ context.Context, revision string) (string, error) {
	msg, err := c.repo.CommitMessage(revision)
	if err != nil {
		return "", fmt.Errorf("failed to look up commit %s: %w", revision, err)
	}
	return msg, nil
}

// Checkout checks out a branch, or a commit in detached HEAD state
func (c *Client) Checkout(ctx context.Context, revision string) error {
	_, err := c.runner.Run(ctx, "checkout", "--quiet", revision, "--")
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", revision, err)
	}
	return nil
}

// Clean removes untracked and ignored files and directories from the work tree
func (c *Client) Clean(ctx context.Context) error {
	_, err := c.runner.Run(ctx, "clean", "-fdx")
	if err != nil {
		return fmt.Errorf("failed to clean work tree: %w", err)
	}
	return nil
}
