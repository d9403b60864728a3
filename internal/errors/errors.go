// Package errors provides sentinel errors and custom error types for the flatten application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure kinds and user cancellation
var (
	// ErrVCS indicates that a version-control operation failed
	ErrVCS = errors.New("version control failure")

	// ErrFilesystem indicates that a filesystem operation failed
	ErrFilesystem = errors.New("filesystem failure")

	// ErrCanceled indicates that the user declined to continue
	ErrCanceled = errors.New("canceled")
)

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrVCS
func (e *GitCommandError) Is(target error) bool {
	return target == ErrVCS
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// RepositoryError represents a failure reading or writing repository objects
// without going through the git binary.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrVCS
func (e *RepositoryError) Is(target error) bool {
	return target == ErrVCS
}

// NewRepositoryError creates a new RepositoryError
func NewRepositoryError(op string, err error) *RepositoryError {
	return &RepositoryError{Op: op, Err: err}
}

// FilesystemError represents a failed filesystem operation on a path
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrFilesystem
func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}

// NewFilesystemError creates a new FilesystemError
func NewFilesystemError(op, path string, err error) *FilesystemError {
	return &FilesystemError{Op: op, Path: path, Err: err}
}
