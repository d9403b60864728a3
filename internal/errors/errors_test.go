package errors_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	flattenerrors "flatten.dev/flatten/internal/errors"
)

func TestErrorKinds(t *testing.T) {
	t.Run("git command errors are VCS errors", func(t *testing.T) {
		cause := errors.New("exit status 128")
		err := fmt.Errorf("failed to checkout develop: %w",
			flattenerrors.NewGitCommandError("git", []string{"checkout", "develop"}, "", "fatal: bad ref", cause))

		require.ErrorIs(t, err, flattenerrors.ErrVCS)
		require.NotErrorIs(t, err, flattenerrors.ErrFilesystem)
		require.ErrorIs(t, err, cause)
		require.Contains(t, err.Error(), "stderr: fatal: bad ref")
	})

	t.Run("repository errors are VCS errors", func(t *testing.T) {
		err := flattenerrors.NewRepositoryError("open repository", os.ErrNotExist)

		require.ErrorIs(t, err, flattenerrors.ErrVCS)
		require.ErrorIs(t, err, os.ErrNotExist)
		require.Equal(t, "open repository: file does not exist", err.Error())
	})

	t.Run("filesystem errors keep their cause", func(t *testing.T) {
		err := fmt.Errorf("copy snapshot: %w", flattenerrors.NewFilesystemError("copy", "/tmp/x", os.ErrExist))

		require.ErrorIs(t, err, flattenerrors.ErrFilesystem)
		require.ErrorIs(t, err, os.ErrExist)
		require.NotErrorIs(t, err, flattenerrors.ErrVCS)

		var fsErr *flattenerrors.FilesystemError
		require.ErrorAs(t, err, &fsErr)
		require.Equal(t, "/tmp/x", fsErr.Path)
	})
}
