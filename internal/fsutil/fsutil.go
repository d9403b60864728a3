package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	flattenerrors "flatten.dev/flatten/internal/errors"
)

// GitDirName is the repository metadata directory. It is never part of a snapshot.
const GitDirName = ".git"

// DefaultIgnorePatterns are base-name globs never copied into a snapshot
var DefaultIgnorePatterns = []string{GitDirName, ".DS_Store"}

// Filesystem defines the filesystem operations used by the flatten pipeline.
// This allows the pipeline to run against both the real disk and an in-memory fake.
type Filesystem interface {
	MkdirTemp(dir, pattern string) (string, error)
	CopyTree(src, dst string, ignore []string) error
	RemoveAll(path string) error
	ListDir(path string) ([]string, error)
	Exists(path string) (bool, error)
	ReadFile(path string) ([]byte, error)
}

// FS implements Filesystem over an afero.Fs
type FS struct {
	fs afero.Fs
}

// New creates a Filesystem backed by the given afero filesystem.
// A nil fs means the operating system's filesystem.
func New(fs afero.Fs) *FS {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FS{fs: fs}
}

// NewOS creates a Filesystem backed by the operating system's filesystem
func NewOS() *FS {
	return New(afero.NewOsFs())
}

// MkdirTemp creates a new uniquely named directory
func (f *FS) MkdirTemp(dir, pattern string) (string, error) {
	path, err := afero.TempDir(f.fs, dir, pattern)
	if err != nil {
		return "", flattenerrors.NewFilesystemError("create temp dir", filepath.Join(dir, pattern), err)
	}
	return path, nil
}

// RemoveAll removes path and everything below it. A missing path is not an error.
func (f *FS) RemoveAll(path string) error {
	if err := f.fs.RemoveAll(path); err != nil {
		return flattenerrors.NewFilesystemError("remove", path, err)
	}
	return nil
}

// ListDir returns the names of the entries directly under path, sorted
func (f *FS) ListDir(path string) ([]string, error) {
	infos, err := afero.ReadDir(f.fs, path)
	if err != nil {
		return nil, flattenerrors.NewFilesystemError("list", path, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether path exists
func (f *FS) Exists(path string) (bool, error) {
	ok, err := afero.Exists(f.fs, path)
	if err != nil {
		return false, flattenerrors.NewFilesystemError("stat", path, err)
	}
	return ok, nil
}

// ReadFile returns the contents of the file at path
func (f *FS) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, flattenerrors.NewFilesystemError("read", path, err)
	}
	return data, nil
}

// CopyTree recursively copies src to dst, which must not exist yet.
// Entries whose base name matches one of the ignore globs are skipped at
// every depth, directories included.
func (f *FS) CopyTree(src, dst string, ignore []string) error {
	for _, pattern := range ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return flattenerrors.NewFilesystemError("copy", src, fmt.Errorf("bad ignore pattern %q: %w", pattern, err))
		}
	}

	info, err := f.lstat(src)
	if err != nil {
		return flattenerrors.NewFilesystemError("copy", src, err)
	}
	if !info.IsDir() {
		return flattenerrors.NewFilesystemError("copy", src, fmt.Errorf("not a directory"))
	}

	exists, err := afero.Exists(f.fs, dst)
	if err != nil {
		return flattenerrors.NewFilesystemError("copy", dst, err)
	}
	if exists {
		return flattenerrors.NewFilesystemError("copy", dst, os.ErrExist)
	}

	return f.copyDir(src, dst, info.Mode().Perm(), ignore)
}

func (f *FS) copyDir(src, dst string, perm os.FileMode, ignore []string) error {
	if err := f.fs.MkdirAll(dst, perm|0o700); err != nil {
		return flattenerrors.NewFilesystemError("mkdir", dst, err)
	}

	entries, err := afero.ReadDir(f.fs, src)
	if err != nil {
		return flattenerrors.NewFilesystemError("list", src, err)
	}

	for _, entry := range entries {
		if ignored(entry.Name(), ignore) {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// ReadDir follows symlinks on some backends; re-check without following
		info, err := f.lstat(srcPath)
		if err != nil {
			return flattenerrors.NewFilesystemError("stat", srcPath, err)
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			if err := f.copySymlink(srcPath, dstPath); err != nil {
				return err
			}
		case info.IsDir():
			if err := f.copyDir(srcPath, dstPath, info.Mode().Perm(), ignore); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := f.copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *FS) copyFile(src, dst string, perm os.FileMode) error {
	in, err := f.fs.Open(src)
	if err != nil {
		return flattenerrors.NewFilesystemError("open", src, err)
	}
	defer in.Close()

	out, err := f.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return flattenerrors.NewFilesystemError("create", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return flattenerrors.NewFilesystemError("write", dst, err)
	}
	if err := out.Close(); err != nil {
		return flattenerrors.NewFilesystemError("close", dst, err)
	}
	return nil
}

func (f *FS) copySymlink(src, dst string) error {
	linker, ok := f.fs.(afero.Symlinker)
	if !ok {
		// Backend without links: copy what the link points at
		info, err := f.fs.Stat(src)
		if err != nil {
			return flattenerrors.NewFilesystemError("stat", src, err)
		}
		if info.IsDir() {
			return flattenerrors.NewFilesystemError("copy", src, fmt.Errorf("symlinked directory on a backend without symlinks"))
		}
		return f.copyFile(src, dst, info.Mode().Perm())
	}

	target, err := linker.ReadlinkIfPossible(src)
	if err != nil {
		return flattenerrors.NewFilesystemError("readlink", src, err)
	}
	if err := linker.SymlinkIfPossible(target, dst); err != nil {
		return flattenerrors.NewFilesystemError("symlink", dst, err)
	}
	return nil
}

func (f *FS) lstat(path string) (os.FileInfo, error) {
	if lstater, ok := f.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return f.fs.Stat(path)
}

func ignored(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
