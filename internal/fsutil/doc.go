// Package fsutil provides the filesystem operations flatten needs on top of
// afero: a staging directory, tree copies with ignore patterns, removal,
// listing and existence checks.
//
// Every failure is returned as an errors.FilesystemError so callers can tell
// filesystem failures apart from version-control failures.
package fsutil
