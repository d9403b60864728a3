// Package runtime provides the execution context for flatten.
//
// It encapsulates shared dependencies needed by actions: the version-control
// client, the filesystem, the logger, and the repository root path.
package runtime
