// Package actions provides the flatten pipeline.
//
// The pipeline removes stray local branches, snapshots every labelled commit
// of a reference branch into a staging directory, and overlays the snapshots
// onto a target branch's work tree.
//
// Key patterns:
//   - Actions accept runtime.Context which provides the VCS, the filesystem, Splog, and the repository root
//   - Actions are stateless - all state lives in the repository and the staging directory
//   - Failures are returned immediately; only the staging directory is cleaned up
//
// Dependencies:
//   - git: version-control operations behind git.VCS
//   - fsutil: filesystem operations behind fsutil.Filesystem
//   - tui: progress output
package actions
