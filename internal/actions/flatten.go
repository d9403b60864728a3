package actions

import (
	"fmt"
	"path/filepath"

	"flatten.dev/flatten/internal/runtime"
	"flatten.dev/flatten/internal/tui"
	"flatten.dev/flatten/internal/utils"
)

// stagingPattern prefixes the temporary directory holding snapshots
const stagingPattern = "flatten-"

// Flatten runs the whole pipeline: branch cleanup, a clean work tree,
// snapshots of every labelled commit on opts.Reference, and the overlay of
// those snapshots onto opts.Target.
//
// Any failure aborts the run. The staging directory is removed on every path
// out of the snapshot and copy phases.
func Flatten(ctx *runtime.Context, opts Options) (result *Result, err error) {
	if opts.DryRun {
		return Plan(ctx, opts)
	}

	splog := ctx.Splog
	result = &Result{}

	deleted, err := RemoveLocalBranches(ctx, opts.Protected)
	if err != nil {
		return nil, err
	}
	result.DeletedBranches = deleted

	if err := ctx.Git.Clean(ctx); err != nil {
		return nil, err
	}

	stagingDir, err := ctx.FS.MkdirTemp("", stagingPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	splog.Debug("Staging snapshots in %s", stagingDir)

	defer func() {
		if rmErr := ctx.FS.RemoveAll(stagingDir); rmErr != nil {
			splog.Warn("Failed to remove staging directory %s: %v", stagingDir, rmErr)
			if err == nil {
				result, err = nil, fmt.Errorf("failed to remove staging directory: %w", rmErr)
			}
		}
	}()

	snapshots, err := SnapshotHistory(ctx, opts, stagingDir)
	if err != nil {
		return nil, err
	}
	result.Snapshots = snapshots

	copied, err := CopySnapshots(ctx, opts.Target, stagingDir)
	if err != nil {
		return nil, err
	}
	result.Copied = copied

	splog.Newline()
	splog.Info("Done! Review and commit the %s branch at your leisure.", tui.ColorBranchName(opts.Target))
	splog.Tip("Then run $ git push --all --prune")

	return result, nil
}

// RemoveLocalBranches deletes every local branch not named in protected
func RemoveLocalBranches(ctx *runtime.Context, protected []string) ([]string, error) {
	branches, err := ctx.Git.ListBranches(ctx)
	if err != nil {
		return nil, err
	}

	deleted := []string{}
	for _, branch := range branches {
		if utils.ContainsString(protected, branch) {
			continue
		}
		ctx.Splog.Info("Removing local branch: %s", tui.ColorBranchName(branch))
		if err := ctx.Git.DeleteBranch(ctx, branch); err != nil {
			return deleted, err
		}
		deleted = append(deleted, branch)
	}
	return deleted, nil
}

// SnapshotHistory walks opts.Reference and copies the work tree of every
// commit whose label carries a marker into stagingDir/<label>. A label seen
// twice keeps the snapshot written last.
func SnapshotHistory(ctx *runtime.Context, opts Options, stagingDir string) ([]Snapshot, error) {
	splog := ctx.Splog

	revs, err := ctx.Git.RevList(ctx, opts.Reference)
	if err != nil {
		return nil, err
	}

	snapshots := []Snapshot{}
	byLabel := map[string]int{}

	for _, rev := range revs {
		message, err := ctx.Git.CommitMessage(ctx, rev)
		if err != nil {
			return nil, err
		}

		label := utils.SanitizeLabel(message)
		if !utils.HasMarker(label, opts.Markers) {
			splog.Debug("Skipping %s %q", shortRev(rev), label)
			continue
		}

		branch := labelBranch(ctx, label, opts.Protected)
		if branch != "" {
			if err := ctx.Git.SetBranch(ctx, branch, rev); err != nil {
				return nil, err
			}
		}

		if err := ctx.Git.Checkout(ctx, rev); err != nil {
			return nil, err
		}
		splog.Info("Saving snapshot of: %s", tui.ColorLabel(label))
		if err := ctx.Git.Clean(ctx); err != nil {
			return nil, err
		}

		targetDir := filepath.Join(stagingDir, label)
		snapshot := Snapshot{Label: label, Revision: rev, Branch: branch}

		if i, seen := byLabel[label]; seen {
			splog.Warn("%s has the same label as %s (%s); replacing its snapshot",
				shortRev(rev), shortRev(snapshots[i].Revision), label)
			if err := ctx.FS.RemoveAll(targetDir); err != nil {
				return nil, err
			}
			snapshots[i] = snapshot
		} else {
			byLabel[label] = len(snapshots)
			snapshots = append(snapshots, snapshot)
		}

		if err := ctx.FS.CopyTree(ctx.RepoRoot, targetDir, opts.Ignore); err != nil {
			return nil, fmt.Errorf("failed to save snapshot %q: %w", label, err)
		}
	}

	return snapshots, nil
}

// CopySnapshots checks out target and overlays the staged snapshots onto it
func CopySnapshots(ctx *runtime.Context, target, stagingDir string) ([]string, error) {
	if err := ctx.Git.Checkout(ctx, target); err != nil {
		return nil, err
	}
	return OverlaySnapshots(ctx, stagingDir)
}

// OverlaySnapshots copies every directory in stagingDir to the repository
// root, replacing a same-named directory if one exists.
func OverlaySnapshots(ctx *runtime.Context, stagingDir string) ([]string, error) {
	items, err := ctx.FS.ListDir(stagingDir)
	if err != nil {
		return nil, err
	}

	copied := []string{}
	for _, item := range items {
		sourceDir := filepath.Join(stagingDir, item)
		destDir := filepath.Join(ctx.RepoRoot, item)

		exists, err := ctx.FS.Exists(destDir)
		if err != nil {
			return copied, err
		}
		if exists {
			if err := ctx.FS.RemoveAll(destDir); err != nil {
				return copied, err
			}
		}

		ctx.Splog.Info("Copying: %s", tui.ColorLabel(item))
		if err := ctx.FS.CopyTree(sourceDir, destDir, nil); err != nil {
			return copied, fmt.Errorf("failed to copy snapshot %q: %w", item, err)
		}
		copied = append(copied, item)
	}
	return copied, nil
}

// labelBranch returns the branch name to point at a labelled commit, or ""
// when the label cannot be used as one.
func labelBranch(ctx *runtime.Context, label string, protected []string) string {
	branch := utils.SanitizeBranchName(label)
	switch {
	case branch == "":
		ctx.Splog.Debug("No branch name can be derived from %q", label)
		return ""
	case utils.ContainsString(protected, branch):
		ctx.Splog.Warn("Not moving protected branch %s to snapshot %s", tui.ColorBranchName(branch), label)
		return ""
	}
	return branch
}

func shortRev(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
