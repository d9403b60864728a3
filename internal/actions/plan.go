package actions

import (
	"sort"

	"flatten.dev/flatten/internal/runtime"
	"flatten.dev/flatten/internal/tui"
	"flatten.dev/flatten/internal/utils"
)

// Plan reports what Flatten would do with opts without touching branches,
// the work tree, or the filesystem.
func Plan(ctx *runtime.Context, opts Options) (*Result, error) {
	splog := ctx.Splog
	result := &Result{
		DeletedBranches: []string{},
		Snapshots:       []Snapshot{},
		Copied:          []string{},
	}

	branches, err := ctx.Git.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	for _, branch := range branches {
		if utils.ContainsString(opts.Protected, branch) {
			continue
		}
		splog.Info("Would remove local branch: %s", tui.ColorBranchName(branch))
		result.DeletedBranches = append(result.DeletedBranches, branch)
	}

	revs, err := ctx.Git.RevList(ctx, opts.Reference)
	if err != nil {
		return nil, err
	}

	byLabel := map[string]int{}
	for _, rev := range revs {
		message, err := ctx.Git.CommitMessage(ctx, rev)
		if err != nil {
			return nil, err
		}
		label := utils.SanitizeLabel(message)
		if !utils.HasMarker(label, opts.Markers) {
			continue
		}

		branch := utils.SanitizeBranchName(label)
		if utils.ContainsString(opts.Protected, branch) {
			branch = ""
		}
		snapshot := Snapshot{Label: label, Revision: rev, Branch: branch}

		splog.Info("Would save snapshot of: %s %s", tui.ColorLabel(label), tui.ColorDim(shortRev(rev)))
		if i, seen := byLabel[label]; seen {
			splog.Warn("%s has the same label as %s (%s); the later one wins",
				shortRev(rev), shortRev(result.Snapshots[i].Revision), label)
			result.Snapshots[i] = snapshot
			continue
		}
		byLabel[label] = len(result.Snapshots)
		result.Snapshots = append(result.Snapshots, snapshot)
	}

	for label := range byLabel {
		result.Copied = append(result.Copied, label)
	}
	sort.Strings(result.Copied)

	splog.Info("Dry run: would copy %d snapshot(s) onto %s. Nothing was changed.",
		len(result.Copied), tui.ColorBranchName(opts.Target))
	return result, nil
}
