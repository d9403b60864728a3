package actions

// Options contains options for flattening a repository
type Options struct {
	// Reference is the branch whose history is walked
	Reference string
	// Target is the branch that receives the snapshot directories
	Target string
	// Protected branches are never deleted or reset
	Protected []string
	// Markers select which labels produce snapshots
	Markers []string
	// Ignore holds base-name globs left out of snapshots
	Ignore []string
	// DryRun reports what would happen without changing anything
	DryRun bool
}

// Snapshot describes one labelled commit saved to the staging directory
type Snapshot struct {
	Label    string
	Revision string
	// Branch is the local branch pointed at Revision, empty if none was set
	Branch string
}

// Result contains the result of a flatten run
type Result struct {
	DeletedBranches []string
	Snapshots       []Snapshot
	// Copied lists the directories written at the repository root
	Copied []string
}
