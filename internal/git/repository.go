package git

import (
	"fmt"
	"path/filepath"

	"github.com/emirpasic/gods/trees/binaryheap"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	flattenerrors "flatten.dev/flatten/internal/errors"
)

// Repository wraps a go-git repository
type Repository struct {
	*gogit.Repository
	root string
}

// OpenRepository opens the git repository containing path.
// path may be the work tree root or any directory below it.
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, flattenerrors.NewRepositoryError("resolve path "+path, err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, flattenerrors.NewRepositoryError("open repository at "+absPath, err)
	}

	// Get the worktree to find the root
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, flattenerrors.NewRepositoryError("open worktree", err)
	}

	return &Repository{
		Repository: repo,
		root:       worktree.Filesystem.Root(),
	}, nil
}

// Root returns the root directory of the work tree
func (r *Repository) Root() string {
	return r.root
}

// BranchNames returns all local branch names
func (r *Repository) BranchNames() ([]string, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, flattenerrors.NewRepositoryError("list branches", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, flattenerrors.NewRepositoryError("iterate branches", err)
	}

	return names, nil
}

// RevList returns the ids of every commit reachable from ref in the order of
// `git rev-list <ref>`: newest committer date first, commits with equal dates
// in the order they were reached, first parents before later ones.
func (r *Repository) RevList(ref string) ([]string, error) {
	hash, err := r.resolveRefHash(ref)
	if err != nil {
		return nil, err
	}

	tip, err := r.CommitObject(hash)
	if err != nil {
		return nil, flattenerrors.NewRepositoryError("read commit "+hash.String(), err)
	}

	queue := binaryheap.NewWith(byCommitDate)
	seen := map[plumbing.Hash]bool{tip.Hash: true}
	seq := 0
	queue.Push(queuedCommit{commit: tip, seq: seq})

	var revs []string
	for !queue.Empty() {
		item, _ := queue.Pop()
		c := item.(queuedCommit).commit
		revs = append(revs, c.Hash.String())

		for _, parentHash := range c.ParentHashes {
			if seen[parentHash] {
				continue
			}
			seen[parentHash] = true
			parent, err := r.CommitObject(parentHash)
			if err != nil {
				return nil, flattenerrors.NewRepositoryError("walk history of "+ref, err)
			}
			seq++
			queue.Push(queuedCommit{commit: parent, seq: seq})
		}
	}

	return revs, nil
}

type queuedCommit struct {
	commit *object.Commit
	seq    int
}

// byCommitDate orders newest committer date first, then by discovery
func byCommitDate(a, b interface{}) int {
	x, y := a.(queuedCommit), b.(queuedCommit)
	xt, yt := x.commit.Committer.When.Unix(), y.commit.Committer.When.Unix()
	switch {
	case xt > yt:
		return -1
	case xt < yt:
		return 1
	}
	return x.seq - y.seq
}

// CommitMessage returns the full message of a commit
func (r *Repository) CommitMessage(rev string) (string, error) {
	hash, err := r.resolveRefHash(rev)
	if err != nil {
		return "", err
	}

	commit, err := r.CommitObject(hash)
	if err != nil {
		return "", flattenerrors.NewRepositoryError("read commit "+rev, err)
	}

	return commit.Message, nil
}

// SetBranch creates the local branch name at rev, or moves it there if it
// already exists.
func (r *Repository) SetBranch(name, rev string) error {
	hash, err := r.resolveRefHash(rev)
	if err != nil {
		return err
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	if err := ref.Name().Validate(); err != nil {
		return flattenerrors.NewRepositoryError(fmt.Sprintf("set branch %q", name), err)
	}
	if err := r.Storer.SetReference(ref); err != nil {
		return flattenerrors.NewRepositoryError(fmt.Sprintf("set branch %q", name), err)
	}
	return nil
}

// resolveRefHash resolves a ref (branch name, SHA, or ref path) to a hash
func (r *Repository) resolveRefHash(ref string) (plumbing.Hash, error) {
	// 1. Try as a full reference name
	if rf, err := r.Reference(plumbing.ReferenceName(ref), true); err == nil {
		return rf.Hash(), nil
	}

	// 2. Try as a local branch
	if rf, err := r.Reference(plumbing.NewBranchReferenceName(ref), true); err == nil {
		return rf.Hash(), nil
	}

	// 3. Try as a remote branch
	if rf, err := r.Reference(plumbing.NewRemoteReferenceName("origin", ref), true); err == nil {
		return rf.Hash(), nil
	}

	// 4. Try as a tag
	if rf, err := r.Reference(plumbing.NewTagReferenceName(ref), true); err == nil {
		return rf.Hash(), nil
	}

	// 5. Try ResolveRevision (handles SHAs, short SHAs, and expressions like HEAD~1)
	hash, err := r.ResolveRevision(plumbing.Revision(ref))
	if err == nil {
		return *hash, nil
	}

	return plumbing.ZeroHash, flattenerrors.NewRepositoryError("resolve "+ref, plumbing.ErrReferenceNotFound)
}
