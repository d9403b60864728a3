package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir    string
	Repo   *GitRepo
	oldDir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository,
// and makes it the current directory for the duration of the test.
// It automatically handles cleanup using t.Cleanup().
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	// Create temporary directory
	tmpDir, err := os.MkdirTemp("", "flatten-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	// Normalize (on macOS /var is symlinked to /private/var)
	if resolved, err := filepath.EvalSymlinks(tmpDir); err == nil {
		tmpDir = resolved
	}

	// Save current directory
	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	// Initialize Git repository
	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:    tmpDir,
		Repo:   repo,
		oldDir: oldDir,
	}

	// Change to temp directory
	if err := os.Chdir(tmpDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("Failed to change directory: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
		if os.Getenv("DEBUG") == "" {
			_ = os.RemoveAll(tmpDir)
		}
	})

	// Run custom setup if provided
	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// CourseSceneSetup builds a small course history on develop:
//
//	Initial commit -> Exercise 1: Intro -> Minor fix -> Solution 1: Intro -> Exercise 2: Lists
//
// and a student branch at the initial commit. The working tree is left on develop.
func CourseSceneSetup(scene *Scene) error {
	r := scene.Repo
	if err := r.CommitFiles("Initial commit", map[string]string{"README.md": "course\n"}); err != nil {
		return err
	}
	if err := r.CreateBranch("student"); err != nil {
		return err
	}
	if err := r.CommitFiles("Exercise 1: Intro\n\nStart here.", map[string]string{"app/Main.java": "// TODO intro\n"}); err != nil {
		return err
	}
	if err := r.CommitFiles("Minor fix", map[string]string{"README.md": "course v2\n"}); err != nil {
		return err
	}
	if err := r.CommitFiles("Solution 1: Intro", map[string]string{"app/Main.java": "// intro done\n"}); err != nil {
		return err
	}
	return r.CommitFiles("Exercise 2: Lists", map[string]string{"app/List.java": "// TODO lists\n"})
}
