package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"flatten.dev/flatten/internal/config"
	flattenerrors "flatten.dev/flatten/internal/errors"
	"flatten.dev/flatten/internal/fsutil"
)

const repoRoot = "/repo"

func newFS(t *testing.T, files map[string]string) *fsutil.FS {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll(repoRoot, 0o755))
	for path, content := range files {
		require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0o600))
	}
	return fsutil.New(mem)
}

func TestLoad(t *testing.T) {
	configPath := filepath.Join(repoRoot, config.FileName)

	t.Run("missing default file yields defaults", func(t *testing.T) {
		cfg, err := config.Load(newFS(t, nil), repoRoot, "")
		require.NoError(t, err)
		require.Equal(t, config.Default(), cfg)
		require.Equal(t, "develop", cfg.Reference)
		require.Equal(t, "student", cfg.Target)
		require.Equal(t, []string{"student", "develop"}, cfg.Protected)
		require.Equal(t, []string{"Exercise", "Solution"}, cfg.Markers)
		require.Equal(t, []string{".git", ".DS_Store"}, cfg.Ignore)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := config.Load(newFS(t, nil), repoRoot, "/elsewhere/nope.yml")
		require.ErrorIs(t, err, os.ErrNotExist)
		require.ErrorIs(t, err, flattenerrors.ErrFilesystem)
	})

	t.Run("file overrides defaults and protects reference and target", func(t *testing.T) {
		fs := newFS(t, map[string]string{configPath: `reference: main
target: handout
protected: [release]
markers: [Lab]
ignore: [.git, "*.iml"]
`})

		cfg, err := config.Load(fs, repoRoot, "")
		require.NoError(t, err)
		require.Equal(t, "main", cfg.Reference)
		require.Equal(t, "handout", cfg.Target)
		require.Equal(t, []string{"release", "handout", "main"}, cfg.Protected)
		require.Equal(t, []string{"Lab"}, cfg.Markers)
		require.Equal(t, []string{".git", "*.iml"}, cfg.Ignore)
	})

	t.Run("ignore list without .git still ignores it", func(t *testing.T) {
		fs := newFS(t, map[string]string{configPath: "ignore: [\"*.class\"]\n"})

		cfg, err := config.Load(fs, repoRoot, "")
		require.NoError(t, err)
		require.Equal(t, []string{"*.class", ".git"}, cfg.Ignore)
	})

	t.Run("explicit path is read", func(t *testing.T) {
		fs := newFS(t, map[string]string{"/etc/flatten.yml": "markers: [Step]\n"})

		cfg, err := config.Load(fs, repoRoot, "/etc/flatten.yml")
		require.NoError(t, err)
		require.Equal(t, []string{"Step"}, cfg.Markers)
	})

	t.Run("partial file keeps remaining defaults", func(t *testing.T) {
		fs := newFS(t, map[string]string{configPath: "target: handout\n"})

		cfg, err := config.Load(fs, repoRoot, "")
		require.NoError(t, err)
		require.Equal(t, "develop", cfg.Reference)
		require.Equal(t, "handout", cfg.Target)
		require.Equal(t, []string{"student", "develop", "handout"}, cfg.Protected)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		fs := newFS(t, map[string]string{configPath: "markers: [unterminated\n"})

		_, err := config.Load(fs, repoRoot, "")
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "empty reference", mutate: func(c *config.Config) { c.Reference = "" }},
		{name: "empty target", mutate: func(c *config.Config) { c.Target = "" }},
		{name: "same reference and target", mutate: func(c *config.Config) { c.Target = c.Reference }},
		{name: "no markers", mutate: func(c *config.Config) { c.Markers = []string{""} }},
		{name: "bad ignore glob", mutate: func(c *config.Config) { c.Ignore = []string{"["} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	t.Run("empty ignore list still ignores .git", func(t *testing.T) {
		cfg := config.Default()
		cfg.Ignore = nil
		require.NoError(t, cfg.Validate())
		require.Equal(t, []string{".git"}, cfg.Ignore)

		require.NoError(t, cfg.Validate())
		require.Equal(t, []string{".git"}, cfg.Ignore)
	})
}

func TestMerge(t *testing.T) {
	cfg := config.Default()
	cfg.Merge(&config.Config{Markers: []string{"Step"}})
	require.Equal(t, []string{"Step"}, cfg.Markers)
	require.Equal(t, "develop", cfg.Reference)

	cfg.Merge(nil)
	require.Equal(t, []string{"Step"}, cfg.Markers)
}
