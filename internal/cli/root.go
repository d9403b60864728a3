package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flatten.dev/flatten/internal/actions"
	"flatten.dev/flatten/internal/config"
	flattenerrors "flatten.dev/flatten/internal/errors"
	"flatten.dev/flatten/internal/runtime"
	"flatten.dev/flatten/internal/tui"
	"flatten.dev/flatten/internal/utils"
)

type rootFlags struct {
	repo       string
	reference  string
	target     string
	protect    []string
	markers    []string
	ignore     []string
	configPath string
	dryRun     bool
	yes        bool
	debug      bool
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var f rootFlags

	rootCmd := &cobra.Command{
		Use:   "flatten",
		Short: "Flatten a course repository's exercise history into per-exercise directories",
		Long: `Flatten walks the reference branch (develop by default) and saves a snapshot
of every commit whose first message line mentions Exercise or Solution. Each
snapshot is copied to a directory named after that line on the target branch
(student by default), replacing an existing directory of the same name.

Every local branch other than the protected ones is deleted first, and the
work tree is cleaned with git clean -fdx. Commit the target branch when you
are happy with the result.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFlatten(cmd, f)
		},
	}

	rootCmd.Flags().StringVarP(&f.repo, "repo", "C", ".", "Path inside the repository to flatten")
	rootCmd.Flags().StringVar(&f.reference, "reference", "", "Branch whose history is walked (default \"develop\")")
	rootCmd.Flags().StringVar(&f.target, "target", "", "Branch that receives the snapshot directories (default \"student\")")
	rootCmd.Flags().StringSliceVar(&f.protect, "protect", nil, "Branch that is never deleted (repeatable)")
	rootCmd.Flags().StringSliceVar(&f.markers, "marker", nil, "Word that marks a commit for a snapshot (repeatable)")
	rootCmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "Base-name glob left out of snapshots (repeatable)")
	rootCmd.Flags().StringVar(&f.configPath, "config", "", "Configuration file (default <repo>/"+config.FileName+")")
	rootCmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Show what would happen without changing anything")
	rootCmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Don't prompt for confirmation")
	rootCmd.Flags().BoolVar(&f.debug, "debug", false, "Print debug output")

	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}

func runFlatten(cmd *cobra.Command, f rootFlags) error {
	splog, err := tui.NewSplogWithConfig(tui.SplogOptions{
		Writer:      cmd.OutOrStdout(),
		LogFilePath: tui.GetLogFilePath(),
		Debug:       f.debug || os.Getenv("DEBUG") != "",
	})
	if err != nil {
		return err
	}
	defer func() { _ = splog.Close() }()

	ctx, err := runtime.GetContext(cmd.Context(), f.repo, splog)
	if err != nil {
		return err
	}
	splog.Debug("Repository root: %s", ctx.RepoRoot)

	cfg, err := loadConfig(cmd, ctx, f)
	if err != nil {
		return err
	}

	opts := actions.Options{
		Reference: cfg.Reference,
		Target:    cfg.Target,
		Protected: cfg.Protected,
		Markers:   cfg.Markers,
		Ignore:    cfg.Ignore,
		DryRun:    f.dryRun,
	}

	if !f.dryRun && !f.yes && tui.IsTTY() {
		if err := confirm(ctx, opts); err != nil {
			return err
		}
	}

	_, err = actions.Flatten(ctx, opts)
	return err
}

// loadConfig layers flags over the configuration file over the defaults
func loadConfig(cmd *cobra.Command, ctx *runtime.Context, f rootFlags) (*config.Config, error) {
	cfg, err := config.Load(ctx.FS, ctx.RepoRoot, f.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	overrides := &config.Config{}
	if flags.Changed("reference") {
		overrides.Reference = f.reference
	}
	if flags.Changed("target") {
		overrides.Target = f.target
	}
	if flags.Changed("protect") {
		overrides.Protected = f.protect
	}
	if flags.Changed("marker") {
		overrides.Markers = f.markers
	}
	if flags.Changed("ignore") {
		overrides.Ignore = f.ignore
	}
	cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func confirm(ctx *runtime.Context, opts actions.Options) error {
	branches, err := ctx.Git.ListBranches(ctx)
	if err != nil {
		return err
	}
	doomed := 0
	for _, branch := range branches {
		if !utils.ContainsString(opts.Protected, branch) {
			doomed++
		}
	}

	prompt := fmt.Sprintf("Delete %d local branch(es) and overwrite snapshot directories on %s?",
		doomed, tui.ColorBranchName(opts.Target))
	ok, err := tui.PromptConfirm(prompt, false)
	if err != nil {
		return fmt.Errorf("%w: %w", flattenerrors.ErrCanceled, err)
	}
	if !ok {
		return flattenerrors.ErrCanceled
	}
	return nil
}
