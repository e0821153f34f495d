package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/colcontools/wsman/pkg/colcon"
	"github.com/colcontools/wsman/pkg/errors"
	"github.com/colcontools/wsman/pkg/history"
	"github.com/colcontools/wsman/pkg/selection"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	selects      []string
	symlink      bool
	workers      int
	buildType    string
	noDeps       bool
	saveDefaults bool
}

// buildCommand creates the dependency-aware build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the selected packages and their dependencies",
		Long: `Build packages with colcon.

The selection is expanded to include every package the selected ones
transitively depend on, so the build set is always closed. Pass
--no-deps to build exactly the named packages instead. Without
--select, the selection persisted from the last session is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, opts)
		},
	}

	cfg, _ := c.loadConfig()
	cmd.Flags().StringSliceVarP(&opts.selects, "select", "s", nil, "packages to build (defaults to the persisted selection)")
	cmd.Flags().BoolVar(&opts.symlink, "symlink-install", cfg.SymlinkInstall, "use colcon --symlink-install")
	cmd.Flags().IntVar(&opts.workers, "workers", cfg.ParallelWorkers, "parallel workers")
	cmd.Flags().StringVar(&opts.buildType, "build-type", cfg.BuildType, "CMAKE_BUILD_TYPE: auto, Release, or Debug")
	cmd.Flags().BoolVar(&opts.noDeps, "no-deps", false, "build only the named packages, without their dependencies")
	cmd.Flags().BoolVar(&opts.saveDefaults, "save-defaults", false, "write the build settings to the workspace colcon defaults file")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, opts buildOpts) error {
	root, err := c.workspaceRoot(cmd)
	if err != nil {
		return err
	}

	_, g, err := c.scanGraph(root)
	if err != nil {
		return err
	}

	cfg, cfgPath := c.loadConfig()
	seeds := opts.selects
	if len(seeds) == 0 {
		for _, id := range cfg.LastSelected {
			if g.Has(id) {
				seeds = append(seeds, id)
			}
		}
	}
	if len(seeds) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to build: pass --select or select packages in the TUI first")
	}

	packages := seeds
	if !opts.noDeps {
		ctrl := selection.New(g)
		for _, seed := range seeds {
			if !g.Has(seed) {
				return errors.New(errors.ErrCodePackageNotFound, "unknown package: %s", seed)
			}
			ctrl.Select(seed)
		}
		packages = ctrl.Selected()
		if extra := len(packages) - len(seeds); extra > 0 {
			printInfo("including %d dependen%s of the selection", extra, pluralCy(extra))
		}
	}

	buildOptions := colcon.BuildOptions{
		SymlinkInstall:  opts.symlink,
		ParallelWorkers: opts.workers,
		BuildType:       opts.buildType,
		Packages:        packages,
	}

	if opts.saveDefaults {
		if err := colcon.SaveDefaults(colcon.DefaultsPath(root), colcon.DefaultsFromOptions(buildOptions)); err != nil {
			return err
		}
		printFile(colcon.DefaultsPath(root))
	}

	c.Logger.Info("starting build", "packages", len(packages), "workers", buildOptions.Workers())
	prog := newProgress(c.Logger)

	runner := colcon.NewRunner(root)
	result, buildErr := runner.Build(cmd.Context(), buildOptions, func(line string, stderr bool) {
		if stderr {
			fmt.Println(styleStderrLine.Render(line))
		} else {
			fmt.Println(line)
		}
	})

	if result != nil {
		c.recordBuild(cmd, root, buildOptions, result)
	}

	if buildErr != nil {
		if result != nil && result.Canceled {
			printWarning("build canceled after %s", result.Duration.Round(time.Millisecond))
		} else {
			printError("build failed")
		}
		return buildErr
	}

	prog.done(fmt.Sprintf("Built %d packages", len(packages)))
	printSuccess("build completed")

	// Persist the selection the way the GUI does on a successful build.
	cfg.WorkspacePath = root
	cfg.LastSelected = seeds
	cfg.SymlinkInstall = opts.symlink
	cfg.ParallelWorkers = buildOptions.Workers()
	cfg.BuildType = opts.buildType
	c.saveConfig(cfg, cfgPath)

	return nil
}

// recordBuild appends the result to the local build history.
func (c *CLI) recordBuild(cmd *cobra.Command, root string, opts colcon.BuildOptions, result *colcon.Result) {
	path, err := historyPath()
	if err != nil {
		return
	}
	store, err := history.NewFileStore(path)
	if err != nil {
		c.Logger.Warn("could not open build history", "err", err)
		return
	}
	defer store.Close(cmd.Context())

	rec := history.FromResult(root, opts, result, time.Now())
	if err := store.Append(cmd.Context(), rec); err != nil {
		c.Logger.Warn("could not record build", "err", err)
	}
}

func pluralCy(n int) string {
	if n == 1 {
		return "cy"
	}
	return "cies"
}
