// Package cli implements the wsman command-line interface.
//
// Commands cover the whole workspace lifecycle: scanning packages,
// rendering the dependency graph, selecting and building package sets,
// cleaning build artifacts, an interactive TUI, and an HTTP viewer.
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/colcontools/wsman/pkg/buildinfo"
	"github.com/colcontools/wsman/pkg/cache"
	"github.com/colcontools/wsman/pkg/config"
	"github.com/colcontools/wsman/pkg/depgraph"
	"github.com/colcontools/wsman/pkg/errors"
	"github.com/colcontools/wsman/pkg/workspace"
)

// appName is the application name used for directories and display.
const appName = "wsman"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "wsman manages colcon workspaces",
		Long:         `wsman scans a colcon workspace, visualizes the package dependency graph, and drives dependency-aware selection, building, and cleaning.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringP("workspace", "w", "", "workspace root (defaults to the configured workspace)")

	root.AddCommand(c.packagesCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.cleanCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// workspaceRoot resolves the workspace root from the --workspace flag,
// falling back to the configured workspace path.
func (c *CLI) workspaceRoot(cmd *cobra.Command) (string, error) {
	if root, _ := cmd.Flags().GetString("workspace"); root != "" {
		return root, nil
	}
	cfg, _ := c.loadConfig()
	if cfg.WorkspacePath != "" {
		return cfg.WorkspacePath, nil
	}
	return "", errors.New(errors.ErrCodeInvalidWorkspace, "no workspace configured: pass --workspace or set workspace_path in the config")
}

// loadConfig reads the user config, returning its path alongside it.
func (c *CLI) loadConfig() (*config.Config, string) {
	path, err := config.Path(appName)
	if err != nil {
		return config.Default(), ""
	}
	return config.Load(path), path
}

// saveConfig persists the config, logging instead of failing: losing a
// preference update never aborts a command that already did its work.
func (c *CLI) saveConfig(cfg *config.Config, path string) {
	if path == "" {
		return
	}
	if err := config.Save(path, cfg); err != nil {
		c.Logger.Warn("could not save config", "err", err)
	}
}

// scanGraph scans the workspace and builds its dependency graph.
func (c *CLI) scanGraph(root string) (*workspace.Workspace, *depgraph.Graph, error) {
	ws, err := workspace.Scan(root)
	if err != nil {
		return nil, nil, err
	}
	for _, skipped := range ws.Skipped {
		c.Logger.Warn("skipping unparsable manifest", "path", skipped)
	}
	return ws, depgraph.Build(ws.DepMap()), nil
}

// newCache returns the size-accounting cache backend.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/wsman/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// historyPath returns the JSONL build history location.
func historyPath() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "builds.jsonl"), nil
}
