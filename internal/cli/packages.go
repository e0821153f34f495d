package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/colcontools/wsman/pkg/workspace"
)

// packagesCommand creates the packages listing command.
func (c *CLI) packagesCommand() *cobra.Command {
	var noCache bool
	var details string

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Scan the workspace and list packages with sizes and dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.workspaceRoot(cmd)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			ws, g, err := c.scanGraph(root)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Scanned %d packages", len(ws.Packages)))

			if details != "" {
				return c.printPackageDetails(ws, details)
			}

			sizeCache, err := newCache(noCache)
			if err != nil {
				return err
			}
			defer sizeCache.Close()
			sizer := workspace.NewSizer(sizeCache, 0)
			sizes := sizer.Sizes(cmd.Context(), ws)

			rows := make([][]string, 0, len(ws.Packages))
			for _, name := range ws.Names() {
				rows = append(rows, []string{
					name,
					workspace.FormatSize(sizes[name]),
					fmt.Sprintf("%d", len(g.Dependencies(name))),
					fmt.Sprintf("%d", len(g.Dependents(name))),
				})
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(StyleDim).
				Headers("Package", "Size", "Deps", "Dependents").
				Rows(rows...)
			fmt.Println(t)

			if len(ws.Skipped) > 0 {
				printWarning("%d manifest(s) could not be parsed", len(ws.Skipped))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "recompute sizes without the cache")
	cmd.Flags().StringVar(&details, "details", "", "show a detailed disk-usage breakdown for one package")

	return cmd
}

func (c *CLI) printPackageDetails(ws *workspace.Workspace, name string) error {
	pkg, err := ws.Lookup(name)
	if err != nil {
		return err
	}
	d := workspace.Details(pkg.Path)

	fmt.Println(StyleTitle.Render(pkg.Name))
	printDetail("path: %s", pkg.Path)
	printDetail("total size: %s", workspace.FormatSize(d.TotalSize))
	printDetail("files: %d regular (%s), %d symlinks (%s), %d skipped",
		d.RegularFiles, workspace.FormatSize(d.RegularSize),
		d.Symlinks, workspace.FormatSize(d.SymlinkSize), d.SkippedFiles)
	printDetail("directories: %d scanned, %d skipped", d.DirCount, d.SkippedDirs)

	if len(d.LargeFiles) > 0 {
		fmt.Println(StyleDim.Render("  large files (>100KB):"))
		for _, f := range d.LargeFiles {
			printDetail("  %s %s", f.Name, workspace.FormatSize(f.Size))
		}
	}
	return nil
}
