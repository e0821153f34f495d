package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colcontools/wsman/pkg/colcon"
)

// cleanCommand creates the workspace cleaning command.
func (c *CLI) cleanCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Empty the build and install directories",
		Long: `Empty the workspace build and install directories.

COLCON_IGNORE markers, compile_commands.json, and .built_by files are
preserved, as are .cache and .idea directories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.workspaceRoot(cmd)
			if err != nil {
				return err
			}

			if !yes && !confirm("This will clean both build and install directories. Continue? [y/N] ") {
				printInfo("clean aborted")
				return nil
			}

			stats, err := colcon.Clean(root)
			if err != nil {
				return err
			}

			printSuccess("clean completed")
			printDetail("removed %d files and %d directories, preserved %d entries",
				stats.RemovedFiles, stats.RemovedDirs, stats.Preserved)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func confirm(prompt string) bool {
	os.Stderr.WriteString(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
