package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colcontools/wsman/pkg/errors"
	"github.com/colcontools/wsman/pkg/layout"
	"github.com/colcontools/wsman/pkg/render"
)

// Output formats for the graph command.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
	formatJSON = "json"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	selects []string // seed packages; empty means the whole workspace
	focus   string   // package to highlight
	format  string   // dot, svg, png, or json
	output  string   // output file path (stdout if empty)
	theme   string   // palette override
}

// graphCommand creates the dependency graph rendering command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the dependency graph",
		Long: `Render the workspace dependency graph.

With --select, the graph is restricted to the selected packages and
everything they transitively depend on. With --focus, the focused
package and its direct neighbors are highlighted.

Examples:
  wsman graph                              # whole workspace as DOT
  wsman graph -f svg -o graph.svg          # rendered SVG
  wsman graph --select nav_core -f json    # closure of nav_core as JSON
  wsman graph --focus tf2 -f png -o g.png  # highlight tf2's neighbors`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.selects, "select", "s", nil, "seed packages (closure is included)")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "package to highlight")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDOT, "output format: dot, svg, png, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "palette: dark or light (defaults to the configured theme)")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, opts graphOpts) error {
	root, err := c.workspaceRoot(cmd)
	if err != nil {
		return err
	}

	_, g, err := c.scanGraph(root)
	if err != nil {
		return err
	}

	nodes := make(map[string]bool, g.Len())
	selected := make(map[string]bool, len(opts.selects))
	if len(opts.selects) > 0 {
		for _, seed := range opts.selects {
			if !g.Has(seed) {
				return errors.New(errors.ErrCodePackageNotFound, "unknown package: %s", seed)
			}
			selected[seed] = true
		}
		nodes = g.Closure(opts.selects)
	} else {
		for _, id := range g.Packages() {
			nodes[id] = true
		}
	}

	if opts.focus != "" && !g.Has(opts.focus) {
		return errors.New(errors.ErrCodePackageNotFound, "unknown package: %s", opts.focus)
	}

	theme := opts.theme
	if theme == "" {
		cfg, _ := c.loadConfig()
		theme = cfg.Theme
	}

	lay := layout.Compute(g, nodes, layout.Options{})
	scene := render.Compose(lay, selected, opts.focus, theme)

	prog := newProgress(c.Logger)
	data, err := encodeScene(cmd, scene, opts.format)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes and %d edges as %s", len(scene.Nodes), len(scene.Edges), opts.format))

	return writeOutput(data, opts.output)
}

func encodeScene(cmd *cobra.Command, scene *render.Scene, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case formatDOT:
		return []byte(render.ToDOT(scene)), nil
	case formatSVG:
		return render.RenderSVG(cmd.Context(), render.ToDOT(scene))
	case formatPNG:
		return render.RenderPNG(cmd.Context(), render.ToDOT(scene))
	case formatJSON:
		var buf strings.Builder
		if err := render.WriteJSON(scene, &buf); err != nil {
			return nil, err
		}
		return []byte(buf.String()), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown format %q (want dot, svg, png, or json)", format)
	}
}

func writeOutput(data []byte, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if path != "" {
		printFile(path)
	}
	return nil
}
