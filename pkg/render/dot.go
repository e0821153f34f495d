package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/colcontools/wsman/pkg/errors"
)

// ToDOT converts a scene to Graphviz DOT. Node and edge colors follow
// the scene's theme palette; nodes are emitted in sorted order so the
// output is deterministic.
func ToDOT(scene *Scene) string {
	pal := PaletteFor(scene.Theme)

	var buf bytes.Buffer
	buf.WriteString("digraph workspace {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", pal.Background)
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range scene.Nodes {
		c := pal.NodeColorsFor(n.State)
		fmt.Fprintf(&buf, "  %q [fillcolor=%q, color=%q, fontcolor=%q];\n",
			n.ID, c.Fill, c.Border, c.Text)
	}

	buf.WriteString("\n")
	for _, e := range scene.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", e.From, e.To, pal.EdgeColorFor(e.State))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render graph")
	}
	return buf.Bytes(), nil
}
