package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/colcontools/wsman/pkg/depgraph"
	"github.com/colcontools/wsman/pkg/errors"
	"github.com/colcontools/wsman/pkg/layout"
	"github.com/colcontools/wsman/pkg/render"
	"github.com/colcontools/wsman/pkg/workspace"
)

// packageInfo is one row of the package listing.
type packageInfo struct {
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Deps      []string `json:"deps,omitempty"`
	Size      int64    `json:"size"`
	SizeHuman string   `json:"size_human"`
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	ws, err := workspace.Scan(s.opts.WorkspaceRoot)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sizes := s.sizer.Sizes(r.Context(), ws)
	infos := make([]packageInfo, 0, len(ws.Packages))
	for _, name := range ws.Names() {
		pkg := ws.Packages[name]
		infos = append(infos, packageInfo{
			Name:      pkg.Name,
			Path:      pkg.Path,
			Deps:      pkg.Deps,
			Size:      sizes[name],
			SizeHuman: workspace.FormatSize(sizes[name]),
		})
	}

	s.writeJSON(w, map[string]any{
		"workspace": ws.Root,
		"packages":  infos,
		"skipped":   ws.Skipped,
	})
}

// graphResponse is the raw dependency graph.
type graphResponse struct {
	Packages []string        `json:"packages"`
	Edges    []depgraph.Edge `json:"edges"`
	Layers   [][]string      `json:"layers"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, nodes, err := s.subgraph(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, graphResponse{
		Packages: sortedNodes(nodes),
		Edges:    g.InducedEdges(nodes),
		Layers:   g.TopologicalLayers(nodes),
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	scene, err := s.scene(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := render.WriteJSON(scene, w); err != nil {
		s.logger.Error("write scene", "err", err)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	scene, err := s.scene(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	svg, err := render.RenderSVG(r.Context(), render.ToDOT(scene))
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.opts.History == nil {
		http.NotFound(w, r)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.opts.History.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, records)
}

// scene scans the workspace and composes a scene from the request's
// select, focus, and theme query parameters.
func (s *Server) scene(r *http.Request) (*render.Scene, error) {
	g, nodes, err := s.subgraph(r)
	if err != nil {
		return nil, err
	}

	theme := r.URL.Query().Get("theme")
	if theme == "" {
		theme = s.opts.Theme
	}

	selected := splitParam(r.URL.Query().Get("select"))
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	lay := layout.Compute(g, nodes, layout.Options{})
	return render.Compose(lay, selectedSet, r.URL.Query().Get("focus"), theme), nil
}

// subgraph builds the dependency graph and resolves the node set: the
// closure of ?select= seeds, or every package when no seeds are given.
func (s *Server) subgraph(r *http.Request) (*depgraph.Graph, map[string]bool, error) {
	ws, err := workspace.Scan(s.opts.WorkspaceRoot)
	if err != nil {
		return nil, nil, err
	}
	g := depgraph.Build(ws.DepMap())

	seeds := splitParam(r.URL.Query().Get("select"))
	if len(seeds) == 0 {
		nodes := make(map[string]bool, g.Len())
		for _, id := range g.Packages() {
			nodes[id] = true
		}
		return g, nodes, nil
	}

	for _, seed := range seeds {
		if !g.Has(seed) {
			return nil, nil, errors.New(errors.ErrCodePackageNotFound, "unknown package: %s", seed)
		}
	}
	return g, g.Closure(seeds), nil
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodePackageNotFound, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidWorkspace, errors.ErrCodeInvalidPackage:
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": errors.UserMessage(err)})
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func sortedNodes(nodes map[string]bool) []string {
	out := make([]string, 0, len(nodes))
	for id := range nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
