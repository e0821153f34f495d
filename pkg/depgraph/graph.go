// Package depgraph models the dependency relationships between packages in
// a colcon workspace.
//
// The graph holds forward adjacency (package → its dependencies) and the
// transposed reverse adjacency (package → its dependents). It is rebuilt in
// full on every workspace scan and never patched incrementally; derived
// results (closures, induced edges, layers) are computed on demand.
//
// Graphs may contain cycles: circular dependencies are not an error at this
// level, and every traversal here terminates on cyclic input. All accessors
// returning slices are deterministic (lexicographically sorted) so results
// can be snapshot-tested.
package depgraph

import (
	"slices"
	"sort"
)

// Edge is a directed dependency: From depends on To.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Graph holds forward and reverse adjacency for all packages known in the
// current workspace. The two maps always cover exactly the same key set;
// reverse[b] contains a if and only if forward[a] contains b.
//
// Graph is immutable after Build and safe for concurrent reads.
type Graph struct {
	forward map[string]map[string]bool
	reverse map[string]map[string]bool
}

// Build constructs a graph from raw per-package dependency sets.
//
// Dependency identifiers that do not name a key of packages are dropped:
// a workspace is not closed-world, and references to system or underlay
// packages simply do not become edges. Self-dependencies are dropped as
// well, since a self-edge would only pollute layering and highlight results.
func Build(packages map[string][]string) *Graph {
	g := &Graph{
		forward: make(map[string]map[string]bool, len(packages)),
		reverse: make(map[string]map[string]bool, len(packages)),
	}

	for id := range packages {
		g.forward[id] = make(map[string]bool)
		g.reverse[id] = make(map[string]bool)
	}

	for id, deps := range packages {
		for _, dep := range deps {
			if dep == id {
				continue
			}
			if _, known := g.forward[dep]; !known {
				continue
			}
			g.forward[id][dep] = true
			g.reverse[dep][id] = true
		}
	}

	return g
}

// Has reports whether the package is known to the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.forward[id]
	return ok
}

// Len returns the number of packages in the graph.
func (g *Graph) Len() int { return len(g.forward) }

// Packages returns all package identifiers in sorted order.
func (g *Graph) Packages() []string {
	ids := make([]string, 0, len(g.forward))
	for id := range g.forward {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dependencies returns the direct dependencies of id in sorted order.
// Unknown packages yield an empty result, never an error.
func (g *Graph) Dependencies(id string) []string {
	return sortedKeys(g.forward[id])
}

// Dependents returns the packages that directly depend on id, sorted.
func (g *Graph) Dependents(id string) []string {
	return sortedKeys(g.reverse[id])
}

// Closure returns the set of packages reachable from seeds by following
// dependency edges zero or more times, seeds included. Unknown seeds are
// ignored. Each package is visited at most once, so cyclic graphs
// terminate in O(V+E).
func (g *Graph) Closure(seeds []string) map[string]bool {
	visited := make(map[string]bool)
	stack := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if g.Has(s) {
			stack = append(stack, s)
		}
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		for dep := range g.forward[id] {
			if !visited[dep] {
				stack = append(stack, dep)
			}
		}
	}

	return visited
}

// InducedEdges returns the dependency edges whose endpoints are both in
// nodes, sorted by (From, To) for deterministic output.
func (g *Graph) InducedEdges(nodes map[string]bool) []Edge {
	var edges []Edge
	for src := range nodes {
		for dst := range g.forward[src] {
			if nodes[dst] {
				edges = append(edges, Edge{From: src, To: dst})
			}
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.From != b.From {
			if a.From < b.From {
				return -1
			}
			return 1
		}
		if a.To < b.To {
			return -1
		}
		if a.To > b.To {
			return 1
		}
		return 0
	})
	return edges
}

// TopologicalLayers partitions nodes into layers via Kahn's algorithm on
// the induced subgraph. Layer 0 holds the zero-in-degree frontier (packages
// nothing in the subgraph depends on); each following layer holds the nodes
// freed by peeling the previous one. Nodes trapped in a cycle never reach
// zero in-degree and are appended as one final layer.
//
// Ties within a layer are broken lexicographically, so the result is
// deterministic given the same node set.
func (g *Graph) TopologicalLayers(nodes map[string]bool) [][]string {
	if len(nodes) == 0 {
		return nil
	}

	inDegree := make(map[string]int, len(nodes))
	for id := range nodes {
		if !g.Has(id) {
			continue
		}
		inDegree[id] = 0
	}
	for src := range inDegree {
		for dst := range g.forward[src] {
			if _, ok := inDegree[dst]; ok {
				inDegree[dst]++
			}
		}
	}

	var layers [][]string
	var frontier []string
	for id, deg := range inDegree {
		if deg == 0 {
			frontier = append(frontier, id)
		}
	}
	sort.Strings(frontier)

	peeled := make(map[string]bool, len(inDegree))
	for len(frontier) > 0 {
		layers = append(layers, frontier)
		var next []string
		for _, id := range frontier {
			peeled[id] = true
			for dst := range g.forward[id] {
				if _, ok := inDegree[dst]; !ok || peeled[dst] {
					continue
				}
				inDegree[dst]--
				if inDegree[dst] == 0 {
					next = append(next, dst)
				}
			}
		}
		sort.Strings(next)
		frontier = next
	}

	// Cycle members never reach in-degree zero; they all land in one
	// trailing layer.
	var remainder []string
	for id := range inDegree {
		if !peeled[id] {
			remainder = append(remainder, id)
		}
	}
	if len(remainder) > 0 {
		sort.Strings(remainder)
		layers = append(layers, remainder)
	}

	return layers
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
