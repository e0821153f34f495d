// Package highlight classifies nodes of a rendered dependency graph
// relative to a single focused package.
//
// Classification looks at direct edges only: packages pointing at the
// focused one are incoming (its dependents), packages it points at are
// outgoing (its dependencies). Everything else, including transitive
// neighbours, stays neutral. At most one package is focused at a time;
// focusing a second package requires defocusing the first.
package highlight

import "github.com/colcontools/wsman/pkg/depgraph"

// Tag is the highlight classification of a node.
type Tag string

const (
	// TagNone marks a node unrelated to the focused package.
	TagNone Tag = "none"
	// TagFocused marks the focused package itself.
	TagFocused Tag = "focused"
	// TagIncoming marks a direct dependent of the focused package.
	TagIncoming Tag = "incoming"
	// TagOutgoing marks a direct dependency of the focused package.
	TagOutgoing Tag = "outgoing"
)

// Classify tags every node in nodes relative to the focused package.
//
// An empty focus, or a focus not present in nodes, returns all-none: an
// absent focus is treated as no focus rather than an error. When the graph
// holds a 2-cycle between a node and the focus, the node is both a direct
// dependent and a direct dependency; incoming wins, matching the order the
// classification branches are checked in.
func Classify(focused string, nodes map[string]bool, edges []depgraph.Edge) map[string]Tag {
	tags := make(map[string]Tag, len(nodes))
	for id := range nodes {
		tags[id] = TagNone
	}

	if focused == "" || !nodes[focused] {
		return tags
	}

	incoming := make(map[string]bool)
	outgoing := make(map[string]bool)
	for _, e := range edges {
		if !nodes[e.From] || !nodes[e.To] {
			continue
		}
		if e.To == focused {
			incoming[e.From] = true
		}
		if e.From == focused {
			outgoing[e.To] = true
		}
	}

	for id := range nodes {
		switch {
		case id == focused:
			tags[id] = TagFocused
		case incoming[id]:
			tags[id] = TagIncoming
		case outgoing[id]:
			tags[id] = TagOutgoing
		}
	}

	return tags
}

// EdgeTag classifies a single edge relative to the focused package:
// incoming for edges into the focus, outgoing for edges out of it, none
// otherwise. Used to color edge segments consistently with their nodes.
func EdgeTag(focused string, e depgraph.Edge) Tag {
	switch {
	case focused == "":
		return TagNone
	case e.To == focused:
		return TagIncoming
	case e.From == focused:
		return TagOutgoing
	default:
		return TagNone
	}
}
