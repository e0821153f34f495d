// Package selection tracks which workspace packages are marked for building
// and keeps that state consistent with the dependency graph.
//
// Two invariants are enforced after every user toggle:
//
//   - Selecting a package selects everything it depends on, transitively.
//   - Deselecting a package deselects everything that depends on it,
//     transitively.
//
// The reverse implications deliberately do not hold: deselecting a package
// leaves its dependencies selected, and selecting one leaves its dependents
// alone.
package selection

import (
	"sort"

	"github.com/colcontools/wsman/pkg/depgraph"
)

// Change describes a single package whose selection state flipped during a
// propagation pass.
type Change struct {
	ID       string
	Selected bool
}

// Controller maps package identifiers to selection state and propagates
// toggles through the dependency graph.
//
// Propagation is cycle-safe: each package is processed at most once per
// top-level Select or Deselect call. Observer notifications are batched and
// delivered after the pass completes, under a re-entrancy guard, so a
// notification handler can never start a second propagation chain for the
// same toggle event.
//
// Controller is not safe for concurrent use; it is driven from a single
// event loop, matching how the TUI and CLI consume it.
type Controller struct {
	graph       *depgraph.Graph
	state       map[string]bool
	propagating bool
	onChange    func([]Change)
}

// New creates a controller over the given graph with nothing selected.
func New(g *depgraph.Graph) *Controller {
	return &Controller{
		graph: g,
		state: make(map[string]bool, g.Len()),
	}
}

// SetOnChange registers a batch observer invoked once per top-level toggle
// with every state flip the propagation caused, in sorted identifier order.
func (c *Controller) SetOnChange(fn func([]Change)) {
	c.onChange = fn
}

// IsSelected reports the selection state of id.
func (c *Controller) IsSelected(id string) bool { return c.state[id] }

// Selected returns the selected package identifiers in sorted order.
func (c *Controller) Selected() []string {
	var ids []string
	for id, on := range c.state {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Select marks id selected and transitively selects every dependency.
// Calls made while a propagation pass is in flight are ignored.
func (c *Controller) Select(id string) {
	if c.propagating || !c.graph.Has(id) {
		return
	}
	c.propagate(id, true)
}

// Deselect unmarks id and transitively deselects every dependent.
// Calls made while a propagation pass is in flight are ignored.
func (c *Controller) Deselect(id string) {
	if c.propagating || !c.graph.Has(id) {
		return
	}
	c.propagate(id, false)
}

// Toggle flips the state of id, propagating in the appropriate direction.
func (c *Controller) Toggle(id string) {
	if c.state[id] {
		c.Deselect(id)
	} else {
		c.Select(id)
	}
}

// propagate walks forward edges when selecting and reverse edges when
// deselecting, visiting each package at most once, then notifies the
// observer with the batched changes. The guard stays up through the
// notification so handlers cannot re-enter.
func (c *Controller) propagate(id string, selected bool) {
	c.propagating = true
	defer func() { c.propagating = false }()

	visited := make(map[string]bool)
	var changes []Change

	stack := []string{id}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[curr] {
			continue
		}
		visited[curr] = true

		if c.state[curr] != selected {
			c.state[curr] = selected
			changes = append(changes, Change{ID: curr, Selected: selected})
		}

		var next []string
		if selected {
			next = c.graph.Dependencies(curr)
		} else {
			next = c.graph.Dependents(curr)
		}
		for _, n := range next {
			if !visited[n] {
				stack = append(stack, n)
			}
		}
	}

	if c.onChange != nil && len(changes) > 0 {
		sort.Slice(changes, func(i, j int) bool { return changes[i].ID < changes[j].ID })
		c.onChange(changes)
	}
}

// SelectAll selects every package without propagation; the result already
// satisfies the selection invariant.
func (c *Controller) SelectAll() {
	for _, id := range c.graph.Packages() {
		c.state[id] = true
	}
}

// DeselectAll clears the selection.
func (c *Controller) DeselectAll() {
	clear(c.state)
}

// Restore seeds the selection from a persisted identifier list without
// propagating. Identifiers unknown to the graph are dropped, which is how
// selection survives a rescan only for packages that still exist.
func (c *Controller) Restore(ids []string) {
	clear(c.state)
	for _, id := range ids {
		if c.graph.Has(id) {
			c.state[id] = true
		}
	}
}

// Rebind swaps in a freshly built graph, carrying selection state over for
// identifiers the new graph still knows.
func (c *Controller) Rebind(g *depgraph.Graph) {
	prev := c.Selected()
	c.graph = g
	c.Restore(prev)
}
