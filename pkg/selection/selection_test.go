package selection

import (
	"reflect"
	"testing"

	"github.com/colcontools/wsman/pkg/depgraph"
)

func chainGraph() *depgraph.Graph {
	// a → b → c
	return depgraph.Build(map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {},
	})
}

func TestSelect_PropagatesToDependencies(t *testing.T) {
	c := New(chainGraph())

	c.Select("a")

	want := []string{"a", "b", "c"}
	if got := c.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
}

func TestDeselect_PropagatesToDependents(t *testing.T) {
	c := New(chainGraph())
	c.Select("a")

	c.Deselect("b")

	// b and its dependent a drop out; c stays selected.
	want := []string{"c"}
	if got := c.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
}

func TestSelect_Cycle(t *testing.T) {
	g := depgraph.Build(map[string][]string{
		"x": {"y"},
		"y": {"x"},
	})
	c := New(g)

	c.Select("x")
	if got := c.Selected(); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Selected() = %v, want [x y]", got)
	}

	c.Deselect("y")
	if got := c.Selected(); got != nil {
		t.Errorf("Selected() = %v, want empty", got)
	}
}

func TestSelect_InvariantOnDiamond(t *testing.T) {
	g := depgraph.Build(map[string][]string{
		"app":  {"lib1", "lib2"},
		"lib1": {"base"},
		"lib2": {"base"},
		"base": {},
	})
	c := New(g)

	c.Select("app")

	// Post-propagation invariant: everything reachable from a selected
	// package is selected.
	for _, id := range c.Selected() {
		for dep := range g.Closure([]string{id}) {
			if !c.IsSelected(dep) {
				t.Errorf("%s selected but reachable %s is not", id, dep)
			}
		}
	}
}

func TestOnChange_BatchedOncePerToggle(t *testing.T) {
	c := New(chainGraph())

	var calls int
	var lastBatch []Change
	c.SetOnChange(func(changes []Change) {
		calls++
		lastBatch = changes
	})

	c.Select("a")

	if calls != 1 {
		t.Fatalf("onChange called %d times, want 1", calls)
	}
	want := []Change{
		{ID: "a", Selected: true},
		{ID: "b", Selected: true},
		{ID: "c", Selected: true},
	}
	if !reflect.DeepEqual(lastBatch, want) {
		t.Errorf("changes = %v, want %v", lastBatch, want)
	}

	// Selecting again is a no-op: no state flips, no notification.
	c.Select("a")
	if calls != 1 {
		t.Errorf("onChange called %d times after redundant select, want 1", calls)
	}
}

func TestOnChange_ReentrantToggleSuppressed(t *testing.T) {
	c := New(chainGraph())

	c.SetOnChange(func(changes []Change) {
		// A misbehaving observer trying to start a new propagation chain
		// from inside the notification must be ignored.
		c.Deselect("c")
	})

	c.Select("a")

	want := []string{"a", "b", "c"}
	if got := c.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v (re-entrant deselect must not run)", got, want)
	}
}

func TestRestore_DropsUnknownAndSkipsPropagation(t *testing.T) {
	c := New(chainGraph())

	c.Restore([]string{"a", "ghost"})

	// Restore is verbatim: no propagation to b and c, unknown ids dropped.
	if got := c.Selected(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Selected() = %v, want [a]", got)
	}
}

func TestRebind_CarriesSurvivors(t *testing.T) {
	c := New(chainGraph())
	c.Select("a")

	// Rescan: b disappeared from the workspace.
	c.Rebind(depgraph.Build(map[string][]string{
		"a": {},
		"c": {},
	}))

	if got := c.Selected(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Selected() = %v, want [a c]", got)
	}
}

func TestSelectAllDeselectAll(t *testing.T) {
	c := New(chainGraph())

	c.SelectAll()
	if got := c.Selected(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Selected() = %v, want all", got)
	}

	c.DeselectAll()
	if got := c.Selected(); got != nil {
		t.Errorf("Selected() = %v, want empty", got)
	}
}

func TestToggle(t *testing.T) {
	c := New(chainGraph())

	c.Toggle("b")
	if got := c.Selected(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("after toggle on: Selected() = %v, want [b c]", got)
	}

	c.Toggle("b")
	if got := c.Selected(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("after toggle off: Selected() = %v, want [c]", got)
	}
}

func TestSelect_UnknownIgnored(t *testing.T) {
	c := New(chainGraph())
	c.Select("ghost")
	if got := c.Selected(); got != nil {
		t.Errorf("Selected() = %v, want empty", got)
	}
}
