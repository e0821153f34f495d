package depgraph

import (
	"reflect"
	"testing"
)

func TestBuild_FiltersUnknownAndSelf(t *testing.T) {
	g := Build(map[string][]string{
		"a": {"b", "libfoo-dev", "a"}, // external dep and self-edge dropped
		"b": {},
	})

	if got := g.Dependencies("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Dependencies(a) = %v, want [b]", got)
	}
	if got := g.Dependents("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Dependents(b) = %v, want [a]", got)
	}
	if got := g.Dependents("a"); got != nil {
		t.Errorf("Dependents(a) = %v, want nil", got)
	}
}

func TestBuild_ReverseIsTranspose(t *testing.T) {
	g := Build(map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
		"c": {},
		"d": {"a"},
	})

	for _, src := range g.Packages() {
		for _, dst := range g.Dependencies(src) {
			found := false
			for _, back := range g.Dependents(dst) {
				if back == src {
					found = true
				}
			}
			if !found {
				t.Errorf("reverse[%s] missing %s", dst, src)
			}
		}
	}
}

func TestClosure(t *testing.T) {
	g := Build(map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {},
		"x": {},
	})

	tests := []struct {
		name  string
		seeds []string
		want  []string
	}{
		{name: "chain", seeds: []string{"a"}, want: []string{"a", "b", "c"}},
		{name: "mid chain", seeds: []string{"b"}, want: []string{"b", "c"}},
		{name: "leaf", seeds: []string{"c"}, want: []string{"c"}},
		{name: "multiple seeds", seeds: []string{"b", "x"}, want: []string{"b", "c", "x"}},
		{name: "unknown seed ignored", seeds: []string{"zzz"}, want: nil},
		{name: "empty seeds", seeds: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Closure(tt.seeds)
			if len(got) != len(tt.want) {
				t.Fatalf("Closure(%v) = %v, want %v", tt.seeds, got, tt.want)
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("Closure(%v) missing %s", tt.seeds, id)
				}
			}
		})
	}
}

func TestClosure_Cycle(t *testing.T) {
	g := Build(map[string][]string{
		"x": {"y"},
		"y": {"x"},
	})

	got := g.Closure([]string{"x"})
	if len(got) != 2 || !got["x"] || !got["y"] {
		t.Errorf("Closure({x}) = %v, want {x, y}", got)
	}
}

func TestClosure_Idempotent(t *testing.T) {
	g := Build(map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
		"c": {"a"}, // cycle back to a
		"d": {},
	})

	first := g.Closure([]string{"a"})
	var seeds []string
	for id := range first {
		seeds = append(seeds, id)
	}
	second := g.Closure(seeds)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("closure(closure(seeds)) = %v, want %v", second, first)
	}
}

func TestClosure_ContainsSingleSeedClosures(t *testing.T) {
	g := Build(map[string][]string{
		"a": {"b"},
		"b": {},
		"c": {"b"},
	})

	combined := g.Closure([]string{"a", "c"})
	for _, seed := range []string{"a", "c"} {
		for id := range g.Closure([]string{seed}) {
			if !combined[id] {
				t.Errorf("combined closure missing %s from closure(%s)", id, seed)
			}
		}
	}
}

func TestInducedEdges(t *testing.T) {
	g := Build(map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
		"c": {},
	})

	nodes := map[string]bool{"a": true, "b": true}
	got := g.InducedEdges(nodes)
	want := []Edge{{From: "a", To: "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InducedEdges = %v, want %v", got, want)
	}
}

func TestInducedEdges_Deterministic(t *testing.T) {
	g := Build(map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
		"c": {},
	})
	nodes := map[string]bool{"a": true, "b": true, "c": true}

	first := g.InducedEdges(nodes)
	for range 10 {
		if got := g.InducedEdges(nodes); !reflect.DeepEqual(got, first) {
			t.Fatalf("InducedEdges not deterministic: %v vs %v", got, first)
		}
	}
}

func TestTopologicalLayers_Acyclic(t *testing.T) {
	g := Build(map[string][]string{
		"app":  {"lib1", "lib2"},
		"lib1": {"base"},
		"lib2": {"base"},
		"base": {},
	})

	nodes := map[string]bool{"app": true, "lib1": true, "lib2": true, "base": true}
	got := g.TopologicalLayers(nodes)
	want := [][]string{{"app"}, {"lib1", "lib2"}, {"base"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopologicalLayers = %v, want %v", got, want)
	}

	// Every edge's source must sit in a strictly earlier layer than its
	// destination.
	layerOf := map[string]int{}
	for i, layer := range got {
		for _, id := range layer {
			layerOf[id] = i
		}
	}
	for _, e := range g.InducedEdges(nodes) {
		if layerOf[e.From] >= layerOf[e.To] {
			t.Errorf("edge %s→%s: layer %d >= %d", e.From, e.To, layerOf[e.From], layerOf[e.To])
		}
	}
}

func TestTopologicalLayers_CycleLandsInFinalLayer(t *testing.T) {
	g := Build(map[string][]string{
		"top": {"x"},
		"x":   {"y"},
		"y":   {"x"},
	})

	nodes := map[string]bool{"top": true, "x": true, "y": true}
	got := g.TopologicalLayers(nodes)
	want := [][]string{{"top"}, {"x", "y"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopologicalLayers = %v, want %v", got, want)
	}
}

func TestTopologicalLayers_PureCycle(t *testing.T) {
	g := Build(map[string][]string{
		"x": {"y"},
		"y": {"x"},
	})

	got := g.TopologicalLayers(map[string]bool{"x": true, "y": true})
	want := [][]string{{"x", "y"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopologicalLayers = %v, want %v", got, want)
	}
}

func TestTopologicalLayers_Empty(t *testing.T) {
	g := Build(nil)
	if got := g.TopologicalLayers(nil); got != nil {
		t.Errorf("TopologicalLayers(nil) = %v, want nil", got)
	}
}

func TestPackages_Sorted(t *testing.T) {
	g := Build(map[string][]string{"zeta": {}, "alpha": {}, "mid": {}})
	want := []string{"alpha", "mid", "zeta"}
	if got := g.Packages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Packages() = %v, want %v", got, want)
	}
}
