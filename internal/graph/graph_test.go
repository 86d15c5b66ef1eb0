package graph

import (
	"reflect"
	"testing"

	"github.com/paulmach/orb"

	"github.com/robalobadob/rayonlar/internal/geo"
)

func cell(id string, x, y float64) geo.Region {
	return geo.Region{ID: id, Polygons: orb.MultiPolygon{{{
		{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y},
	}}}}
}

// 2x2 grid plus a far-away island:
//
//	c d
//	a b     z
func grid() []geo.Region {
	return []geo.Region{
		cell("a", 0, 0), cell("b", 1, 0),
		cell("c", 0, 1), cell("d", 1, 1),
		cell("z", 9, 9),
	}
}

func TestBuildSharedEdges(t *testing.T) {
	g := Build(grid())
	tests := []struct {
		id   string
		want []string
	}{
		{"a", []string{"b", "c"}}, // a and d only touch at a corner
		{"b", []string{"a", "d"}},
		{"d", []string{"b", "c"}},
		{"z", []string{}},
	}
	for _, tt := range tests {
		got, ok := g.Neighbors(tt.id)
		if !ok {
			t.Fatalf("%s missing", tt.id)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("neighbors(%s): expected %v, got %v", tt.id, tt.want, got)
		}
	}
	if g.EdgeCount() != 4 {
		t.Errorf("expected 4 edges, got %d", g.EdgeCount())
	}
}

func TestShortestPath(t *testing.T) {
	g := FromEdges(nil, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "e"}, {"e", "d"}, {"x", "y"}})
	if got := g.ShortestPath("a", "d"); !reflect.DeepEqual(got, []string{"a", "e", "d"}) {
		t.Errorf("expected [a e d], got %v", got)
	}
	if got := g.ShortestPath("a", "a"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected [a], got %v", got)
	}
	if got := g.ShortestPath("a", "x"); got != nil {
		t.Errorf("expected nil for disconnected, got %v", got)
	}
	if got := g.ShortestPath("a", "nope"); got != nil {
		t.Errorf("expected nil for unknown, got %v", got)
	}
}

func TestShortestPathDeterministic(t *testing.T) {
	g := Build(grid())
	first := g.ShortestPath("a", "d")
	for i := 0; i < 20; i++ {
		if got := g.ShortestPath("a", "d"); !reflect.DeepEqual(got, first) {
			t.Fatalf("path changed between runs: %v vs %v", first, got)
		}
	}
	if !reflect.DeepEqual(first, []string{"a", "b", "d"}) {
		t.Errorf("expected [a b d], got %v", first)
	}
}

func TestComponents(t *testing.T) {
	g := Build(grid())
	comps := g.Components()
	if len(comps) != 2 {
		t.Fatalf("expected 2 components, got %v", comps)
	}
	if !reflect.DeepEqual(comps[0], []string{"a", "b", "c", "d"}) {
		t.Errorf("unexpected mainland %v", comps[0])
	}
	if !reflect.DeepEqual(g.Largest(), comps[0]) {
		t.Errorf("largest should be the first component")
	}
	if !reflect.DeepEqual(g.Component("z"), []string{"z"}) {
		t.Errorf("expected island alone, got %v", g.Component("z"))
	}
	if g.Component("nope") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestBuildSplitSharedBorder(t *testing.T) {
	a := geo.Region{ID: "a", Polygons: orb.MultiPolygon{{{
		{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0},
	}}}}
	// b's left side is cut at (2,1); a's right side is one segment.
	b := geo.Region{ID: "b", Polygons: orb.MultiPolygon{{{
		{2, 0}, {4, 0}, {4, 2}, {2, 2}, {2, 1}, {2, 0},
	}}}}
	// c shares only part of a's top, offset from a's vertices.
	c := geo.Region{ID: "c", Polygons: orb.MultiPolygon{{{
		{0.5, 2}, {1.5, 2}, {1.5, 3}, {0.5, 3}, {0.5, 2},
	}}}}
	// d lies on the line through a's top but past its end.
	d := geo.Region{ID: "d", Polygons: orb.MultiPolygon{{{
		{-3, 2}, {-1, 2}, {-1, 3}, {-3, 3}, {-3, 2},
	}}}}
	g := Build([]geo.Region{a, b, c, d})
	tests := []struct {
		id   string
		want []string
	}{
		{"a", []string{"b", "c"}},
		{"b", []string{"a"}},
		{"c", []string{"a"}},
		{"d", []string{}},
	}
	for _, tt := range tests {
		got, _ := g.Neighbors(tt.id)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("neighbors(%s): expected %v, got %v", tt.id, tt.want, got)
		}
	}
}
