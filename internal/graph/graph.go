// internal/graph/graph.go
//
// District adjacency and shortest paths.
//
// Two districts are neighbours when their outlines share a stretch of border
// with positive length. Touching at a single corner is not enough. Neighbour lists are kept
// sorted so that every traversal is deterministic for a given map.

package graph

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/rayonlar/internal/geo"
)

// Graph is an undirected adjacency graph keyed by district id.
type Graph struct {
	adj map[string][]string
}

// segment is one straight piece of a region outline.
type segment struct {
	p, q orb.Point
	b    orb.Bound
}

// sideEps is the tolerance for collinearity and overlap length, in map units.
const sideEps = 1e-9

type outline struct {
	id    string
	bound orb.Bound
	segs  []segment
}

func outlineOf(r geo.Region) outline {
	o := outline{id: r.ID, bound: r.Polygons.Bound().Pad(sideEps)}
	for _, poly := range r.Polygons {
		for _, ring := range poly {
			n := len(ring)
			for i := 0; i < n && n > 1; i++ {
				p, q := ring[i], ring[(i+1)%n]
				if p == q {
					continue
				}
				b := orb.MultiPoint{p, q}.Bound().Pad(sideEps)
				o.segs = append(o.segs, segment{p: p, q: q, b: b})
			}
		}
	}
	return o
}

// overlaps reports whether s and t lie on one line and share a stretch of
// positive length. Crossing or touching at a point does not count.
func overlaps(s, t segment) bool {
	if !s.b.Intersects(t.b) {
		return false
	}
	dx, dy := s.q[0]-s.p[0], s.q[1]-s.p[1]
	l := math.Hypot(dx, dy)
	cross := func(pt orb.Point) float64 {
		return (dx*(pt[1]-s.p[1]) - dy*(pt[0]-s.p[0])) / l
	}
	if math.Abs(cross(t.p)) > sideEps || math.Abs(cross(t.q)) > sideEps {
		return false
	}
	along := func(pt orb.Point) float64 {
		return (dx*(pt[0]-s.p[0]) + dy*(pt[1]-s.p[1])) / l
	}
	a, b := along(t.p), along(t.q)
	lo := math.Max(0, math.Min(a, b))
	hi := math.Min(l, math.Max(a, b))
	return hi-lo > sideEps
}

func shareSide(a, b outline) bool {
	if !a.bound.Intersects(b.bound) {
		return false
	}
	for _, s := range a.segs {
		if !s.b.Intersects(b.bound) {
			continue
		}
		for _, t := range b.segs {
			if overlaps(s, t) {
				return true
			}
		}
	}
	return false
}

// Build derives adjacency from shared boundary stretches. Borders that run
// along the same line count even when the two outlines split them at
// different vertices.
func Build(regions []geo.Region) *Graph {
	ids := make([]string, 0, len(regions))
	outlines := make([]outline, 0, len(regions))
	for _, r := range regions {
		ids = append(ids, r.ID)
		outlines = append(outlines, outlineOf(r))
	}

	var pairs [][2]string
	for i := range outlines {
		for j := i + 1; j < len(outlines); j++ {
			if shareSide(outlines[i], outlines[j]) {
				pairs = append(pairs, [2]string{outlines[i].id, outlines[j].id})
			}
		}
	}
	return FromEdges(ids, pairs)
}

// FromEdges builds a graph over ids with the given undirected edges.
// Edges naming unknown ids add those ids.
func FromEdges(ids []string, edges [][2]string) *Graph {
	sets := make(map[string]mapset.Set[string], len(ids))
	get := func(id string) mapset.Set[string] {
		s, ok := sets[id]
		if !ok {
			s = mapset.New[string]()
			sets[id] = s
		}
		return s
	}
	for _, id := range ids {
		get(id)
	}
	for _, e := range edges {
		if e[0] == e[1] {
			continue
		}
		get(e[0]).Put(e[1])
		get(e[1]).Put(e[0])
	}

	g := &Graph{adj: make(map[string][]string, len(sets))}
	for id, s := range sets {
		list := make([]string, 0, s.Size())
		s.Each(func(n string) { list = append(list, n) })
		sort.Strings(list)
		g.adj[id] = list
	}
	return g
}

// Has reports whether id is a node of g.
func (g *Graph) Has(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// Neighbors returns the sorted neighbours of id.
func (g *Graph) Neighbors(id string) ([]string, bool) {
	n, ok := g.adj[id]
	return n, ok
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, l := range g.adj {
		n += len(l)
	}
	return n / 2
}

// ShortestPath runs a breadth-first search from start to end and returns the
// path including both endpoints, or nil if end is unreachable.
func (g *Graph) ShortestPath(start, end string) []string {
	if !g.Has(start) || !g.Has(end) {
		return nil
	}
	if start == end {
		return []string{start}
	}
	prev := map[string]string{}
	visited := mapset.New[string]()
	visited.Put(start)
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.adj[cur] {
			if visited.Has(n) {
				continue
			}
			visited.Put(n)
			prev[n] = cur
			if n == end {
				return walkBack(prev, start, end)
			}
			queue = append(queue, n)
		}
	}
	return nil
}

func walkBack(prev map[string]string, start, end string) []string {
	path := []string{end}
	for cur := end; cur != start; {
		cur = prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Component returns the sorted ids reachable from start (start included).
func (g *Graph) Component(start string) []string {
	if !g.Has(start) {
		return nil
	}
	visited := mapset.New[string]()
	stack := []string{start}
	out := []string{}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Has(cur) {
			continue
		}
		visited.Put(cur)
		out = append(out, cur)
		for _, n := range g.adj[cur] {
			if !visited.Has(n) {
				stack = append(stack, n)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Components partitions g into connected components, largest first.
// Ties are ordered by their smallest id.
func (g *Graph) Components() [][]string {
	ids := make([]string, 0, len(g.adj))
	for id := range g.adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	done := mapset.New[string]()
	var comps [][]string
	for _, id := range ids {
		if done.Has(id) {
			continue
		}
		c := g.Component(id)
		for _, m := range c {
			done.Put(m)
		}
		comps = append(comps, c)
	}
	sort.SliceStable(comps, func(i, j int) bool {
		if len(comps[i]) != len(comps[j]) {
			return len(comps[i]) > len(comps[j])
		}
		return comps[i][0] < comps[j][0]
	})
	return comps
}

// Largest returns the biggest connected component, or nil for an empty graph.
func (g *Graph) Largest() []string {
	comps := g.Components()
	if len(comps) == 0 {
		return nil
	}
	return comps[0]
}
