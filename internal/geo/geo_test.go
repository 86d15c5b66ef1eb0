package geo

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func square(id string, x, y, size float64) Region {
	return Region{
		ID:   id,
		Name: id,
		Polygons: orb.MultiPolygon{{{
			{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
		}}},
		Centroid: orb.Point{x + size/2, y + size/2},
	}
}

var vp = Viewport{Width: 440, Height: 240}

func TestComputeBoundingBox(t *testing.T) {
	regions := []Region{square("a", 0, 0, 1), square("b", 3, -2, 2)}
	b, err := ComputeBoundingBox(regions)
	if err != nil {
		t.Fatalf("bbox: %v", err)
	}
	want := BBox{MinX: 0, MaxX: 5, MinY: -2, MaxY: 1}
	if b != want {
		t.Errorf("expected %+v, got %+v", want, b)
	}
	for _, r := range regions {
		for _, ring := range r.Polygons[0] {
			for _, c := range ring {
				if !b.Contains(c) {
					t.Errorf("point %v outside %+v", c, b)
				}
			}
		}
	}
}

func TestComputeBoundingBoxIncludesHoles(t *testing.T) {
	r := square("a", 0, 0, 4)
	// A hole ring whose point pokes past the outer ring still counts.
	r.Polygons[0] = append(r.Polygons[0], orb.Ring{{1, 1}, {2, 1}, {9, 2}, {1, 1}})
	b, err := ComputeBoundingBox([]Region{r})
	if err != nil {
		t.Fatalf("bbox: %v", err)
	}
	if b.MaxX != 9 {
		t.Errorf("expected maxX=9, got %v", b.MaxX)
	}
}

func TestComputeBoundingBoxEmpty(t *testing.T) {
	if _, err := ComputeBoundingBox(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	empty := Region{ID: "e", Polygons: orb.MultiPolygon{{{}}}}
	if _, err := ComputeBoundingBox([]Region{empty}); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty for empty rings, got %v", err)
	}
}

func TestProjectCoordinateCorners(t *testing.T) {
	b := BBox{MinX: 10, MaxX: 20, MinY: 40, MaxY: 50}
	tests := []struct {
		in   orb.Point
		want orb.Point
	}{
		{orb.Point{10, 50}, orb.Point{Padding, Padding}},                          // north-west → top-left
		{orb.Point{20, 40}, orb.Point{vp.Width - Padding, vp.Height - Padding}},   // south-east → bottom-right
		{orb.Point{15, 45}, orb.Point{vp.Width / 2, vp.Height / 2}},               // centre
	}
	for _, tt := range tests {
		got := ProjectCoordinate(tt.in, b, vp)
		if got != tt.want {
			t.Errorf("project %v: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestProjectCoordinateRounds(t *testing.T) {
	b := BBox{MinX: 0, MaxX: 3, MinY: 0, MaxY: 3}
	got := ProjectCoordinate(orb.Point{1, 1}, b, vp)
	// 20 + 1/3*400 = 153.333…; 20 + 2/3*200 = 153.333…
	want := orb.Point{153.33, 153.33}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestVerticalInversion(t *testing.T) {
	north := square("north", 0, 10, 1)
	south := square("south", 0, 0, 1)
	b, err := ComputeBoundingBox([]Region{north, south})
	if err != nil {
		t.Fatalf("bbox: %v", err)
	}
	n := ProjectCentroid(north.Centroid, b, vp)
	s := ProjectCentroid(south.Centroid, b, vp)
	if n[0] != s[0] {
		t.Errorf("expected equal x, got %v and %v", n[0], s[0])
	}
	if !(n[1] < s[1]) {
		t.Errorf("expected north y %v < south y %v", n[1], s[1])
	}
}

func TestProjectCoordinateDegenerate(t *testing.T) {
	b := BBox{MinX: 5, MaxX: 5, MinY: 1, MaxY: 1}
	got := ProjectCoordinate(orb.Point{5, 1}, b, vp)
	want := orb.Point{vp.Width / 2, vp.Height / 2}
	if got != want {
		t.Errorf("expected centred %v, got %v", want, got)
	}

	// Only one axis collapsed: the other still scales.
	b = BBox{MinX: 0, MaxX: 10, MinY: 7, MaxY: 7}
	got = ProjectCoordinate(orb.Point{10, 7}, b, vp)
	if got[0] != vp.Width-Padding || got[1] != vp.Height/2 {
		t.Errorf("unexpected projection %v", got)
	}
}

func TestProjectRegionPreservesStructure(t *testing.T) {
	r := square("a", 0, 0, 4)
	r.Polygons[0] = append(r.Polygons[0], orb.Ring{{1, 1}, {1, 1}, {2, 2}, {1, 1}}) // hole with a repeated point
	r.Polygons = append(r.Polygons, orb.Polygon{{{6, 6}, {7, 6}, {7, 7}, {6, 6}}})
	b, err := ComputeBoundingBox([]Region{r})
	if err != nil {
		t.Fatalf("bbox: %v", err)
	}

	p := ProjectRegion(r, b, vp)
	if len(p) != len(r.Polygons) {
		t.Fatalf("expected %d polygons, got %d", len(r.Polygons), len(p))
	}
	total := 0
	for i, poly := range r.Polygons {
		if len(p[i]) != len(poly) {
			t.Fatalf("polygon %d: expected %d rings, got %d", i, len(poly), len(p[i]))
		}
		for j, ring := range poly {
			if len(p[i][j]) != len(ring) {
				t.Fatalf("ring %d/%d: expected %d points, got %d", i, j, len(ring), len(p[i][j]))
			}
			for k, c := range ring {
				if p[i][j][k] != ProjectCoordinate(c, b, vp) {
					t.Errorf("ring %d/%d point %d out of order", i, j, k)
				}
			}
			total += len(ring)
		}
	}
	if p.Points() != total {
		t.Errorf("expected %d points, got %d", total, p.Points())
	}
}

func TestPathString(t *testing.T) {
	p := Path{
		{{{20, 20}, {420, 20}, {420, 220}}, {}},
		{{{1.5, 2.25}}},
	}
	want := "M20,20L420,20L420,220Z M1.5,2.25Z"
	if got := p.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteSVG(t *testing.T) {
	a := square("a", 0, 0, 1)
	b2 := square("b", 1, 0, 1)
	box, _ := ComputeBoundingBox([]Region{a, b2})

	var sb strings.Builder
	err := WriteSVG(&sb, box, vp, []Layer{{Region: a, Class: "start", Label: true}, {Region: b2, Class: "hint"}})
	if err != nil {
		t.Fatalf("write svg: %v", err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>") {
		t.Errorf("not an svg document: %s", out)
	}
	if strings.Count(out, "<path") != 2 {
		t.Errorf("expected 2 paths, got %s", out)
	}
	if strings.Count(out, "<text") != 1 {
		t.Errorf("expected 1 label, got %s", out)
	}
	if !strings.Contains(out, `class="start"`) {
		t.Errorf("missing start class: %s", out)
	}
}
