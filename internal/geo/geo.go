// internal/geo/geo.go
//
// Geographic reference data and the shared bounding box.
// Defines:
//   - Region: a district outline in the source coordinate frame (lon/lat).
//   - BBox:   the axis-aligned extent over every point of every region.
//   - Viewport: the fixed-size drawing surface regions are projected onto.
//
// Notes:
//   - Regions are immutable once loaded; nothing in this package mutates them.
//   - One BBox is shared by every region drawn together so that outlines keep
//     their relative position and scale.

package geo

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// Padding is the margin, in viewport units, kept free on every side.
const Padding = 20.0

// ErrEmpty is returned when a bounding box is requested over no points at all.
var ErrEmpty = errors.New("geo: no coordinates to bound")

// Region is a single district as served to clients.
type Region struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`    // localized display name
	NameEn   string           `json:"name_en"` // canonical name
	Polygons orb.MultiPolygon `json:"polygons"`
	Centroid orb.Point        `json:"centroid"`
}

// BBox is the minimal rectangle enclosing a set of geometries.
type BBox struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Viewport is the drawing surface size.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultViewport matches the map the web client draws.
var DefaultViewport = Viewport{Width: 800, Height: 500}

// ComputeBoundingBox scans every coordinate of every ring of every polygon.
// Holes are ordinary rings here. Returns ErrEmpty when there is nothing to scan.
func ComputeBoundingBox(regions []Region) (BBox, error) {
	b := BBox{
		MinX: math.Inf(1),
		MaxX: math.Inf(-1),
		MinY: math.Inf(1),
		MaxY: math.Inf(-1),
	}
	seen := false
	for _, r := range regions {
		for _, poly := range r.Polygons {
			for _, ring := range poly {
				for _, c := range ring {
					seen = true
					b.MinX = math.Min(b.MinX, c[0])
					b.MaxX = math.Max(b.MaxX, c[0])
					b.MinY = math.Min(b.MinY, c[1])
					b.MaxY = math.Max(b.MaxY, c[1])
				}
			}
		}
	}
	if !seen {
		return BBox{}, ErrEmpty
	}
	return b, nil
}

// Contains reports whether p lies inside or on the edge of b.
func (b BBox) Contains(p orb.Point) bool {
	return p[0] >= b.MinX && p[0] <= b.MaxX && p[1] >= b.MinY && p[1] <= b.MaxY
}

// Width and Height are the extents along each axis.
func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }
