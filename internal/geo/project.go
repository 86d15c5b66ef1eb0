// internal/geo/project.go
//
// Projection of lon/lat geometry into viewport pixels.
// Responsibilities:
//   - Map a coordinate through a shared bbox with padding and Y inversion.
//   - Project whole regions and their centroids.
//   - Render projected outlines as SVG path data with 2-digit rounding.

package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Path is a region outline in viewport space. It keeps the polygon and ring
// grouping of the source geometry, and the point order within every ring.
type Path orb.MultiPolygon

// ProjectCoordinate maps p linearly into vp with Padding on all sides.
// X grows to the right; Y is inverted so that the northernmost point lands at
// the top. Results are rounded to two fractional digits.
//
// An axis with no extent (all points share one value) places every point at
// the centre of that axis.
func ProjectCoordinate(p orb.Point, b BBox, vp Viewport) orb.Point {
	x := scale(p[0]-b.MinX, b.Width(), vp.Width)
	y := scale(b.MaxY-p[1], b.Height(), vp.Height)
	return orb.Point{round2(x), round2(y)}
}

// scale maps offset within span onto size minus padding.
func scale(offset, span, size float64) float64 {
	if !(span > 0) || math.IsInf(span, 0) {
		return size / 2
	}
	return Padding + offset/span*(size-2*Padding)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// ProjectCentroid projects a single label anchor.
func ProjectCentroid(c orb.Point, b BBox, vp Viewport) orb.Point {
	return ProjectCoordinate(c, b, vp)
}

// ProjectRegion projects every point of r. No point is dropped, merged or reordered.
func ProjectRegion(r Region, b BBox, vp Viewport) Path {
	out := make(Path, len(r.Polygons))
	for i, poly := range r.Polygons {
		rings := make(orb.Polygon, len(poly))
		for j, ring := range poly {
			pr := make(orb.Ring, len(ring))
			for k, c := range ring {
				pr[k] = ProjectCoordinate(c, b, vp)
			}
			rings[j] = pr
		}
		out[i] = rings
	}
	return out
}

// Points returns the total number of points across all rings.
func (p Path) Points() int {
	n := 0
	for _, poly := range p {
		for _, ring := range poly {
			n += len(ring)
		}
	}
	return n
}

// String renders p as SVG path data: one closed "M…L…Z" contour per ring,
// contours separated by a space. Empty rings produce no contour.
func (p Path) String() string {
	var sb strings.Builder
	for _, poly := range p {
		for _, ring := range poly {
			if len(ring) == 0 {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			for i, pt := range ring {
				if i == 0 {
					sb.WriteByte('M')
				} else {
					sb.WriteByte('L')
				}
				sb.WriteString(num(pt[0]))
				sb.WriteByte(',')
				sb.WriteString(num(pt[1]))
			}
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
