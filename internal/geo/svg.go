// internal/geo/svg.go
//
// Minimal SVG writer for the session map: one <path> per region in layer
// order, each labelled layer followed by its name at the centroid.

package geo

import (
	"fmt"
	"html"
	"io"
)

// Layer is one region drawn onto an SVG map.
type Layer struct {
	Region Region
	Class  string // css class: "start", "end", "hit", "miss", "hint"
	Label  bool   // draw the region name at its centroid
}

// WriteSVG draws layers in order onto a single surface sharing bbox b.
func WriteSVG(w io.Writer, b BBox, vp Viewport, layers []Layer) error {
	if _, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s">`,
		num(vp.Width), num(vp.Height)); err != nil {
		return err
	}
	for _, l := range layers {
		d := ProjectRegion(l.Region, b, vp).String()
		if _, err := fmt.Fprintf(w, `<path id="%s" class="%s" fill-rule="evenodd" d="%s"/>`,
			html.EscapeString(l.Region.ID), html.EscapeString(l.Class), d); err != nil {
			return err
		}
		if !l.Label {
			continue
		}
		c := ProjectCentroid(l.Region.Centroid, b, vp)
		if _, err := fmt.Fprintf(w, `<text x="%s" y="%s" text-anchor="middle">%s</text>`,
			num(c[0]), num(c[1]), html.EscapeString(l.Region.Name)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</svg>")
	return err
}
