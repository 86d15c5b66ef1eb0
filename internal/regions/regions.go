// internal/regions/regions.go
//
// District catalog: the immutable reference data every game is played on.
//
// Responsibilities:
//   - Load district records from REGIONS_FILE or fall back to the embedded demo grid.
//   - Normalize geometry (MultiPolygons keep only their largest polygon) and compute centroids.
//   - Resolve free-text guesses to a district and serve autocomplete searches.
//
// Record format (JSON array):
//   {"name": "Bakı", "name_en": "Baku", "geometry_type": "Polygon", "polygons": [[[[x, y], ...]]]}
//
// Constraints:
//   • The district id is its English name.
//   • Ids must be unique; every district needs at least one non-empty ring.

package regions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/robalobadob/rayonlar/assets"
	"github.com/robalobadob/rayonlar/internal/geo"
)

// DefaultSearchLimit caps autocomplete results.
const DefaultSearchLimit = 8

// Record is one district as stored on disk.
type Record struct {
	Name         string           `json:"name"`
	NameEn       string           `json:"name_en"`
	GeometryType string           `json:"geometry_type"`
	Polygons     orb.MultiPolygon `json:"polygons"`
}

// Hit is a single autocomplete suggestion.
type Hit struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameEn string `json:"name_en"`
}

// Catalog holds all districts in file order.
type Catalog struct {
	list []geo.Region
	byID map[string]int
}

// Load reads districts from path, or the embedded demo grid when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = assets.Regions()
	}
	if err != nil {
		return nil, fmt.Errorf("read regions: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of records.
func Parse(data []byte) (*Catalog, error) {
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}
	return New(recs)
}

// New builds a catalog from records.
func New(recs []Record) (*Catalog, error) {
	if len(recs) == 0 {
		return nil, errors.New("regions: catalog is empty")
	}
	c := &Catalog{
		list: make([]geo.Region, 0, len(recs)),
		byID: make(map[string]int, len(recs)),
	}
	for _, rec := range recs {
		r, err := normalize(rec)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("regions: duplicate id %q", r.ID)
		}
		c.byID[r.ID] = len(c.list)
		c.list = append(c.list, r)
	}
	return c, nil
}

// normalize turns a record into a Region.
func normalize(rec Record) (geo.Region, error) {
	name := strings.TrimSpace(rec.Name)
	nameEn := strings.TrimSpace(rec.NameEn)
	if nameEn == "" {
		nameEn = name
	}
	if nameEn == "" {
		return geo.Region{}, errors.New("regions: record without a name")
	}
	if len(rec.Polygons) == 0 || len(rec.Polygons[0]) == 0 || len(rec.Polygons[0][0]) == 0 {
		return geo.Region{}, fmt.Errorf("regions: %q has no polygons", nameEn)
	}

	polys := rec.Polygons
	if rec.GeometryType == "MultiPolygon" && len(polys) > 1 {
		polys = orb.MultiPolygon{largest(polys)}
	}
	centroid, _ := planar.CentroidArea(polys[0])

	return geo.Region{
		ID:       nameEn,
		Name:     name,
		NameEn:   nameEn,
		Polygons: polys,
		Centroid: centroid,
	}, nil
}

// largest returns the polygon with the biggest planar area (holes subtracted).
func largest(mp orb.MultiPolygon) orb.Polygon {
	best, bestArea := mp[0], planar.Area(mp[0])
	for _, p := range mp[1:] {
		if a := planar.Area(p); a > bestArea {
			best, bestArea = p, a
		}
	}
	return best
}

// All returns every district in file order. The slice must not be modified.
func (c *Catalog) All() []geo.Region { return c.list }

// Len reports the number of districts.
func (c *Catalog) Len() int { return len(c.list) }

// IDs returns every district id in file order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.list))
	for i, r := range c.list {
		out[i] = r.ID
	}
	return out
}

// Get looks a district up by id.
func (c *Catalog) Get(id string) (geo.Region, bool) {
	i, ok := c.byID[id]
	if !ok {
		return geo.Region{}, false
	}
	return c.list[i], true
}

// Name returns the display name for id, or id itself when unknown.
func (c *Catalog) Name(id string) string {
	if r, ok := c.Get(id); ok {
		return r.Name
	}
	return id
}

// Match resolves raw player input to a district.
// An exact, case-insensitive match on name, English name or id wins;
// otherwise the first district whose name contains the input is used.
func (c *Catalog) Match(raw string) (geo.Region, bool) {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		return geo.Region{}, false
	}
	for _, r := range c.list {
		if q == strings.ToLower(r.Name) || q == strings.ToLower(r.NameEn) || q == strings.ToLower(r.ID) {
			return r, true
		}
	}
	for _, r := range c.list {
		if contains(r, q) {
			return r, true
		}
	}
	return geo.Region{}, false
}

// Search returns up to limit districts whose name contains q.
// limit <= 0 uses DefaultSearchLimit. Never returns nil.
func (c *Catalog) Search(q string, limit int) []Hit {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	out := []Hit{}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return out
	}
	for _, r := range c.list {
		if !contains(r, q) {
			continue
		}
		out = append(out, Hit{ID: r.ID, Name: r.Name, NameEn: r.NameEn})
		if len(out) >= limit {
			break
		}
	}
	return out
}

func contains(r geo.Region, q string) bool {
	return strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.NameEn), q)
}
