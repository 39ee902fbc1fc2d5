package areas

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Library is a named collection of broadcast areas, e.g. "Countries".
// Group libraries nest their areas under groups.
type Library struct {
	ID      string
	Name    string
	IsGroup bool
}

// Group is a named subdivision of a group library.
type Group struct {
	ID        string
	Name      string
	LibraryID string
}

// Area is one broadcastable area. Its shape is stored as GeoJSON twice: the
// full-resolution feature and a simplified one for cell broadcast payloads.
type Area struct {
	ID   string
	Name string

	featureJSON       string
	simpleFeatureJSON string

	polygons       [][][2]float64
	simplePolygons [][][2]float64
}

type geoFeature struct {
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

func newArea(id, name, featureJSON, simpleFeatureJSON string) (Area, error) {
	a := Area{
		ID:                id,
		Name:              name,
		featureJSON:       featureJSON,
		simpleFeatureJSON: simpleFeatureJSON,
	}
	var err error
	if a.polygons, err = parsePolygons(featureJSON); err != nil {
		return Area{}, fmt.Errorf("area %s: %w", name, err)
	}
	if a.simplePolygons, err = parsePolygons(simpleFeatureJSON); err != nil {
		return Area{}, fmt.Errorf("area %s (simplified): %w", name, err)
	}
	// CAP requires closed shapes: last point joins the first.
	for _, ring := range a.polygons {
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			return Area{}, fmt.Errorf("area %s is not a closed shape (%v, %v)", name, ring[0], ring[len(ring)-1])
		}
	}
	return a, nil
}

// parsePolygons extracts the outer ring of each polygon in the feature,
// in the stored GeoJSON long-lat point order.
func parsePolygons(featureJSON string) ([][][2]float64, error) {
	var f geoFeature
	if err := json.Unmarshal([]byte(featureJSON), &f); err != nil {
		return nil, fmt.Errorf("parse feature: %w", err)
	}
	switch f.Geometry.Type {
	case "Polygon":
		var rings [][][2]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("parse polygon coordinates: %w", err)
		}
		if len(rings) == 0 {
			return nil, nil
		}
		return [][][2]float64{rings[0]}, nil
	case "MultiPolygon":
		var polys [][][][2]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("parse multipolygon coordinates: %w", err)
		}
		out := make([][][2]float64, 0, len(polys))
		for _, rings := range polys {
			if len(rings) > 0 {
				out = append(out, rings[0])
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown geometry type %q", f.Geometry.Type)
	}
}

// Polygons returns the outer rings in stored long-lat order, closed.
func (a Area) Polygons() [][][2]float64 { return a.polygons }

// SimplePolygons returns the simplified outer rings in long-lat order.
func (a Area) SimplePolygons() [][][2]float64 { return a.simplePolygons }

// UnenclosedPolygons drops the repeated closing point from each ring. Some
// mapping tools join the last point to the first implicitly.
func (a Area) UnenclosedPolygons() [][][2]float64 {
	return unenclose(a.polygons)
}

func unenclose(polygons [][][2]float64) [][][2]float64 {
	out := make([][][2]float64, len(polygons))
	for i, ring := range polygons {
		if len(ring) > 0 {
			out[i] = ring[:len(ring)-1]
		}
	}
	return out
}

// latLong flips long-lat rings into the lat-long order CAP polygons use.
func latLong(polygons [][][2]float64) [][][2]float64 {
	out := make([][][2]float64, len(polygons))
	for i, ring := range polygons {
		flipped := make([][2]float64, len(ring))
		for j, p := range ring {
			flipped[j] = [2]float64{p[1], p[0]}
		}
		out[i] = flipped
	}
	return out
}

// SafeID turns a display name into a stable identifier,
// e.g. "Vale of Glamorgan" becomes "vale-of-glamorgan".
func SafeID(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
