// Package zonage loads the two French zoning reference datasets (QPV
// polygons and the ZRR commune registry) and evaluates addresses
// against them. Both datasets are loaded once and shared read-only for
// the process lifetime.
package zonage

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/model"
)

// Zone is one QPV polygon with its administrative attributes. Geometry
// is always expressed in Lambert-93 (meters).
type Zone struct {
	Code     string
	Label    string
	Commune  string
	Geometry *geom.MultiPolygon
}

// Record returns the attribute view of the zone.
func (z Zone) Record() model.ZoneRecord {
	return model.ZoneRecord{CodeQP: z.Code, LibQP: z.Label, CommuneQP: z.Commune}
}

// ZoneLayer is the immutable, ordered QPV polygon collection. Order is
// the source record order and matters for distance tie-breaks.
type ZoneLayer struct {
	zones []Zone
}

// NewZoneLayer builds a layer from zones already in Lambert-93. An
// empty layer is rejected here rather than at query time: with no
// polygons the nearest-distance result would be undefined.
func NewZoneLayer(zones []Zone) (*ZoneLayer, error) {
	if len(zones) == 0 {
		return nil, eris.New("zonage: zone layer is empty")
	}
	for _, z := range zones {
		if z.Geometry == nil || z.Geometry.NumPolygons() == 0 {
			return nil, eris.Errorf("zonage: zone %s has no geometry", z.Code)
		}
	}
	return &ZoneLayer{zones: zones}, nil
}

// Len returns the number of zones in the layer.
func (l *ZoneLayer) Len() int {
	return len(l.zones)
}
