package zonage

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/model"
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/projection"
)

// withinKM is the proximity threshold: at or under this distance the
// address counts as "near" a QPV. The comparison is non-strict.
const withinKM = 0.5

// CrossReferenceResult holds the outcome of testing one point against
// the QPV layer.
type CrossReferenceResult struct {
	Inside          bool
	ContainingZones []model.ZoneRecord
	Nearest         model.NearestZone
	DistanceKM      float64
	Within500m      bool
}

// CrossReference reprojects a WGS84 point into Lambert-93 and tests it
// against every zone: containment (a point may sit in zero, one, or
// several overlapping zones) and minimum distance to any zone, in
// kilometers. When distances tie, the first zone in layer order wins;
// that tie-break is inherited from the source data order and is not
// stable under reordering.
func CrossReference(lon, lat float64, layer *ZoneLayer) (*CrossReferenceResult, error) {
	east, north, err := projection.ToLambert93(lon, lat)
	if err != nil {
		return nil, eris.Wrap(err, "zonage: reproject query point")
	}
	pt := geom.Coord{east, north}

	res := &CrossReferenceResult{}
	nearest := -1
	minDist := math.Inf(1)

	for i := range layer.zones {
		z := &layer.zones[i]

		var d float64
		if multiPolygonContains(z.Geometry, pt) {
			res.ContainingZones = append(res.ContainingZones, z.Record())
		} else {
			d = boundaryDistance(pt, z.Geometry)
		}
		if d < minDist {
			minDist = d
			nearest = i
		}
	}

	res.Inside = len(res.ContainingZones) > 0
	res.DistanceKM = minDist / 1000.0
	res.Within500m = res.DistanceKM <= withinKM
	res.Nearest = model.NearestZone{
		ZoneRecord: layer.zones[nearest].Record(),
		DistanceKM: res.DistanceKM,
	}
	return res, nil
}

// multiPolygonContains reports whether the point lies inside any
// polygon of mp: inside the exterior ring and outside every hole. Edge
// behavior is whatever the even-odd ring predicate gives.
func multiPolygonContains(mp *geom.MultiPolygon, pt geom.Coord) bool {
	for i := 0; i < mp.NumPolygons(); i++ {
		p := mp.Polygon(i)
		if p.NumLinearRings() == 0 {
			continue
		}
		if !xy.IsPointInRing(p.Layout(), pt, p.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for j := 1; j < p.NumLinearRings(); j++ {
			if xy.IsPointInRing(p.Layout(), pt, p.LinearRing(j).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// boundaryDistance returns the minimum distance in meters from the
// point to any ring of mp. Only meaningful for points outside mp.
func boundaryDistance(pt geom.Coord, mp *geom.MultiPolygon) float64 {
	minDist := math.Inf(1)
	for i := 0; i < mp.NumPolygons(); i++ {
		p := mp.Polygon(i)
		for j := 0; j < p.NumLinearRings(); j++ {
			d := xy.DistanceFromPointToLineString(p.Layout(), pt, p.LinearRing(j).FlatCoords())
			if d < minDist {
				minDist = d
			}
		}
	}
	return minDist
}
