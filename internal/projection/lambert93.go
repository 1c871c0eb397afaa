// Package projection converts coordinates between the WGS84 geographic
// system and Lambert-93 (RGF93 / EPSG:2154), the metric planar system
// used for distance and containment work over France. The conversion
// is the Lambert Conformal Conic two-standard-parallel mapping on the
// GRS80 ellipsoid, with the EPSG:2154 defining parameters. RGF93 and
// WGS84 are treated as coincident; the datum difference is centimetric
// and far below geocoding accuracy.
package projection

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrOutOfDomain reports coordinates the transform cannot map, such as
// latitudes at or beyond the poles.
var ErrOutOfDomain = eris.New("projection: coordinates outside transform domain")

// GRS80 ellipsoid.
const (
	semiMajor  = 6378137.0
	flattening = 1.0 / 298.257222101
)

// Lambert-93 defining parameters (EPSG:2154).
const (
	latOrigin     = 46.5 // degrees
	latParallel1  = 44.0
	latParallel2  = 49.0
	lonOrigin     = 3.0
	falseEasting  = 700000.0
	falseNorthing = 6600000.0
)

var ecc = math.Sqrt(2*flattening - flattening*flattening)

// conic holds the derived constants of the conformal cone.
type conic struct {
	n    float64 // cone constant
	f    float64 // scale factor
	rho0 float64 // radius at the latitude of origin
}

var l93 = func() conic {
	m1 := mValue(rad(latParallel1))
	m2 := mValue(rad(latParallel2))
	t0 := tValue(rad(latOrigin))
	t1 := tValue(rad(latParallel1))
	t2 := tValue(rad(latParallel2))

	n := (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	f := m1 / (n * math.Pow(t1, n))
	return conic{n: n, f: f, rho0: semiMajor * f * math.Pow(t0, n)}
}()

// ToLambert93 projects WGS84 longitude/latitude (degrees) to Lambert-93
// easting/northing (meters).
func ToLambert93(lon, lat float64) (east, north float64, err error) {
	if !isFinite(lon) || !isFinite(lat) || math.Abs(lat) >= 90 {
		return 0, 0, eris.Wrapf(ErrOutOfDomain, "lon=%v lat=%v", lon, lat)
	}

	rho := semiMajor * l93.f * math.Pow(tValue(rad(lat)), l93.n)
	theta := l93.n * rad(lon-lonOrigin)

	east = falseEasting + rho*math.Sin(theta)
	north = falseNorthing + l93.rho0 - rho*math.Cos(theta)
	if !isFinite(east) || !isFinite(north) {
		return 0, 0, eris.Wrapf(ErrOutOfDomain, "lon=%v lat=%v", lon, lat)
	}
	return east, north, nil
}

// ToWGS84 is the inverse of ToLambert93. Latitude is recovered by
// fixed-point iteration, which converges to well under a millimeter.
func ToWGS84(east, north float64) (lon, lat float64, err error) {
	if !isFinite(east) || !isFinite(north) {
		return 0, 0, eris.Wrapf(ErrOutOfDomain, "east=%v north=%v", east, north)
	}

	dx := east - falseEasting
	dy := l93.rho0 - (north - falseNorthing)

	rho := math.Hypot(dx, dy)
	if l93.n < 0 {
		rho = -rho
	}
	theta := math.Atan2(dx, dy)
	t := math.Pow(rho/(semiMajor*l93.f), 1/l93.n)

	phi := math.Pi/2 - 2*math.Atan(t)
	for range 32 {
		es := ecc * math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-es)/(1+es), ecc/2))
		if math.Abs(next-phi) < 1e-11 {
			phi = next
			break
		}
		phi = next
	}

	lon = deg(theta/l93.n) + lonOrigin
	lat = deg(phi)
	if !isFinite(lon) || !isFinite(lat) {
		return 0, 0, eris.Wrapf(ErrOutOfDomain, "east=%v north=%v", east, north)
	}
	return lon, lat, nil
}

// mValue is cos(phi) / sqrt(1 - e^2 sin^2(phi)).
func mValue(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-ecc*ecc*s*s)
}

// tValue is tan(pi/4 - phi/2) / ((1 - e sin(phi)) / (1 + e sin(phi)))^(e/2).
func tValue(phi float64) float64 {
	es := ecc * math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-es)/(1+es), ecc/2)
}

func rad(d float64) float64 { return d * math.Pi / 180 }

func deg(r float64) float64 { return r * 180 / math.Pi }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
