package zonage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/projection"
)

// QPV attribute columns.
const (
	colCodeQP = "code_qp"
	colLibQP  = "lib_qp"
	colLibCom = "lib_com"
)

// layerCRS is the coordinate system declared by a shapefile's .prj
// sidecar, reduced to the two cases the loader accepts.
type layerCRS int

const (
	crsLambert93 layerCRS = iota
	crsGeographic
)

// LoadZoneLayer reads the QPV polygon shapefile at path. The .prj
// sidecar is mandatory: without a declared coordinate system, planar
// scaling would be ambiguous and every distance silently wrong. A
// geographic layer is reprojected to Lambert-93 ring by ring, once,
// at load; a Lambert-93 layer is used as-is.
func LoadZoneLayer(path string) (*ZoneLayer, error) {
	crs, err := readCRS(path)
	if err != nil {
		return nil, err
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "zonage: open QPV shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	codeIdx := fieldIndex(reader, colCodeQP)
	libIdx := fieldIndex(reader, colLibQP)
	comIdx := fieldIndex(reader, colLibCom)
	if codeIdx < 0 || libIdx < 0 || comIdx < 0 {
		return nil, eris.Errorf("zonage: QPV shapefile missing required fields (%s, %s, %s)", colCodeQP, colLibQP, colLibCom)
	}

	var zones []Zone
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}

		mp, convErr := polygonToMultiPolygon(poly, crs)
		if convErr != nil {
			return nil, convErr
		}
		if mp == nil {
			skipped++
			continue
		}

		zones = append(zones, Zone{
			Code:     attribute(reader, codeIdx),
			Label:    attribute(reader, libIdx),
			Commune:  attribute(reader, comIdx),
			Geometry: mp,
		})
	}

	if skipped > 0 {
		zap.L().Debug("zonage: skipped QPV records without usable geometry",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	layer, err := NewZoneLayer(zones)
	if err != nil {
		return nil, eris.Wrapf(err, "zonage: QPV shapefile %s", path)
	}
	zap.L().Info("QPV layer loaded",
		zap.String("path", path),
		zap.Int("zones", layer.Len()),
	)
	return layer, nil
}

// readCRS reads and classifies the .prj sidecar next to the .shp file.
func readCRS(shpPath string) (layerCRS, error) {
	prjPath := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".prj"
	data, err := os.ReadFile(prjPath)
	if err != nil {
		return 0, eris.Wrapf(err, "zonage: QPV layer has no coordinate system (missing %s)", prjPath)
	}

	wkt := strings.ToUpper(strings.TrimSpace(string(data)))
	switch {
	case wkt == "":
		return 0, eris.Errorf("zonage: QPV layer has an empty coordinate system (%s)", prjPath)
	case strings.HasPrefix(wkt, "PROJCS") && strings.Contains(wkt, "LAMBERT"):
		return crsLambert93, nil
	case strings.HasPrefix(wkt, "PROJCS"):
		return 0, eris.Errorf("zonage: QPV layer uses an unsupported projected coordinate system (%s)", prjPath)
	case strings.HasPrefix(wkt, "GEOGCS"):
		return crsGeographic, nil
	default:
		return 0, eris.Errorf("zonage: QPV layer has an unrecognized coordinate system (%s)", prjPath)
	}
}

// polygonToMultiPolygon converts a shapefile polygon to a Lambert-93
// geom.MultiPolygon, reprojecting coordinates when the source layer is
// geographic. Parts are classified by winding per the shapefile spec:
// clockwise rings are exteriors, counter-clockwise rings are holes and
// attach to the exterior that contains them. Returns nil for
// degenerate shapes.
func polygonToMultiPolygon(p *shp.Polygon, crs layerCRS) (*geom.MultiPolygon, error) {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil, nil
	}

	var exteriors []*geom.Polygon
	var holes [][]float64

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			x, y := p.Points[j].X, p.Points[j].Y
			if crs == crsGeographic {
				var err error
				x, y, err = projection.ToLambert93(x, y)
				if err != nil {
					return nil, eris.Wrapf(err, "zonage: reproject QPV ring coordinate")
				}
			}
			flat = append(flat, x, y)
		}

		// The Lambert-93 transform is conformal, so winding survives
		// reprojection and can be classified on either side of it.
		if signedRingArea(flat) > 0 {
			holes = append(holes, flat)
			continue
		}
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("zonage: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		exteriors = append(exteriors, poly)
	}

	for _, h := range holes {
		if attachHole(exteriors, h) {
			continue
		}
		// Some writers emit islands with hole winding; keep a stray
		// counter-clockwise ring as its own exterior rather than
		// dropping its area.
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, h)); err != nil {
			zap.L().Debug("zonage: skipping malformed polygon ring", zap.Error(err))
			continue
		}
		exteriors = append(exteriors, poly)
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for _, poly := range exteriors {
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("zonage: skipping malformed polygon part", zap.Error(err))
		}
	}
	if mp.NumPolygons() == 0 {
		return nil, nil
	}
	return mp, nil
}

// attachHole pushes the ring as an interior ring of the first exterior
// whose outer ring contains its starting vertex. Reports whether an
// enclosing exterior was found.
func attachHole(exteriors []*geom.Polygon, flat []float64) bool {
	if len(flat) < 2 {
		return false
	}
	pt := geom.Coord{flat[0], flat[1]}
	for _, poly := range exteriors {
		if !xy.IsPointInRing(geom.XY, pt, poly.LinearRing(0).FlatCoords()) {
			continue
		}
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("zonage: skipping malformed hole ring", zap.Error(err))
		}
		return true
	}
	return false
}

// signedRingArea is the shoelace sum over an XY flat ring: negative
// for clockwise winding, positive for counter-clockwise. The ring is
// closed implicitly if the writer left it open.
func signedRingArea(flat []float64) float64 {
	n := len(flat)
	if n < 6 {
		return 0
	}
	var sum float64
	for i := 0; i+3 < n; i += 2 {
		sum += flat[i]*flat[i+3] - flat[i+2]*flat[i+1]
	}
	sum += flat[n-2]*flat[1] - flat[0]*flat[n-1]
	return sum / 2
}

// fieldIndex returns the index of a named attribute field, or -1.
// Field names are matched case-insensitively with NUL padding trimmed.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// attribute reads one attribute value with DBF padding trimmed.
func attribute(reader *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
}
