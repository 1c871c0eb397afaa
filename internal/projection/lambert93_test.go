package projection

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLambert93Origin(t *testing.T) {
	// The latitude/longitude of origin maps exactly onto the false origin.
	east, north, err := ToLambert93(3.0, 46.5)
	require.NoError(t, err)
	assert.InDelta(t, 700000.0, east, 1e-6)
	assert.InDelta(t, 6600000.0, north, 1e-6)
}

func TestRoundTrip(t *testing.T) {
	points := []struct {
		name     string
		lon, lat float64
	}{
		{"paris", 2.3522, 48.8566},
		{"marseille", 5.3698, 43.2965},
		{"brest", -4.4861, 48.3904},
		{"strasbourg", 7.7521, 48.5734},
		{"ajaccio", 8.7369, 41.9192},
	}

	for _, p := range points {
		t.Run(p.name, func(t *testing.T) {
			east, north, err := ToLambert93(p.lon, p.lat)
			require.NoError(t, err)

			lon, lat, err := ToWGS84(east, north)
			require.NoError(t, err)

			// Round-trip closure must stay below one meter in the plane.
			east2, north2, err := ToLambert93(lon, lat)
			require.NoError(t, err)
			assert.Less(t, math.Hypot(east2-east, north2-north), 1.0)

			assert.InDelta(t, p.lon, lon, 1e-7)
			assert.InDelta(t, p.lat, lat, 1e-7)
		})
	}
}

func TestMetricScale(t *testing.T) {
	// 0.01 degrees of latitude is about 1112 meters on the ellipsoid;
	// the projected displacement must be metric, not angular.
	e1, n1, err := ToLambert93(3.0, 46.50)
	require.NoError(t, err)
	e2, n2, err := ToLambert93(3.0, 46.51)
	require.NoError(t, err)

	d := math.Hypot(e2-e1, n2-n1)
	assert.InDelta(t, 1112.0, d, 10.0)
}

func TestEastingIncreasesWithLongitude(t *testing.T) {
	e1, _, err := ToLambert93(2.0, 47.0)
	require.NoError(t, err)
	e2, _, err := ToLambert93(2.5, 47.0)
	require.NoError(t, err)
	assert.Greater(t, e2, e1)
}

func TestOutOfDomain(t *testing.T) {
	for _, c := range []struct{ lon, lat float64 }{
		{3.0, 90.0},
		{3.0, -95.0},
		{math.NaN(), 46.0},
		{3.0, math.Inf(1)},
	} {
		_, _, err := ToLambert93(c.lon, c.lat)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrOutOfDomain))
	}
}
