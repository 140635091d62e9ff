package geo

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  Point
		ok    bool
	}{
		{
			name:  "valid point",
			value: map[string]any{"lat": 48.85, "lon": 2.35},
			want:  Point{Lat: 48.85, Lon: 2.35},
			ok:    true,
		},
		{
			name:  "integer coordinates",
			value: map[string]any{"lat": 1, "lon": 2},
			want:  Point{Lat: 1, Lon: 2},
			ok:    true,
		},
		{name: "extra field", value: map[string]any{"lat": 1.0, "lon": 2.0, "alt": 3.0}},
		{name: "missing lon", value: map[string]any{"lat": 1.0, "name": "x"}},
		{name: "non-numeric lat", value: map[string]any{"lat": "1.0", "lon": 2.0}},
		{name: "nan lat", value: map[string]any{"lat": math.NaN(), "lon": 2.0}},
		{name: "not an object", value: "48.85,2.35"},
		{name: "nil", value: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			point, ok := ParsePoint(tc.value)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, point)
			}
		})
	}
}

func TestEncodePrecision(t *testing.T) {
	hash := Encode(Point{Lat: 48.85, Lon: 2.35})
	assert.Len(t, hash, Precision)
}

func TestHaversineKnownDistances(t *testing.T) {
	// One thousandth of a degree of longitude on the equator is about 111m.
	d := Haversine(Point{Lat: 0, Lon: 0}, Point{Lat: 0, Lon: 0.001})
	assert.InDelta(t, 111.2, d, 1.0)

	// Paris to London is roughly 344km.
	d = Haversine(Point{Lat: 48.8566, Lon: 2.3522}, Point{Lat: 51.5074, Lon: -0.1278})
	assert.InDelta(t, 344000, d, 5000)

	assert.Zero(t, Haversine(Point{Lat: 10, Lon: 20}, Point{Lat: 10, Lon: 20}))
}

func TestCoverRadiusExpandsPrecision(t *testing.T) {
	center := Point{Lat: 0, Lon: 0}

	// A tiny radius fits inside a full-precision cell: nine cells at the
	// write precision.
	cells := CoverRadius(center, 1)
	require.NotNil(t, cells)
	assert.Len(t, cells, 9)
	for _, cell := range cells {
		assert.Len(t, cell, Precision)
	}

	// 500m exceeds the precision-9 cell span, so the cover must shorten the
	// cells until one spans the radius.
	cells = CoverRadius(center, 500)
	require.NotNil(t, cells)
	for _, cell := range cells {
		assert.Less(t, len(cell), Precision)
	}

	// Every cell stays a prefix-compatible geohash of the center region.
	full := Encode(center)
	found := false
	for _, cell := range cells {
		if strings.HasPrefix(full, cell) {
			found = true
		}
	}
	assert.True(t, found, "the center's own cell must be part of the cover")
}

func TestCoverRadiusCoversNeighborBoundary(t *testing.T) {
	// Two points ~111m apart near a cell boundary: the cover for a 500m
	// radius around the first must include the cell of the second.
	center := Point{Lat: 0, Lon: 0}
	other := Point{Lat: 0, Lon: 0.001}

	cells := CoverRadius(center, 500)
	require.NotEmpty(t, cells)

	otherHash := Encode(other)
	covered := false
	for _, cell := range cells {
		if strings.HasPrefix(otherHash, cell) {
			covered = true
		}
	}
	assert.True(t, covered)
}

func TestCoverRadiusPlanetScaleFallsBack(t *testing.T) {
	// No precision is coarse enough for a planet-sized radius; nil tells
	// the caller to scan the whole field.
	assert.Nil(t, CoverRadius(Point{Lat: 0, Lon: 0}, 10_000_000))
}

func TestRectContainsHalfOpen(t *testing.T) {
	rect := Rect{MinLat: 0, MinLon: 0, MaxLat: 10, MaxLon: 10}

	assert.True(t, rect.Contains(Point{Lat: 0, Lon: 0}))
	assert.True(t, rect.Contains(Point{Lat: 5, Lon: 9.999}))
	assert.False(t, rect.Contains(Point{Lat: 10, Lon: 5}))
	assert.False(t, rect.Contains(Point{Lat: 5, Lon: 10}))
	assert.False(t, rect.Contains(Point{Lat: -1, Lon: 5}))
}
