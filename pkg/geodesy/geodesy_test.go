package geodesy

import (
	"math"
	"testing"
)

func TestHaversineNMZeroDistance(t *testing.T) {
	p := LatLon{Lat: 10, Lon: 20}
	if d := HaversineNM(p, p); d != 0 {
		t.Errorf("expected 0 distance for identical points, got %f", d)
	}
}

func TestHaversineNMKnownRoute(t *testing.T) {
	// Roughly New York to London, ~3000 NM great circle distance.
	nyc := LatLon{Lat: 40.7128, Lon: -74.0060}
	lon := LatLon{Lat: 51.5074, Lon: -0.1278}
	d := HaversineNM(nyc, lon)
	if d < 2900 || d > 3100 {
		t.Errorf("expected ~3000 NM, got %f", d)
	}
}

func TestBearingCardinalDirections(t *testing.T) {
	origin := LatLon{Lat: 0, Lon: 0}
	north := LatLon{Lat: 10, Lon: 0}
	east := LatLon{Lat: 0, Lon: 10}

	if b := Bearing(origin, north); math.Abs(b) > 1 {
		t.Errorf("expected bearing ~0 for due north, got %f", b)
	}
	if b := Bearing(origin, east); math.Abs(b-90) > 1 {
		t.Errorf("expected bearing ~90 for due east, got %f", b)
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	a := LatLon{Lat: 0, Lon: 0}
	b := LatLon{Lat: 10, Lon: 20}

	if got := Interpolate(a, b, 0); got != a {
		t.Errorf("t=0 should return a, got %+v", got)
	}
	if got := Interpolate(a, b, 1); got != b {
		t.Errorf("t=1 should return b, got %+v", got)
	}
	mid := Interpolate(a, b, 0.5)
	if mid.Lat != 5 || mid.Lon != 10 {
		t.Errorf("t=0.5 should be midpoint, got %+v", mid)
	}
}

func TestCurrentEffectFollowingVsAdverse(t *testing.T) {
	// Heading due north (0 degrees): a northward current should help, a
	// southward current should hurt.
	following := CurrentEffectKt(0, 1, 0)
	adverse := CurrentEffectKt(0, -1, 0)

	if following <= 0 {
		t.Errorf("expected positive effect for following current, got %f", following)
	}
	if adverse >= 0 {
		t.Errorf("expected negative effect for adverse current, got %f", adverse)
	}
}
