package ocean

import "testing"

// countingQuery counts calls to IsLand so cache hit/miss behavior can be
// verified independently of the underlying values returned.
type countingQuery struct {
	Query
	calls int
}

func (c *countingQuery) IsLand(lat, lon float64) (bool, error) {
	c.calls++
	return c.Query.IsLand(lat, lon)
}

func TestCachedQueryServesRepeatedLookupsFromCache(t *testing.T) {
	backing := &countingQuery{Query: NewGrid(200, 1, 0, 0)}
	cached := NewCachedQuery(backing, 16)

	for i := 0; i < 5; i++ {
		cached.IsLand(10, -150)
	}

	if backing.calls != 1 {
		t.Errorf("expected exactly one backing call for repeated identical lookups, got %d", backing.calls)
	}
	if rate := cached.HitRate(); rate <= 0 {
		t.Errorf("expected a positive hit rate, got %f", rate)
	}
}

func TestCachedQueryQuantizesNearbyCoordinates(t *testing.T) {
	backing := &countingQuery{Query: NewGrid(200, 1, 0, 0)}
	cached := NewCachedQuery(backing, 16)

	cached.IsLand(10.001, -150.001)
	cached.IsLand(10.002, -150.002)

	if backing.calls != 1 {
		t.Errorf("expected coordinates within quantization tolerance to share a cache entry, got %d backing calls", backing.calls)
	}
}

func TestCachedQueryDistinguishesDistinctCoordinates(t *testing.T) {
	backing := &countingQuery{Query: NewGrid(200, 1, 0, 0)}
	cached := NewCachedQuery(backing, 16)

	cached.IsLand(10, -150)
	cached.IsLand(40, 10)

	if backing.calls != 2 {
		t.Errorf("expected distinct coordinates to miss independently, got %d backing calls", backing.calls)
	}
}

func TestCachedQueryDelegatesAllMethods(t *testing.T) {
	grid := NewGrid(200, 1, 0.5, 0.2)
	grid.AddStormZone(StormZone{Lat: 10, Lon: -150, RadiusDeg: 5, Risk: 1.0})
	grid.AddPiracyZone(PiracyZone{MinLat: 0, MaxLat: 5, MinLon: 40, MaxLon: 50, Risk: 0.8})
	cached := NewCachedQuery(grid, 16)

	if d, _ := cached.Depth(0, -150); d != 200 {
		t.Errorf("expected Depth to delegate to backing grid, got %f", d)
	}
	if wh, _ := cached.WaveHeight(0, -150, 0); wh < 0 {
		t.Errorf("unexpected negative wave height: %f", wh)
	}
	if e, n, _ := cached.CurrentVector(0, -150, 0); e != 0.5 || n != 0.2 {
		t.Errorf("expected CurrentVector to delegate, got (%f, %f)", e, n)
	}
	if risk, _ := cached.StormRisk(10, -150, 0); risk <= 0 {
		t.Errorf("expected nonzero storm risk at zone center, got %f", risk)
	}
	if risk, _ := cached.PiracyRisk(2, 45); risk != 0.8 {
		t.Errorf("expected configured piracy risk, got %f", risk)
	}
}
