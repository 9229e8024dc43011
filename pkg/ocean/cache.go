package ocean

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// quantizeDeg controls coordinate quantization for cache keys: positions
// within this tolerance share a cache entry.
const quantizeDeg = 0.01

// timeBucketSeconds controls the time-axis quantization for cache keys.
const timeBucketSeconds = 60.0

// CachedQuery wraps a Query with an adaptive replacement cache so repeated
// lookups at the same quantized coordinate/time within one run don't
// re-hit the backing implementation. Modeled on the teacher's PathCache,
// which caches routing paths keyed by endpoint and preference; here the
// key is a quantized (lat, lon, time) coordinate per query kind.
type CachedQuery struct {
	backing Query
	cache   *lru.ARCCache

	mu    sync.Mutex
	hits  int64
	misses int64
}

// NewCachedQuery wraps backing with an ARC cache of the given capacity.
func NewCachedQuery(backing Query, capacity int) *CachedQuery {
	cache, _ := lru.NewARC(capacity)
	return &CachedQuery{backing: backing, cache: cache}
}

type cacheResult struct {
	f1, f2 float64
	b      bool
	err    error
}

func quantize(v float64) float64 {
	return float64(int(v/quantizeDeg)) * quantizeDeg
}

func (c *CachedQuery) key(kind string, lat, lon, t float64) string {
	bucket := float64(int(t / timeBucketSeconds))
	return fmt.Sprintf("%s:%.2f:%.2f:%.0f", kind, quantize(lat), quantize(lon), bucket)
}

func (c *CachedQuery) lookup(kind string, lat, lon, t float64, compute func() cacheResult) cacheResult {
	k := c.key(kind, lat, lon, t)
	if v, ok := c.cache.Get(k); ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return v.(cacheResult)
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()

	result := compute()
	if result.err == nil {
		c.cache.Add(k, result)
	}
	return result
}

func (c *CachedQuery) IsLand(lat, lon float64) (bool, error) {
	r := c.lookup("land", lat, lon, 0, func() cacheResult {
		v, err := c.backing.IsLand(lat, lon)
		return cacheResult{b: v, err: err}
	})
	return r.b, r.err
}

func (c *CachedQuery) Depth(lat, lon float64) (float64, error) {
	r := c.lookup("depth", lat, lon, 0, func() cacheResult {
		v, err := c.backing.Depth(lat, lon)
		return cacheResult{f1: v, err: err}
	})
	return r.f1, r.err
}

func (c *CachedQuery) WaveHeight(lat, lon, timeUnix float64) (float64, error) {
	r := c.lookup("wave", lat, lon, timeUnix, func() cacheResult {
		v, err := c.backing.WaveHeight(lat, lon, timeUnix)
		return cacheResult{f1: v, err: err}
	})
	return r.f1, r.err
}

func (c *CachedQuery) CurrentVector(lat, lon, timeUnix float64) (float64, float64, error) {
	r := c.lookup("current", lat, lon, timeUnix, func() cacheResult {
		east, north, err := c.backing.CurrentVector(lat, lon, timeUnix)
		return cacheResult{f1: east, f2: north, err: err}
	})
	return r.f1, r.f2, r.err
}

func (c *CachedQuery) StormRisk(lat, lon, timeUnix float64) (float64, error) {
	r := c.lookup("storm", lat, lon, timeUnix, func() cacheResult {
		v, err := c.backing.StormRisk(lat, lon, timeUnix)
		return cacheResult{f1: v, err: err}
	})
	return r.f1, r.err
}

func (c *CachedQuery) PiracyRisk(lat, lon float64) (float64, error) {
	r := c.lookup("piracy", lat, lon, 0, func() cacheResult {
		v, err := c.backing.PiracyRisk(lat, lon)
		return cacheResult{f1: v, err: err}
	})
	return r.f1, r.err
}

// HitRate returns the fraction of lookups served from cache.
func (c *CachedQuery) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
