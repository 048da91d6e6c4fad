package geo

import (
	"container/list"
	"math"
	"sync"
)

// trigCacheCapacity bounds the shared cosine cache. Exceeding the bound
// evicts oldest entries; the cache can never grow memory unboundedly.
const trigCacheCapacity = 4096

// trigKeyScale quantizes angle inputs for cache keys: four decimal places
// of a degree (~11 m of latitude), well below any band-geometry feature.
const trigKeyScale = 1e4

// trigCache is a bounded, mutex-guarded LRU for cosines of latitudes.
// Safe for concurrent use by independent evaluation sessions.
type trigCache struct {
	mu   sync.Mutex
	cap  int
	lst  *list.List
	dict map[int64]*list.Element
}

type trigEntry struct {
	key int64
	val float64
}

func newTrigCache(capacity int) *trigCache {
	return &trigCache{
		cap:  capacity,
		lst:  list.New(),
		dict: make(map[int64]*list.Element, capacity),
	}
}

func (c *trigCache) get(key int64) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[key]; ok {
		c.lst.MoveToFront(e)
		return e.Value.(trigEntry).val, true
	}
	return 0, false
}

func (c *trigCache) put(key int64, val float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[key]; ok {
		c.lst.MoveToFront(e)
		return
	}
	e := c.lst.PushFront(trigEntry{key: key, val: val})
	c.dict[key] = e
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		if back == nil {
			break
		}
		delete(c.dict, back.Value.(trigEntry).key)
		c.lst.Remove(back)
	}
}

func (c *trigCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}

var sharedCosCache = newTrigCache(trigCacheCapacity)

// CosDeg returns the cosine of an angle given in degrees, memoized in a
// bounded shared cache keyed by the angle rounded to 1e-4 degrees. A miss
// recomputes, so the cache affects speed only.
func CosDeg(deg float64) float64 {
	key := int64(math.Round(deg * trigKeyScale))
	if v, ok := sharedCosCache.get(key); ok {
		return v
	}
	v := math.Cos(DegToRad(float64(key) / trigKeyScale))
	sharedCosCache.put(key, v)
	return v
}

// SinDeg returns the sine of an angle given in degrees through the same
// quantized cache as CosDeg.
func SinDeg(deg float64) float64 {
	return CosDeg(90 - deg)
}

// TrigCacheLen exposes the current cache occupancy for tests.
func TrigCacheLen() int { return sharedCosCache.len() }
