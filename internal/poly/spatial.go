package poly

import (
	"sync"

	"wavefront/internal/geo"
	"wavefront/internal/types"
)

// Spatial acceleration for point-in-polygon queries: the polygon's
// latitude extent is partitioned into grid rows and each edge is bucketed
// into every row its latitude span overlaps. A query then ray-casts only
// against the edges bucketed in its row. The optimization changes
// complexity, not semantics: results are identical to ContainsPosition for
// all inputs.

const (
	// DefaultGridSize is the number of grid rows for typical polygons.
	DefaultGridSize = 32

	// PolygonSizeDivisor scales the grid up for very large polygons: a
	// polygon with more than DefaultGridSize*PolygonSizeDivisor vertices
	// gets size/PolygonSizeDivisor rows, capped at MaxGridSize.
	PolygonSizeDivisor = 64

	// MaxGridSize caps the grid so a pathological polygon cannot build an
	// unbounded index.
	MaxGridSize = 256

	// indexCacheCapacity bounds how many polygon grids stay memoized.
	indexCacheCapacity = 128
)

type gridEdge struct {
	aLat, aLng float64
	bLat, bLng float64
}

type spatialIndex struct {
	version   uint64
	minLat    float64
	rowHeight float64
	rows      [][]gridEdge
}

// gridRows picks the row count for a polygon of n vertices.
func gridRows(n int) int {
	rows := DefaultGridSize
	if n > DefaultGridSize*PolygonSizeDivisor {
		rows = n / PolygonSizeDivisor
		if rows > MaxGridSize {
			rows = MaxGridSize
		}
	}
	return rows
}

func buildSpatialIndex(p *Polygon) *spatialIndex {
	n := p.Size()
	bbox := p.BBox()
	rows := gridRows(n)
	idx := &spatialIndex{
		version: p.Version(),
		minLat:  bbox.MinLat - geo.CoordinateEpsilon,
		rows:    make([][]gridEdge, rows),
	}
	span := bbox.Height() + 2*geo.CoordinateEpsilon
	if span <= 0 {
		span = geo.CoordinateEpsilon
	}
	idx.rowHeight = span / float64(rows)

	for i := 0; i < n; i++ {
		a := p.At(i)
		b := p.At((i + 1) % n)
		e := gridEdge{aLat: a.Lat, aLng: a.Lng, bLat: b.Lat, bLng: b.Lng}
		lo, hi := a.Lat, b.Lat
		if lo > hi {
			lo, hi = hi, lo
		}
		// A boundary-epsilon slack keeps on-edge queries in range.
		first := idx.rowFor(lo - geo.CoordinateEpsilon)
		last := idx.rowFor(hi + geo.CoordinateEpsilon)
		for r := first; r <= last; r++ {
			idx.rows[r] = append(idx.rows[r], e)
		}
	}
	return idx
}

func (idx *spatialIndex) rowFor(lat float64) int {
	r := int((lat - idx.minLat) / idx.rowHeight)
	if r < 0 {
		return 0
	}
	if r >= len(idx.rows) {
		return len(idx.rows) - 1
	}
	return r
}

func (idx *spatialIndex) contains(pt types.Position) bool {
	inside := false
	for _, e := range idx.rows[idx.rowFor(pt.Lat)] {
		hit, onEdge := edgeTest(pt.Lat, pt.Lng, e.aLat, e.aLng, e.bLat, e.bLng)
		if onEdge {
			return true
		}
		if hit {
			inside = !inside
		}
	}
	return inside
}

// IndexCache memoizes spatial grids per polygon, keyed by the polygon's
// content version so a mutated polygon never serves a stale grid. The
// cache is bounded and safe for concurrent use by independent sessions; a
// full cache evicts an arbitrary entry (a miss only costs a rebuild).
type IndexCache struct {
	mu      sync.Mutex
	cap     int
	entries map[*Polygon]*spatialIndex
}

// NewIndexCache returns a bounded spatial index cache.
func NewIndexCache(capacity int) *IndexCache {
	return &IndexCache{cap: capacity, entries: make(map[*Polygon]*spatialIndex)}
}

func (c *IndexCache) indexFor(p *Polygon) *spatialIndex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.entries[p]; ok && idx.version == p.Version() {
		return idx
	}
	idx := buildSpatialIndex(p)
	if len(c.entries) >= c.cap {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[p] = idx
	return idx
}

// Contains is the grid-accelerated containment test through this cache.
func (c *IndexCache) Contains(p *Polygon, pt types.Position) bool {
	n := p.Size()
	if n < 3 {
		return false
	}
	if !p.BBox().Contains(pt) {
		return false
	}
	return c.indexFor(p).contains(pt)
}

// Clear drops every memoized grid.
func (c *IndexCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[*Polygon]*spatialIndex)
}

// Len reports the number of memoized grids (tests).
func (c *IndexCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var sharedIndexCache = NewIndexCache(indexCacheCapacity)

// ContainsPositionOptimized is the grid-accelerated equivalent of
// ContainsPosition, memoizing grids in a shared bounded cache.
func ContainsPositionOptimized(p *Polygon, pt types.Position) bool {
	return sharedIndexCache.Contains(p, pt)
}

// ClearSpatialIndexCache invalidates every memoized grid in the shared
// cache. Grids are additionally keyed by polygon content version, so this
// is a memory-release lever rather than a correctness requirement.
func ClearSpatialIndexCache() {
	sharedIndexCache.Clear()
}
