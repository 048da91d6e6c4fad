package poly

import (
	"math"

	"wavefront/internal/geo"
	"wavefront/internal/types"
)

// Polygon is an ordered, mutable ring of Positions. It owns its positions
// (the arena) and maintains derived bounding box and area caches that are
// kept current across mutation. The ring is treated as closed: the last
// position connects back to the first.
//
// Every mutation increments a content version counter; the spatial index
// cache keys off it, so stale grids are never consulted.
type Polygon struct {
	arena  map[int32]*Position
	order  []int32
	nextID int32

	cutCount int
	version  uint64

	bbox      geo.BoundingBox
	bboxValid bool

	areaCache   float64
	areaVersion uint64
	areaValid   bool
	// areaOverride lets fixtures pin the derived value.
	areaOverride *float64
}

// NewPolygon returns an empty polygon.
func NewPolygon() *Polygon {
	return &Polygon{
		arena:  make(map[int32]*Position),
		nextID: 1,
		bbox:   geo.EmptyBoundingBox(),
	}
}

// FromCoordinates builds a polygon from wire-level positions in order.
func FromCoordinates(pts []types.Position) *Polygon {
	p := NewPolygon()
	for _, pt := range pts {
		p.Add(pt.Lat, pt.Lng)
	}
	return p
}

// CreateNew returns an empty polygon sharing no state with the receiver.
// Split operations use it to grow the two sub-rings.
func (p *Polygon) CreateNew() *Polygon {
	return NewPolygon()
}

// Clone returns a deep copy: same coordinates, ids and cut bookkeeping,
// fully independent arena.
func (p *Polygon) Clone() *Polygon {
	out := NewPolygon()
	out.nextID = p.nextID
	out.order = append([]int32(nil), p.order...)
	for id, pos := range p.arena {
		out.arena[id] = pos.clone()
	}
	out.cutCount = p.cutCount
	out.bbox = p.bbox
	out.bboxValid = p.bboxValid
	if p.areaOverride != nil {
		v := *p.areaOverride
		out.areaOverride = &v
	}
	return out
}

// Size returns the number of positions in the ring.
func (p *Polygon) Size() int { return len(p.order) }

// CutSize returns the number of cut positions in the ring.
func (p *Polygon) CutSize() int { return p.cutCount }

// IsEmpty reports whether the ring has no positions.
func (p *Polygon) IsEmpty() bool { return len(p.order) == 0 }

// IsNotEmpty is the negation of IsEmpty.
func (p *Polygon) IsNotEmpty() bool { return !p.IsEmpty() }

// Version returns the content version counter; it increments on every
// mutation of the vertex set.
func (p *Polygon) Version() uint64 { return p.version }

// Get returns the position with the given id, or nil when absent.
func (p *Polygon) Get(id int32) *Position { return p.arena[id] }

// At returns the i-th position in ring order, or nil out of range.
func (p *Polygon) At(i int) *Position {
	if i < 0 || i >= len(p.order) {
		return nil
	}
	return p.arena[p.order[i]]
}

// First returns the first position of the ring, or nil when empty.
func (p *Polygon) First() *Position { return p.At(0) }

// Last returns the last position of the ring, or nil when empty.
func (p *Polygon) Last() *Position { return p.At(len(p.order) - 1) }

// IndexOf returns the ring index of the id, or -1 when absent.
func (p *Polygon) IndexOf(id int32) int {
	for i, oid := range p.order {
		if oid == id {
			return i
		}
	}
	return -1
}

// Next returns the ring successor of the position with the given id,
// wrapping from last to first. Nil when the id is absent or the ring is
// empty.
func (p *Polygon) Next(id int32) *Position {
	i := p.IndexOf(id)
	if i < 0 {
		return nil
	}
	return p.At((i + 1) % len(p.order))
}

// Prev returns the ring predecessor of the position with the given id,
// wrapping from first to last.
func (p *Polygon) Prev(id int32) *Position {
	i := p.IndexOf(id)
	if i < 0 {
		return nil
	}
	return p.At((i - 1 + len(p.order)) % len(p.order))
}

// Add appends a plain position to the end of the ring and returns it.
func (p *Polygon) Add(lat, lng float64) *Position {
	return p.Append(NewPosition(lat, lng))
}

// Append attaches an externally built position (plain or cut) to the end
// of the ring, assigning it an id, and returns it.
func (p *Polygon) Append(pos *Position) *Position {
	p.attach(pos)
	p.order = append(p.order, pos.ID)
	p.afterInsert(pos)
	return pos
}

// InsertBefore inserts pos immediately before the position with id atID.
// Returns false (and leaves the ring untouched) when atID is absent.
func (p *Polygon) InsertBefore(pos *Position, atID int32) bool {
	i := p.IndexOf(atID)
	if i < 0 {
		return false
	}
	p.attach(pos)
	p.order = append(p.order, 0)
	copy(p.order[i+1:], p.order[i:])
	p.order[i] = pos.ID
	p.afterInsert(pos)
	return true
}

// InsertAfter inserts pos immediately after the position with id atID.
func (p *Polygon) InsertAfter(pos *Position, atID int32) bool {
	i := p.IndexOf(atID)
	if i < 0 {
		return false
	}
	p.attach(pos)
	p.order = append(p.order, 0)
	copy(p.order[i+2:], p.order[i+1:])
	p.order[i+1] = pos.ID
	p.afterInsert(pos)
	return true
}

// Remove deletes the position with the given id. Removing an id that is
// not present is a no-op returning false; geometry algorithms routinely
// probe for ids that may already be gone.
func (p *Polygon) Remove(id int32) bool {
	i := p.IndexOf(id)
	if i < 0 {
		return false
	}
	pos := p.arena[id]
	p.order = append(p.order[:i], p.order[i+1:]...)
	delete(p.arena, id)
	if pos.IsCut() {
		p.cutCount--
	}
	p.version++
	// A removed vertex may have carried the bbox extremes; recompute
	// lazily on the next query.
	p.bboxValid = false
	p.areaValid = false
	return true
}

// attach normalizes the position's coordinates and assigns its arena id.
func (p *Polygon) attach(pos *Position) {
	pos.Lng = types.NormalizeLng(pos.Lng)
	pos.ID = p.nextID
	p.nextID++
	p.arena[pos.ID] = pos
}

func (p *Polygon) afterInsert(pos *Position) {
	if pos.IsCut() {
		p.cutCount++
	}
	p.version++
	p.areaValid = false
	if p.bboxValid || len(p.order) == 1 {
		p.bbox = p.bbox.ExpandToInclude(types.Position{Lat: pos.Lat, Lng: pos.Lng})
		p.bboxValid = true
	}
}

// BBox returns the bounding box of the ring, recomputing it only when a
// removal invalidated the incremental expansion.
func (p *Polygon) BBox() geo.BoundingBox {
	if p.IsEmpty() {
		return geo.EmptyBoundingBox()
	}
	if !p.bboxValid {
		b := geo.EmptyBoundingBox()
		for _, id := range p.order {
			pos := p.arena[id]
			b = b.ExpandToInclude(types.Position{Lat: pos.Lat, Lng: pos.Lng})
		}
		p.bbox = b
		p.bboxValid = true
	}
	return p.bbox
}

// Area returns the unsigned area of the ring in squared degrees (shoelace
// over a longitude frame unwrapped around the ring). Fixtures can pin the
// value with SetArea.
func (p *Polygon) Area() float64 {
	if p.areaOverride != nil {
		return *p.areaOverride
	}
	if !p.areaValid || p.areaVersion != p.version {
		p.areaCache = math.Abs(p.signedArea())
		p.areaVersion = p.version
		p.areaValid = true
	}
	return p.areaCache
}

// SetArea pins the derived area to an explicit value (test fixtures).
func (p *Polygon) SetArea(v float64) {
	p.areaOverride = &v
}

// ClearAreaOverride reverts Area to the derived value.
func (p *Polygon) ClearAreaOverride() {
	p.areaOverride = nil
}

// IsClockwise reports whether the ring winds clockwise (negative signed
// area in a lat/lng plane with longitude as x).
func (p *Polygon) IsClockwise() bool {
	return p.signedArea() < 0
}

// signedArea is the shoelace sum over ring vertices, with each longitude
// unwrapped relative to its predecessor so antimeridian-crossing rings
// compute correctly.
func (p *Polygon) signedArea() float64 {
	n := len(p.order)
	if n < 3 {
		return 0
	}
	area := 0.0
	prevX := p.arena[p.order[0]].Lng
	xs := make([]float64, n)
	xs[0] = prevX
	for i := 1; i < n; i++ {
		pos := p.arena[p.order[i]]
		prevX += geo.LngDelta(types.NormalizeLng(prevX), pos.Lng)
		xs[i] = prevX
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := xs[i], p.arena[p.order[i]].Lat
		xj, yj := xs[j], p.arena[p.order[j]].Lat
		if j == 0 {
			// Close the ring in the unwrapped frame.
			xj = xs[n-1] + geo.LngDelta(types.NormalizeLng(xs[n-1]), xs[0])
		}
		area += xi*yj - xj*yi
	}
	return area / 2
}

// Positions returns the ring's positions in order. The slice is fresh but
// the elements are the polygon's own; treat them as read-only.
func (p *Polygon) Positions() []*Position {
	out := make([]*Position, len(p.order))
	for i, id := range p.order {
		out[i] = p.arena[id]
	}
	return out
}

// Coordinates returns the ring as wire-level positions.
func (p *Polygon) Coordinates() []types.Position {
	out := make([]types.Position, len(p.order))
	for i, id := range p.order {
		pos := p.arena[id]
		out[i] = types.Position{Lat: pos.Lat, Lng: pos.Lng}
	}
	return out
}

// UnionBBox returns the smallest box covering every polygon in the set.
func UnionBBox(polys []*Polygon) geo.BoundingBox {
	out := geo.EmptyBoundingBox()
	for _, p := range polys {
		out = out.Union(p.BBox())
	}
	return out
}
