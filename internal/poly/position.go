// Package poly implements the polygon data model of the wavefront engine:
// an arena of identified positions forming a mutable ring, iterators over
// it, point-in-polygon tests (exact and grid-accelerated) and the GeoJSON
// boundary adapter.
//
// A Polygon owns its positions; prev/next relations are id links into the
// owning polygon's arena rather than raw pointers, so a closed ring has no
// cyclic ownership.
package poly

// Position is a vertex in a polygon ring. The ID is assigned when the
// position is inserted into a polygon and is stable for the lifetime of
// the owning polygon; it is the basis for equality in cut-removal and
// subset operations.
//
// A position is either plain or a cut: a cut position was synthesized
// where a cut line crossed a polygon edge, and records the two neighboring
// positions it was inserted between plus a cut id shared with the paired
// cut on the matching side of the split.
type Position struct {
	ID  int32
	Lat float64
	Lng float64

	cut *CutInfo
}

// CutInfo is the extra state carried by a cut position.
type CutInfo struct {
	// CutID pairs this cut with its twin on the other sub-polygon of a
	// split. Both twins share the same CutID.
	CutID int32

	// LeftID and RightID identify the two positions the cut lies between
	// in the ring it was inserted into. The cut's coordinates lie on the
	// segment (left, right) within epsilon.
	LeftID  int32
	RightID int32
}

// NewPosition creates an unattached plain position. The owning polygon
// assigns the ID on insertion.
func NewPosition(lat, lng float64) *Position {
	return &Position{Lat: lat, Lng: lng}
}

// NewCutPosition creates an unattached cut position lying between the two
// given neighbor ids.
func NewCutPosition(lat, lng float64, cutID, leftID, rightID int32) *Position {
	return &Position{
		Lat: lat,
		Lng: lng,
		cut: &CutInfo{CutID: cutID, LeftID: leftID, RightID: rightID},
	}
}

// IsCut reports whether the position was synthesized by a cut operation.
func (p *Position) IsCut() bool { return p.cut != nil }

// Cut returns the cut bookkeeping, or nil for a plain position.
func (p *Position) Cut() *CutInfo { return p.cut }

// clone returns a detached copy of the position, cut info included.
func (p *Position) clone() *Position {
	out := &Position{ID: p.ID, Lat: p.Lat, Lng: p.Lng}
	if p.cut != nil {
		c := *p.cut
		out.cut = &c
	}
	return out
}
