package poly

// Iterator walks the ring once, forward or reverse. Mutating the polygon
// while iterating is undefined except through CutIterator.Remove.
type Iterator struct {
	p       *Polygon
	i       int
	reverse bool
}

// Iterator returns a forward iterator over the ring.
func (p *Polygon) Iterator() *Iterator {
	return &Iterator{p: p}
}

// ReverseIterator returns an iterator walking the ring from last to first.
func (p *Polygon) ReverseIterator() *Iterator {
	return &Iterator{p: p, i: p.Size() - 1, reverse: true}
}

// HasNext reports whether Next will return a position.
func (it *Iterator) HasNext() bool {
	if it.reverse {
		return it.i >= 0
	}
	return it.i < it.p.Size()
}

// Next returns the next position, or nil when exhausted.
func (it *Iterator) Next() *Position {
	if !it.HasNext() {
		return nil
	}
	pos := it.p.At(it.i)
	if it.reverse {
		it.i--
	} else {
		it.i++
	}
	return pos
}

// LoopIterator treats the ring as cyclic: Next after the last element
// returns the first again, indefinitely. Used by viewers that walk a
// closed boundary from an arbitrary starting point.
type LoopIterator struct {
	p *Polygon
	i int
}

// LoopIterator returns a cyclic iterator starting at the first position.
func (p *Polygon) LoopIterator() *LoopIterator {
	return &LoopIterator{p: p}
}

// LoopIteratorAt returns a cyclic iterator starting at the given ring
// index (modulo size).
func (p *Polygon) LoopIteratorAt(start int) *LoopIterator {
	it := &LoopIterator{p: p}
	if n := p.Size(); n > 0 {
		it.i = ((start % n) + n) % n
	}
	return it
}

// Next returns the current position and advances cyclically. Nil only for
// an empty polygon.
func (it *LoopIterator) Next() *Position {
	n := it.p.Size()
	if n == 0 {
		return nil
	}
	pos := it.p.At(it.i)
	it.i = (it.i + 1) % n
	return pos
}

// CutIterator walks only the cut positions of the ring, in ring order, and
// supports removing the position it last returned. The set of cut ids is
// snapshotted at construction; cuts added afterwards are not visited.
type CutIterator struct {
	p      *Polygon
	ids    []int32
	i      int
	lastID int32
	seen   bool
}

// CutIterator returns an iterator over the ring's cut positions.
func (p *Polygon) CutIterator() *CutIterator {
	it := &CutIterator{p: p, lastID: -1}
	for _, id := range p.order {
		if p.arena[id].IsCut() {
			it.ids = append(it.ids, id)
		}
	}
	return it
}

// HasNext reports whether any snapshotted cut position remains, skipping
// ids removed since the snapshot.
func (it *CutIterator) HasNext() bool {
	for it.i < len(it.ids) {
		if it.p.Get(it.ids[it.i]) != nil {
			return true
		}
		it.i++
	}
	return false
}

// Next returns the next cut position, or nil when exhausted.
func (it *CutIterator) Next() *Position {
	if !it.HasNext() {
		return nil
	}
	id := it.ids[it.i]
	it.i++
	it.lastID = id
	it.seen = true
	return it.p.Get(id)
}

// Remove deletes the position last returned by Next from the polygon.
// Returns false when Next has not been called or the position is already
// gone.
func (it *CutIterator) Remove() bool {
	if !it.seen {
		return false
	}
	return it.p.Remove(it.lastID)
}
