package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardAndReverseIteration(t *testing.T) {
	p := square(0, 0, 1)

	var fwd []int32
	for it := p.Iterator(); it.HasNext(); {
		fwd = append(fwd, it.Next().ID)
	}
	assert.Equal(t, ringIDs(p), fwd)

	var rev []int32
	for it := p.ReverseIterator(); it.HasNext(); {
		rev = append(rev, it.Next().ID)
	}
	require.Len(t, rev, 4)
	for i := range fwd {
		assert.Equal(t, fwd[i], rev[len(rev)-1-i])
	}
}

func TestIteratorExhaustion(t *testing.T) {
	p := NewPolygon()
	it := p.Iterator()
	assert.False(t, it.HasNext())
	assert.Nil(t, it.Next())
}

func TestLoopIteratorCycles(t *testing.T) {
	p := square(0, 0, 1)
	it := p.LoopIterator()

	// Two full revolutions yield the ring twice in order.
	var ids []int32
	for i := 0; i < 8; i++ {
		ids = append(ids, it.Next().ID)
	}
	want := append(ringIDs(p), ringIDs(p)...)
	assert.Equal(t, want, ids)
}

func TestLoopIteratorAt(t *testing.T) {
	p := square(0, 0, 1)
	it := p.LoopIteratorAt(2)
	assert.Equal(t, p.At(2).ID, it.Next().ID)
	assert.Equal(t, p.At(3).ID, it.Next().ID)
	assert.Equal(t, p.At(0).ID, it.Next().ID)

	// Negative start indexes wrap too.
	it = p.LoopIteratorAt(-1)
	assert.Equal(t, p.At(3).ID, it.Next().ID)
}

func TestLoopIteratorEmpty(t *testing.T) {
	p := NewPolygon()
	assert.Nil(t, p.LoopIterator().Next())
}

func TestCutIteratorVisitsOnlyCuts(t *testing.T) {
	p := square(0, 0, 1)
	a, b := p.At(0), p.At(1)
	c1 := NewCutPosition(0, 0.25, 1, a.ID, b.ID)
	c2 := NewCutPosition(0, 0.75, 2, a.ID, b.ID)
	require.True(t, p.InsertAfter(c1, a.ID))
	require.True(t, p.InsertAfter(c2, c1.ID))

	var seen []int32
	for it := p.CutIterator(); it.HasNext(); {
		seen = append(seen, it.Next().ID)
	}
	assert.Equal(t, []int32{c1.ID, c2.ID}, seen)
}

func TestCutIteratorRemove(t *testing.T) {
	p := square(0, 0, 1)
	a, b := p.At(0), p.At(1)
	c1 := NewCutPosition(0, 0.25, 1, a.ID, b.ID)
	c2 := NewCutPosition(0, 0.75, 2, a.ID, b.ID)
	require.True(t, p.InsertAfter(c1, a.ID))
	require.True(t, p.InsertAfter(c2, c1.ID))

	it := p.CutIterator()
	assert.False(t, it.Remove(), "Remove before Next is a no-op")

	require.NotNil(t, it.Next())
	assert.True(t, it.Remove())
	assert.Equal(t, 1, p.CutSize())
	assert.False(t, it.Remove(), "double remove is a no-op")

	require.NotNil(t, it.Next())
	assert.True(t, it.Remove())
	assert.Equal(t, 0, p.CutSize())
	assert.Equal(t, 4, p.Size())
	assert.False(t, it.HasNext())
}
