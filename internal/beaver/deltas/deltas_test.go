package deltas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDelta_Accessors(t *testing.T) {
	d := New(3, -2)
	assert.Equal(t, 3, d.DpOffset())
	assert.Equal(t, -2, d.Delta())
}

func TestDataDeltas_UpdateDelta_CreatesAndAccumulates(t *testing.T) {
	var bag DataDeltas

	result := bag.UpdateDelta(1, 5)
	assert.Equal(t, 5, result)
	assert.Equal(t, 1, bag.NumDeltas())

	result = bag.UpdateDelta(1, 2)
	assert.Equal(t, 7, result)
	assert.Equal(t, 1, bag.NumDeltas())
}

func TestDataDeltas_UpdateDelta_RemovesOnCancel(t *testing.T) {
	var bag DataDeltas
	bag.UpdateDelta(4, 3)
	result := bag.UpdateDelta(4, -3)

	assert.Equal(t, 0, result)
	assert.Equal(t, 0, bag.NumDeltas())
	assert.Equal(t, 0, bag.ValueAt(4))
}

func TestDataDeltas_UpdateDelta_ZeroDeltaOnAbsentEntryIsNoop(t *testing.T) {
	var bag DataDeltas
	result := bag.UpdateDelta(7, 0)
	assert.Equal(t, 0, result)
	assert.Equal(t, 0, bag.NumDeltas())
}

func TestDataDeltas_AddDelta_FastPath(t *testing.T) {
	var bag DataDeltas
	bag.AddDelta(2, 9)
	require.Equal(t, 1, bag.NumDeltas())
	assert.Equal(t, 9, bag.ValueAt(2))

	bag.AddDelta(5, 0)
	assert.Equal(t, 1, bag.NumDeltas(), "zero-delta entries are never stored")
}

func TestDataDeltas_Bounds(t *testing.T) {
	var bag DataDeltas
	bag.AddDelta(-3, 1)
	bag.AddDelta(5, 1)
	bag.AddDelta(0, 1)

	assert.Equal(t, -3, bag.MinDpOffset())
	assert.Equal(t, 5, bag.MaxDpOffset())
}

func TestDataDeltas_Bounds_EmptyBagIsZero(t *testing.T) {
	var bag DataDeltas
	assert.Equal(t, 0, bag.MinDpOffset())
	assert.Equal(t, 0, bag.MaxDpOffset())
}

func TestDataDeltas_Clear(t *testing.T) {
	var bag DataDeltas
	bag.AddDelta(1, 1)
	bag.AddDelta(2, 1)
	bag.Clear()

	assert.Equal(t, 0, bag.NumDeltas())
	assert.Equal(t, 0, bag.MaxDpOffset())
}

func TestDataDeltas_All_ReflectsStorageOrder(t *testing.T) {
	var bag DataDeltas
	bag.AddDelta(1, 10)
	bag.AddDelta(2, 20)

	all := bag.All()
	require.Len(t, all, 2)
	assert.ElementsMatch(t, []int{1, 2}, []int{all[0].DpOffset(), all[1].DpOffset()})
}
