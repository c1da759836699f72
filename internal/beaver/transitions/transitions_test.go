package transitions

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_RecordAccumulatesCount(t *testing.T) {
	tb := New(DefaultCapacity)
	tb.Record(1, 2)
	tb.Record(1, 2)
	tb.Record(1, 3)

	assert.Equal(t, 2, tb.Count(1, 2))
	assert.Equal(t, 1, tb.Count(1, 3))
}

func TestTable_CountIsZeroForUnobservedPair(t *testing.T) {
	tb := New(DefaultCapacity)
	tb.Record(1, 2)

	assert.Equal(t, 0, tb.Count(1, 99))
	assert.Equal(t, 0, tb.Count(42, 2), "an unseen source sequenceId has no entries at all")
}

func TestTable_New_NonPositiveCapacityUsesDefault(t *testing.T) {
	tb := New(0)
	assert.Equal(t, DefaultCapacity, tb.capacity)

	tb = New(-3)
	assert.Equal(t, DefaultCapacity, tb.capacity)
}

func TestTable_Destinations_TracksDistinctSources(t *testing.T) {
	tb := New(DefaultCapacity)
	tb.Record(1, 2)
	tb.Record(1, 3)
	tb.Record(5, 9)

	dests := tb.Destinations(1)
	sort.Ints(dests)
	assert.Equal(t, []int{2, 3}, dests)

	assert.Equal(t, []int{9}, tb.Destinations(5))
	assert.Nil(t, tb.Destinations(404))
}

func TestTable_EvictsLeastRecentlySeenBeyondCapacity(t *testing.T) {
	tb := New(2)
	tb.Record(1, 100)
	tb.Record(1, 200)
	tb.Record(1, 300) // evicts 100, the least-recently-seen destination

	assert.Equal(t, 0, tb.Count(1, 100))
	assert.Equal(t, 1, tb.Count(1, 200))
	assert.Equal(t, 1, tb.Count(1, 300))

	dests := tb.Destinations(1)
	sort.Ints(dests)
	assert.Equal(t, []int{200, 300}, dests)
}

func TestTable_RecordTouchingADestinationRefreshesItsRecency(t *testing.T) {
	tb := New(2)
	tb.Record(1, 100)
	tb.Record(1, 200)
	tb.Record(1, 100) // re-access 100, so 200 becomes the least-recently-seen
	tb.Record(1, 300) // evicts 200, not 100

	assert.Equal(t, 2, tb.Count(1, 100))
	assert.Equal(t, 0, tb.Count(1, 200))
	assert.Equal(t, 1, tb.Count(1, 300))
}
