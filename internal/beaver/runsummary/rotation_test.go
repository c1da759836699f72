package runsummary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeHistory []int

func (h fakeHistory) Len() int           { return len(h) }
func (h fakeHistory) UnitIDAt(i int) int { return h[i] }

func TestAreLoopsRotationEqual_SameSequenceIDShortCircuits(t *testing.T) {
	s := &Summary{}
	a := RunBlock{startIndex: 0, sequenceID: 7, loopPeriod: 3}
	b := RunBlock{startIndex: 100, sequenceID: 7, loopPeriod: 3}

	equal, offset := s.AreLoopsRotationEqual(fakeHistory{}, a, b)
	assert.True(t, equal)
	assert.Equal(t, 0, offset)
}

func TestAreLoopsRotationEqual_DifferentPeriodsNeverEqual(t *testing.T) {
	s := &Summary{}
	a := RunBlock{startIndex: 0, sequenceID: 1, loopPeriod: 3}
	b := RunBlock{startIndex: 0, sequenceID: 2, loopPeriod: 4}

	equal, offset := s.AreLoopsRotationEqual(fakeHistory{}, a, b)
	assert.False(t, equal)
	assert.Equal(t, 0, offset)
}

func TestAreLoopsRotationEqual_DetectsCyclicRotation(t *testing.T) {
	// Two occurrences of the same period-3 loop [1,2,3], the second one
	// phase-shifted: starting at index 6 it reads as [2,3,1], a rotation of
	// the first. Both stretches continue repeating their own phase so that
	// Booth's algorithm can read one extra period of lookahead.
	history := fakeHistory{1, 2, 3, 1, 2, 3, 2, 3, 1, 2, 3, 1}
	s := &Summary{}
	a := RunBlock{startIndex: 0, sequenceID: 10, loopPeriod: 3}
	b := RunBlock{startIndex: 6, sequenceID: 20, loopPeriod: 3}

	equal, offset := s.AreLoopsRotationEqual(history, a, b)
	require := assert.New(t)
	require.True(equal)
	require.Equal(1, offset)

	// Repeating the call must hit the memoized cache and agree.
	equal2, offset2 := s.AreLoopsRotationEqual(history, a, b)
	require.Equal(equal, equal2)
	require.Equal(offset, offset2)
}

func TestAreLoopsRotationEqual_RejectsNonRotation(t *testing.T) {
	history := fakeHistory{1, 2, 3, 1, 2, 3, 1, 1, 1, 1, 1, 1}
	s := &Summary{}
	a := RunBlock{startIndex: 0, sequenceID: 10, loopPeriod: 3}
	b := RunBlock{startIndex: 6, sequenceID: 30, loopPeriod: 3}

	equal, offset := s.AreLoopsRotationEqual(history, a, b)
	assert.False(t, equal)
	assert.Equal(t, 0, offset)
}
