package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinbonsma/beaverfind/internal/beaver/hang"
)

func TestEnumerate_GeneratesOneCandidatePerInteriorAssignment(t *testing.T) {
	var candidates []Candidate
	Enumerate(3, 3, func(c Candidate) bool {
		candidates = append(candidates, c)
		return true
	})

	require.Len(t, candidates, len(freeCellKinds), "a 3x3 grid has exactly one interior cell")
	for _, c := range candidates {
		assert.Equal(t, 1, c.EntryX)
		assert.Equal(t, 1, c.EntryY)
		assert.Equal(t, hang.East, c.EntryHeading)
		assert.Equal(t, hang.Done, c.Grid.KindAt(0, 0), "border cells are always DONE")
		assert.Equal(t, hang.Done, c.Grid.KindAt(2, 2))
	}
}

func TestEnumerate_StopsEarlyWhenVisitReturnsFalse(t *testing.T) {
	calls := 0
	Enumerate(3, 3, func(c Candidate) bool {
		calls++
		return false
	})

	assert.Equal(t, 1, calls)
}
