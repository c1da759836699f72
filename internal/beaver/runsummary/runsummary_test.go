package runsummary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
)

func newTestArena(n int) *program.Arena {
	arena := program.NewArena()
	for i := 0; i < n; i++ {
		arena.Add()
	}
	return arena
}

func TestRunSummary_NoLoopUntilSecondRepetition(t *testing.T) {
	rs := NewRunSummary(newTestArena(2))

	assert.False(t, rs.RecordProgramBlock(0))
	assert.False(t, rs.RecordProgramBlock(1))
	assert.False(t, rs.RecordProgramBlock(0))
	assert.False(t, rs.IsInsideLoop())
}

func TestRunSummary_DetectsLoopOnSecondFullRepetition(t *testing.T) {
	rs := NewRunSummary(newTestArena(2))
	rs.RecordProgramBlock(0)
	rs.RecordProgramBlock(1)
	rs.RecordProgramBlock(0)

	created := rs.RecordProgramBlock(1)

	require.True(t, created, "the second full [0 1] repetition should close a loop run block")
	require.True(t, rs.IsInsideLoop())
	require.Equal(t, 1, rs.NumRunBlocks())
	last := rs.LastRunBlock()
	assert.True(t, last.IsLoop())
	assert.Equal(t, 2, last.LoopPeriod())
	assert.Equal(t, 0, last.StartIndex())
}

func TestRunSummary_LoopIterationAdvancesWhileMatching(t *testing.T) {
	rs := NewRunSummary(newTestArena(2))
	rs.RecordProgramBlock(0)
	rs.RecordProgramBlock(1)
	rs.RecordProgramBlock(0)
	rs.RecordProgramBlock(1)

	assert.Equal(t, 2, rs.LoopIteration())
	assert.True(t, rs.IsAtEndOfLoop())

	rs.RecordProgramBlock(0)
	assert.False(t, rs.IsAtEndOfLoop(), "mid-iteration after an odd number of extra units")
}

func TestRunSummary_LoopBreaksOnMismatch(t *testing.T) {
	rs := NewRunSummary(newTestArena(3))
	rs.RecordProgramBlock(0)
	rs.RecordProgramBlock(1)
	rs.RecordProgramBlock(0)
	rs.RecordProgramBlock(1)
	require.True(t, rs.IsInsideLoop())

	rs.RecordProgramBlock(2)
	assert.False(t, rs.IsInsideLoop(), "a block that doesn't match the loop's next expected unit breaks it")
}

func TestRunSummary_SameLoopSequenceSharesSequenceID(t *testing.T) {
	rs := NewRunSummary(newTestArena(2))
	for i := 0; i < 4; i++ {
		rs.RecordProgramBlock(0)
		rs.RecordProgramBlock(1)
	}
	require.GreaterOrEqual(t, rs.NumRunBlocks(), 1)
	firstID := rs.RunBlockAt(0).SequenceID()

	rs2 := NewRunSummary(newTestArena(2))
	for i := 0; i < 4; i++ {
		rs2.RecordProgramBlock(0)
		rs2.RecordProgramBlock(1)
	}
	secondID := rs2.RunBlockAt(0).SequenceID()

	assert.Equal(t, firstID, secondID, "identical loop bodies get the same canonical sequenceID from independent tries")
}

func TestRunSummary_BlocksForRunBlock(t *testing.T) {
	arena := newTestArena(2)
	rs := NewRunSummary(arena)
	rs.RecordProgramBlock(0)
	rs.RecordProgramBlock(1)
	rs.RecordProgramBlock(0)
	rs.RecordProgramBlock(1)

	blocks := rs.BlocksForRunBlock(0)
	require.Len(t, blocks, 2)
	assert.Equal(t, 0, blocks[0].Index())
	assert.Equal(t, 1, blocks[1].Index())
}

func TestRunSummary_Reset(t *testing.T) {
	rs := NewRunSummary(newTestArena(2))
	rs.RecordProgramBlock(0)
	rs.RecordProgramBlock(1)
	rs.RecordProgramBlock(0)
	rs.RecordProgramBlock(1)
	require.Equal(t, 1, rs.NumRunBlocks())

	rs.Reset()
	assert.Equal(t, 0, rs.NumRunBlocks())
	assert.Equal(t, 0, rs.NumUnitsProcessed())
	assert.False(t, rs.IsInsideLoop())
}
