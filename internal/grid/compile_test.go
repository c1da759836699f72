package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinbonsma/beaverfind/internal/beaver/hang"
)

func TestCompile_DataCellLeadingDirectlyToExit(t *testing.T) {
	g := New(2, 1)
	g.Set(0, 0, hang.Data)
	g.Set(1, 0, hang.Done)

	_, entry, positions := Compile(g, 0, 0, hang.East)

	require.True(t, entry.IsFinalized())
	assert.True(t, entry.IsDelta())
	assert.Equal(t, 1, entry.Amount())
	require.NotNil(t, entry.ZeroBlock())
	assert.True(t, entry.ZeroBlock().IsExit())
	assert.Same(t, entry.ZeroBlock(), entry.NonZeroBlock())

	x, y, heading, ok := positions.Locate(entry.Index())
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, hang.East, heading)
}

func TestCompile_NoopChainResolvesThroughToData(t *testing.T) {
	g := New(3, 1)
	g.Set(0, 0, hang.Noop)
	g.Set(1, 0, hang.Data)
	g.Set(2, 0, hang.Done)

	arena, entry, _ := Compile(g, 0, 0, hang.East)

	assert.False(t, entry.IsDelta(), "the entry is the NOOP's shift step")
	require.NotNil(t, entry.ZeroBlock())
	dataBlock := entry.ZeroBlock()
	assert.Same(t, dataBlock, entry.NonZeroBlock())
	assert.True(t, dataBlock.IsDelta())
	assert.GreaterOrEqual(t, arena.Len(), 2)
}

func TestCompile_UnknownEntryCellIsUnfinalized(t *testing.T) {
	g := New(2, 1)
	g.Set(0, 0, hang.Turn)
	g.Set(1, 0, hang.Done)

	_, entry, _ := Compile(g, 0, 0, hang.East)

	assert.False(t, entry.IsFinalized(), "a TURN cell as an entry point is malformed")
}

func TestCompile_OffGridStepIsUnfinalized(t *testing.T) {
	// A DATA cell at the grid's edge whose successor step falls outside
	// the grid resolves to an unfinalized block, the same PROGRAM_ERROR
	// escape as an UNSET interior cell.
	g := New(1, 1)
	g.Set(0, 0, hang.Data)

	_, entry, _ := Compile(g, 0, 0, hang.East)

	require.NotNil(t, entry.ZeroBlock())
	assert.False(t, entry.ZeroBlock().IsFinalized())
	assert.Same(t, entry.ZeroBlock(), entry.NonZeroBlock())
}
