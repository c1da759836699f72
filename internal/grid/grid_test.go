package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erwinbonsma/beaverfind/internal/beaver/hang"
)

func TestGrid_SetAndKindAt(t *testing.T) {
	g := New(3, 2)
	g.Set(1, 0, hang.Data)
	g.Set(2, 1, hang.Turn)

	assert.Equal(t, hang.Data, g.KindAt(1, 0))
	assert.Equal(t, hang.Turn, g.KindAt(2, 1))
	assert.Equal(t, hang.Unset, g.KindAt(0, 0))
}

func TestGrid_KindAt_OutOfBoundsIsUnset(t *testing.T) {
	g := New(2, 2)
	assert.Equal(t, hang.Unset, g.KindAt(-1, 0))
	assert.Equal(t, hang.Unset, g.KindAt(2, 0))
	assert.Equal(t, hang.Unset, g.KindAt(0, 2))
}

func TestGrid_Set_PanicsOutOfBounds(t *testing.T) {
	g := New(2, 2)
	assert.Panics(t, func() { g.Set(2, 0, hang.Noop) })
}

func TestGrid_TurnHeading(t *testing.T) {
	g := New(1, 1)
	assert.Equal(t, hang.East, g.TurnHeading(0, 0, hang.North, true))
	assert.Equal(t, hang.West, g.TurnHeading(0, 0, hang.North, false))
}

func TestGrid_HashIsStableAndDistinguishesLayouts(t *testing.T) {
	g1 := New(2, 2)
	g1.Set(0, 0, hang.Data)
	g2 := New(2, 2)
	g2.Set(0, 0, hang.Data)
	g3 := New(2, 2)
	g3.Set(1, 1, hang.Data)

	assert.Equal(t, g1.Hash(), g2.Hash())
	assert.NotEqual(t, g1.Hash(), g3.Hash())
}
