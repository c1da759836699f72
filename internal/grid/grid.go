// Package grid implements the 2D instruction grid that the core analysis
// packages treat as an opaque external collaborator: a minimal program
// representation, a compiler from grid to the core's program-block arena,
// and an exhaustive small-grid enumerator. None of this is specified by
// the hang-analysis core itself — it exists only to drive that core
// through realistic programs.
package grid

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/erwinbonsma/beaverfind/internal/beaver/hang"
)

// Grid is a fixed-size rectangle of instruction cells. Coordinates outside
// [0,width) x [0,height) read as hang.Unset, matching the "falling off the
// grid" escape the no-exit checker looks for.
type Grid struct {
	width, height int
	cells         []hang.CellKind
}

// New returns a width x height grid with every interior cell Unset.
func New(width, height int) *Grid {
	return &Grid{width: width, height: height, cells: make([]hang.CellKind, width*height)}
}

// Width returns the grid's column count.
func (g *Grid) Width() int { return g.width }

// Height returns the grid's row count.
func (g *Grid) Height() int { return g.height }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Set assigns the instruction at (x, y). Panics if out of bounds.
func (g *Grid) Set(x, y int, k hang.CellKind) {
	if !g.inBounds(x, y) {
		panic("grid: coordinate out of bounds")
	}
	g.cells[y*g.width+x] = k
}

// KindAt implements hang.Grid.
func (g *Grid) KindAt(x, y int) hang.CellKind {
	if !g.inBounds(x, y) {
		return hang.Unset
	}
	return g.cells[y*g.width+x]
}

// TurnHeading implements hang.Grid: a TURN cell turns the pointer clockwise
// when the current data value is zero, counter-clockwise otherwise.
func (g *Grid) TurnHeading(x, y int, heading hang.Heading, dataIsZero bool) hang.Heading {
	if dataIsZero {
		return hang.Heading((int(heading) + 1) % 4)
	}
	return hang.Heading((int(heading) + 3) % 4)
}

// String renders the grid for debugging, one character per cell.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			sb.WriteByte(glyphFor(g.KindAt(x, y)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func glyphFor(k hang.CellKind) byte {
	switch k {
	case hang.Noop:
		return '_'
	case hang.Data:
		return '*'
	case hang.Turn:
		return '+'
	case hang.Done:
		return '@'
	default:
		return ' '
	}
}

// Signature returns a stable textual encoding of the grid's size and every
// cell, border included, suitable for hashing into a resume/results key.
func (g *Grid) Signature() string {
	return fmt.Sprintf("%dx%d:%s", g.width, g.height, g.String())
}

// Hash returns a blake2b-256 digest of Signature, the key used throughout
// the resume store, results ledger and batch cache to identify a grid
// without storing its full layout.
func (g *Grid) Hash() [32]byte {
	return blake2b.Sum256([]byte(g.Signature()))
}
