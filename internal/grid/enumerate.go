package grid

import (
	"github.com/erwinbonsma/beaverfind/internal/beaver/hang"
)

// freeCellKinds are the instructions the enumerator assigns to interior
// cells; border cells are fixed to DONE, giving every candidate a
// guaranteed escape hatch and letting the no-exit checker's "falls off the
// grid" case coincide with "reaches a DONE cell".
var freeCellKinds = [3]hang.CellKind{hang.Noop, hang.Data, hang.Turn}

// Candidate is one fully assigned grid paired with its fixed entry point,
// ready to compile and execute.
type Candidate struct {
	Grid         *Grid
	EntryX       int
	EntryY       int
	EntryHeading hang.Heading
}

// Enumerate exhaustively generates every assignment of the interior cells
// of a width x height grid to {NOOP, DATA, TURN}, with border cells fixed
// to DONE and the program pointer entering at the top-left interior cell
// (1, 1) heading East. It calls visit once per candidate; Enumerate stops early if visit
// returns false.
//
// This reproduces only the combinatorial generation the core needs to be
// driven through realistic programs, not the original search's pruning
// optimizations (dead-code elimination, shift-rule equivalence classes),
// which are explicitly out of scope.
func Enumerate(width, height int, visit func(Candidate) bool) {
	g := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if isBorder(x, y, width, height) {
				g.Set(x, y, hang.Done)
			}
		}
	}

	interior := interiorCells(width, height)
	enumerateFrom(g, interior, 0, visit)
}

func isBorder(x, y, width, height int) bool {
	return x == 0 || y == 0 || x == width-1 || y == height-1
}

func interiorCells(width, height int) [][2]int {
	var cells [][2]int
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			cells = append(cells, [2]int{x, y})
		}
	}
	return cells
}

func enumerateFrom(g *Grid, interior [][2]int, i int, visit func(Candidate) bool) bool {
	if i == len(interior) {
		cand := Candidate{Grid: g, EntryX: 1, EntryY: 1, EntryHeading: hang.East}
		return visit(cand)
	}

	cell := interior[i]
	for _, kind := range freeCellKinds {
		g.Set(cell[0], cell[1], kind)
		if !enumerateFrom(g, interior, i+1, visit) {
			return false
		}
	}
	return true
}
