package grid

import (
	"github.com/erwinbonsma/beaverfind/internal/beaver/hang"
	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
)

// maxTurnChain bounds how many consecutive TURN cells Compile will follow
// without crossing a DATA/NOOP/DONE cell before concluding the grid
// contains a static turn cycle that can never make progress.
const maxTurnChain = 4096

type compileState struct {
	x, y    int
	heading hang.Heading
}

type compiler struct {
	g         *Grid
	arena     *program.Arena
	memo      map[compileState]*program.Block
	positions map[int]compileState
	exit      *program.Block
	dead      *program.Block // shared un-finalized target for UNSET/off-grid steps
}

// Positions implements hang.BlockLocator, mapping a compiled block's stable
// index back to the grid coordinate and heading Compile found it at. It lets
// a hang.NoExitChecker be driven from a HangExecutor's current block without
// the executor needing to track grid coordinates itself.
type Positions struct {
	byIndex map[int]compileState
}

// Locate implements hang.BlockLocator.
func (p Positions) Locate(blockIndex int) (x, y int, heading hang.Heading, ok bool) {
	s, ok := p.byIndex[blockIndex]
	if !ok {
		return 0, 0, 0, false
	}
	return s.x, s.y, s.heading, true
}

// Compile builds the program-block graph reachable from (entryX, entryY)
// facing entryHeading. It returns the arena, the entry block, and the
// locator mapping every compiled block back to its grid coordinate.
func Compile(g *Grid, entryX, entryY int, entryHeading hang.Heading) (*program.Arena, *program.Block, Positions) {
	c := &compiler{
		g:         g,
		arena:     program.NewArena(),
		memo:      make(map[compileState]*program.Block),
		positions: make(map[int]compileState),
	}
	c.exit = c.arena.Add()
	c.exit.FinalizeExit(0)

	entry := c.block(compileState{x: entryX, y: entryY, heading: entryHeading})
	return c.arena, entry, Positions{byIndex: c.positions}
}

// block returns the compiled block starting at state, compiling it (and
// recursively, its successors) on first visit. The memo entry is
// registered before recursing so that loops in the grid compile to a
// cyclic block graph rather than looping Compile itself.
func (c *compiler) block(state compileState) *program.Block {
	if b, ok := c.memo[state]; ok {
		return b
	}

	b := c.arena.Add()
	c.memo[state] = b
	c.positions[b.Index()] = state

	switch c.g.KindAt(state.x, state.y) {
	case hang.Noop:
		nx, ny := state.heading.Step(state.x, state.y)
		zero := c.resolve(nx, ny, state.heading, true)
		nonZero := c.resolve(nx, ny, state.heading, false)
		b.Finalize(false, 1, 1, zero, nonZero)
	case hang.Data:
		nx, ny := state.heading.Step(state.x, state.y)
		zero := c.resolve(nx, ny, state.heading, true)
		nonZero := c.resolve(nx, ny, state.heading, false)
		b.Finalize(true, 1, 1, zero, nonZero)
	case hang.Done:
		b.FinalizeExit(1)
	default:
		// TURN or UNSET as an entry point is malformed: the interpreter
		// will observe an un-finalized block and report PROGRAM_ERROR.
	}

	return b
}

// resolve walks from (x, y, heading) through any chain of TURN cells,
// using the fixed dataIsZero value the originating step observed, until it
// reaches the next DATA/NOOP block, a DONE cell (returning the shared exit
// block), an UNSET cell or the grid's edge (returning the shared
// not-finalized block, surfacing as PROGRAM_ERROR), or a static turn cycle
// (returning a block finalized as a hang).
func (c *compiler) resolve(x, y int, heading hang.Heading, dataIsZero bool) *program.Block {
	for i := 0; i < maxTurnChain; i++ {
		switch c.g.KindAt(x, y) {
		case hang.Turn:
			heading = c.g.TurnHeading(x, y, heading, dataIsZero)
			x, y = heading.Step(x, y)
		case hang.Done:
			return c.exit
		case hang.Noop, hang.Data:
			return c.block(compileState{x: x, y: y, heading: heading})
		default: // Unset, or off-grid
			if c.dead == nil {
				c.dead = c.arena.Add()
			}
			return c.dead
		}
	}
	stuck := c.arena.Add()
	stuck.FinalizeHang()
	return stuck
}
