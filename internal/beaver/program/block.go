// Package program holds the external collaborators the hang-analysis core
// is driven by: the compiled program-block graph and the data tape. Neither
// type depends on the analysis packages; the core only ever borrows stable
// indices and read-only values from them.
package program

// Block is a finalized, immutable node in the compiled representation of a
//2L program. It corresponds to a straight-line run of instructions ending
// in a conditional branch (TURN) or in termination. Blocks are allocated
// once from a Arena and never reallocated; analyzers hold them by their
// stable Index.
type Block struct {
	index int

	finalized bool
	isDelta   bool // false => shift step (dp += amount); true => delta step (*dp += amount)
	amount    int
	numSteps  int // number of language-level instructions this block represents

	zero    *Block
	nonZero *Block

	exit bool
	hang bool
}

// Index returns this block's stable identity.
func (b *Block) Index() int { return b.index }

// IsFinalized reports whether Finalize (or FinalizeExit/FinalizeHang) has
// been called.
func (b *Block) IsFinalized() bool { return b.finalized }

// IsDelta reports whether this is a `*dp += Amount` step (as opposed to a
// `dp += Amount` shift step).
func (b *Block) IsDelta() bool { return b.isDelta }

// IsShift reports whether this is a `dp += Amount` step.
func (b *Block) IsShift() bool { return !b.isDelta }

// Amount returns the signed amount applied by a delta or shift step. It is
// meaningless for exit/hang blocks.
func (b *Block) Amount() int { return b.amount }

// NumSteps returns the number of language-level instructions this block
// executes, or a negative number for a hang block (mirroring the original's
// `getNumSteps() < 0` hang convention).
func (b *Block) NumSteps() int { return b.numSteps }

// ZeroBlock returns the successor taken when the just-read data value was
// zero.
func (b *Block) ZeroBlock() *Block { return b.zero }

// NonZeroBlock returns the successor taken when the just-read data value was
// non-zero.
func (b *Block) NonZeroBlock() *Block { return b.nonZero }

// IsExit reports whether reaching this block means the program terminates.
func (b *Block) IsExit() bool { return b.exit }

// IsHang reports whether reaching this block means the program has been
// statically determined (by the enumerator, before any analysis here runs)
// to hang.
func (b *Block) IsHang() bool { return b.hang }

// Finalize fixes the step behavior of a regular (delta or shift) block.
func (b *Block) Finalize(isDelta bool, amount int, numSteps int, zero, nonZero *Block) {
	if b.finalized {
		panic("program: block already finalized")
	}
	b.finalized = true
	b.isDelta = isDelta
	b.amount = amount
	b.numSteps = numSteps
	b.zero = zero
	b.nonZero = nonZero
}

// FinalizeExit fixes this block as a program-terminating exit.
func (b *Block) FinalizeExit(numSteps int) {
	if b.finalized {
		panic("program: block already finalized")
	}
	b.finalized = true
	b.exit = true
	b.numSteps = numSteps
}

// FinalizeHang fixes this block as a statically known hang.
func (b *Block) FinalizeHang() {
	if b.finalized {
		panic("program: block already finalized")
	}
	b.finalized = true
	b.hang = true
	b.numSteps = -1
}

// Arena owns a growing set of Blocks, indexed by stable position. It never
// reallocates already-handed-out *Block pointers: blocks are appended to a
// slice of pointers, not to a slice of values.
type Arena struct {
	blocks []*Block
}

// NewArena returns an empty block arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add allocates and returns a new, not-yet-finalized block with the next
// stable index.
func (a *Arena) Add() *Block {
	b := &Block{index: len(a.blocks)}
	a.blocks = append(a.blocks, b)
	return b
}

// At returns the block at the given stable index.
func (a *Arena) At(index int) *Block { return a.blocks[index] }

// Len returns the number of blocks in the arena.
func (a *Arena) Len() int { return len(a.blocks) }
