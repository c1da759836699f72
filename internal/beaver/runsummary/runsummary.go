// Package runsummary compresses a run of executed unit ids into a sequence
// of RunBlocks, detecting loops via shortest-repeated-suffix matching. The
// same machinery summarizes both program-block histories (first level) and
// the sequenceIds such first-level summaries emit (second level, see
// MetaRunSummary).
package runsummary

import lru "github.com/hashicorp/golang-lru"

// History is the unit-id stream a Summary incrementally compresses. Index 0
// is the first unit ever appended; Len grows as the caller appends more.
type History interface {
	Len() int
	UnitIDAt(i int) int
}

// RunBlock groups a run of units: either a plain (non-repeating) sequence,
// or one or more iterations of a loop. Equality of two RunBlocks is defined
// purely in terms of SequenceID: two blocks share an id iff their full unit
// sequences (one period, for loops) are identical.
type RunBlock struct {
	startIndex int
	sequenceID int
	loopPeriod int
}

// IsLoop reports whether this block represents a repeating loop.
func (b RunBlock) IsLoop() bool { return b.loopPeriod != 0 }

// LoopPeriod returns the loop's period in units, or 0 for a plain sequence.
func (b RunBlock) LoopPeriod() int { return b.loopPeriod }

// StartIndex returns the offset into the unit history where this block
// starts.
func (b RunBlock) StartIndex() int { return b.startIndex }

// SequenceID returns the canonical id of this block's unit sequence, as
// assigned by the shared sequence trie.
func (b RunBlock) SequenceID() int { return b.sequenceID }

// Equal reports whether two blocks represent the same (type of) run,
// ignoring how many times a loop happened to repeat.
func (b RunBlock) Equal(other RunBlock) bool { return b.sequenceID == other.sequenceID }

// Summary incrementally compresses a History into RunBlocks. It owns no
// history storage itself — History is supplied by the caller on every call
// to Update, so the same Summary machinery serves both the program-block
// level and the meta level.
type Summary struct {
	pending   int // start of the not-yet-classified tail, or -1
	loop      int // next offset inside the recognized loop to match, -1 if not in a loop
	processed int // units consumed so far

	blocks []RunBlock
	trie   *trie

	helper []int // scratch buffer for the Z-array helper, grown lazily

	rotationCache *lru.Cache
}

// New returns an empty Summary.
func New() *Summary {
	return &Summary{loop: -1, trie: newTrie()}
}

// Reset clears all accumulated state, as if New had just been called.
func (s *Summary) Reset() {
	s.pending = 0
	s.loop = -1
	s.processed = 0
	s.blocks = s.blocks[:0]
	s.trie = newTrie()
	s.rotationCache = nil
}

// NumRunBlocks returns the number of RunBlocks emitted so far.
func (s *Summary) NumRunBlocks() int { return len(s.blocks) }

// RunBlockAt returns the i-th emitted RunBlock.
func (s *Summary) RunBlockAt(i int) RunBlock { return s.blocks[i] }

// LastRunBlock returns the most recently emitted RunBlock.
func (s *Summary) LastRunBlock() RunBlock { return s.blocks[len(s.blocks)-1] }

// IsInsideLoop reports whether the tail of the history is currently
// matching a previously detected loop.
func (s *Summary) IsInsideLoop() bool { return s.loop >= 0 }

// LoopPeriod returns the period of the loop the most recently emitted
// RunBlock represents. Only meaningful when IsInsideLoop is true.
func (s *Summary) LoopPeriod() int { return s.LastRunBlock().loopPeriod }

// LoopIteration returns how many full iterations the current (open) loop
// run block has executed so far.
func (s *Summary) LoopIteration() int {
	start := s.LastRunBlock().startIndex
	return (s.processed - start) / s.LoopPeriod()
}

// IsAtEndOfLoop reports whether the current loop has just completed a whole
// number of iterations and no units are pending classification.
func (s *Summary) IsAtEndOfLoop() bool {
	if s.pending >= 0 {
		return false
	}
	start := s.LastRunBlock().startIndex
	return (s.processed-start)%s.LoopPeriod() == 0
}

// RunBlockLength returns the length, in units, of the run block at index,
// treating the last run block's open (not-yet-broken) tail as extending up
// to the units processed so far.
func (s *Summary) RunBlockLength(index int) int {
	return s.runBlockLength(index, index+1)
}

func (s *Summary) runBlockLength(start, end int) int {
	startIndex := s.blocks[start].startIndex
	if end == len(s.blocks) {
		if s.pending >= 0 {
			return s.pending - startIndex
		}
		return s.processed - startIndex
	}
	return s.blocks[end].startIndex - startIndex
}

// Update processes any units appended to history since the last call,
// emitting RunBlocks as loops are discovered or broken. It returns true if
// one or more new RunBlocks were created.
func (s *Summary) Update(history History) bool {
	newBlocks := false

	for s.processed < history.Len() {
		if s.loop < 0 {
			tailLen := s.processed - s.pending + 1
			if cap(s.helper) < tailLen {
				s.helper = make([]int, tailLen)
			}
			period := shortestRepeatedSuffix(history, s.pending, tailLen, s.helper)
			if period > 0 {
				loopStart := s.processed + 1 - period*2
				if loopStart != s.pending {
					s.createRunBlock(history, s.pending, loopStart, 0)
				}
				s.createRunBlock(history, loopStart, s.processed+1, period)
				s.loop = loopStart + period
				s.pending = -1
				newBlocks = true
			}
		} else {
			if history.UnitIDAt(s.loop) != history.UnitIDAt(s.processed) {
				s.pending = s.processed
				s.loop = -1
			} else {
				s.loop++
			}
		}
		s.processed++
	}

	return newBlocks
}

func (s *Summary) createRunBlock(history History, start, end, loopPeriod int) {
	seqLen := end - start
	if loopPeriod > 0 {
		seqLen = loopPeriod
	}
	seqID := s.trie.sequenceID(history, start, seqLen)
	s.blocks = append(s.blocks, RunBlock{startIndex: start, sequenceID: seqID, loopPeriod: loopPeriod})
}

// shortestRepeatedSuffix returns the smallest period p > 0 such that
// units[end-2p:end-p] == units[end-p:end] for the tail starting at
// pending, where end = pending+tailLen; it returns 0 if no such period
// exists. It runs in O(tailLen) using a Z-array over the reversed tail,
// mirroring the original's buffer-based helper.
func shortestRepeatedSuffix(history History, pending, tailLen int, helper []int) int {
	if tailLen < 2 {
		return 0
	}

	// z[i] = length of the longest common prefix of the reversed tail with
	// the suffix of the reversed tail starting at i. Equivalently (un-
	// reversed), the longest common suffix of the full tail with the
	// prefix-truncated tail ending at tailLen-1-i.
	z := helper[:tailLen]
	at := func(i int) int { return history.UnitIDAt(pending + tailLen - 1 - i) }

	z[0] = tailLen
	l, r := 0, 0
	for i := 1; i < tailLen; i++ {
		if i < r {
			k := min(r-i, z[i-l])
			z[i] = k
		}
		for i+z[i] < tailLen && at(z[i]) == at(i+z[i]) {
			z[i]++
		}
		if i+z[i] > r {
			l, r = i, i+z[i]
		}
	}

	for p := 1; p <= tailLen/2; p++ {
		if z[p] >= p {
			return p
		}
	}
	return 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
