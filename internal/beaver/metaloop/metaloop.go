// Package metaloop analyzes a meta-run loop — a loop detected one level up,
// over the sequenceIds a RunSummary emits — to determine how the run
// blocks it repeats evolve across iterations: which loops grow, by how
// much, and whether the data pointer position at each loop's entry drifts
// or stays put.
package metaloop

import (
	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
	"github.com/erwinbonsma/beaverfind/internal/beaver/runsummary"
	"github.com/erwinbonsma/beaverfind/internal/beaver/seqan"
)

// LoopType classifies how a loop inside a meta-loop moves the data pointer
// across successive executions.
type LoopType int8

const (
	Stationary LoopType = iota
	Glider
	AnchoredSweep
	DoubleSweep
)

// LoopBehavior describes one loop's behavior across one meta-loop period:
// how its entry dp position and iteration count change between successive
// executions.
type LoopBehavior struct {
	SequenceIndex int
	Loop          seqan.LoopResult

	MinDpDelta     int
	MaxDpDelta     int
	IterationDelta int
}

// LoopType classifies this behavior.
func (b LoopBehavior) LoopType() LoopType {
	switch {
	case b.MinDpDelta == 0 && b.MaxDpDelta == 0:
		if b.IterationDelta > 0 {
			return Glider
		}
		return Stationary
	case b.MinDpDelta == 0 || b.MaxDpDelta == 0:
		return AnchoredSweep
	default:
		return DoubleSweep
	}
}

// IsSweepLoop reports whether this loop's dp end-points move between
// executions.
func (b LoopBehavior) IsSweepLoop() bool {
	t := b.LoopType()
	return t == AnchoredSweep || t == DoubleSweep
}

// EndDpGrowth returns the common per-iteration shift and true when both
// dp end-points move by the same amount; it returns (0, false) for
// irregular growth.
func (b LoopBehavior) EndDpGrowth() (int, bool) {
	if b.MinDpDelta == b.MaxDpDelta {
		return b.MinDpDelta, true
	}
	return 0, false
}

// Analysis is the outcome of analyzing one window of a meta-run loop.
type Analysis struct {
	metaLoopPeriod    int
	loopSize          int
	firstRunBlockIndex int
	isPeriodic        bool

	seqAnalysis   []seqan.Result    // size loopSize; loop entries cast to LoopResult separately
	loopResults   map[int]seqan.LoopResult // keyed by position in window, for loop entries
	loopPositions []int             // positions within the window that are loops, in order

	behaviors     []LoopBehavior
	loopIndexForSeq map[int]int
}

const maxLoopSizeMultiple = 3

// AnalyzeMetaLoop attempts to build an Analysis from the tail of runSummary
// that the meta-run summary has just recognized as one period of a
// repeating pattern. It returns false if the pattern does not (yet) satisfy
// the meta-loop invariants — callers should treat this as MAYBE, not NO.
func AnalyzeMetaLoop(arena *program.Arena, rs *runsummary.RunSummary, mrs *runsummary.MetaRunSummary) (Analysis, bool) {
	metaLoopPeriod := mrs.LoopPeriod()

	loopSize := metaLoopPeriod
	for loopSize*maxLoopSizeMultiple <= mrs.LoopIteration()*metaLoopPeriod {
		startIndex := rs.NumRunBlocks() - loopSize*3
		if startIndex < 0 {
			break
		}

		deltas, ok := establishIterationDeltas(rs, startIndex, startIndex+loopSize, nil)
		if !ok {
			return Analysis{}, false
		}

		next := startIndex + loopSize
		deltas2, ok := establishIterationDeltas(rs, next, next+loopSize, deltas)
		if !ok {
			loopSize *= 2
			continue
		}
		_ = deltas2

		a := Analysis{
			metaLoopPeriod:     metaLoopPeriod,
			loopSize:           loopSize,
			firstRunBlockIndex: next,
			isPeriodic:         allZero(deltas),
			loopIndexForSeq:    make(map[int]int),
			loopResults:        make(map[int]seqan.LoopResult),
		}
		analyzeRunBlocks(arena, rs, &a)
		determineDpDeltas(rs, &a, deltas)
		return a, true
	}

	return Analysis{}, false
}

func allZero(deltas []int) bool {
	for _, d := range deltas {
		if d != 0 {
			return false
		}
	}
	return true
}

// establishIterationDeltas compares run blocks at idx1=start..end against
// idx2=end..end+(end-start): for loop run blocks it derives how many more
// iterations idx2's occurrence executed, requiring the increase (if any) be
// a whole number of loop periods; for plain sequences it requires an exact
// repeat. If want is non-nil, freshly computed deltas must match it exactly.
func establishIterationDeltas(rs *runsummary.RunSummary, start, end int, want []int) ([]int, bool) {
	n := end - start
	deltas := make([]int, 0, n)

	for i := 0; i < n; i++ {
		idx1 := start + i
		idx2 := end + i
		rb1 := rs.RunBlockAt(idx1)
		rb2 := rs.RunBlockAt(idx2)

		if !rb1.Equal(rb2) {
			return nil, false
		}

		if rb1.IsLoop() {
			len1 := rs.RunBlockLength(idx1)
			len2 := rs.RunBlockLength(idx2)
			if len2 < len1 || (len2-len1)%rb1.LoopPeriod() != 0 {
				return nil, false
			}
			delta := (len2 - len1) / rb1.LoopPeriod()
			if want != nil && want[i] != delta {
				return nil, false
			}
			deltas = append(deltas, delta)
		} else {
			if want != nil && want[i] != 0 {
				return nil, false
			}
			deltas = append(deltas, 0)
		}
	}

	return deltas, true
}

func analyzeRunBlocks(arena *program.Arena, rs *runsummary.RunSummary, a *Analysis) {
	startIndex := rs.NumRunBlocks() - a.loopSize
	a.seqAnalysis = make([]seqan.Result, a.loopSize)
	a.loopPositions = nil

	loopIdx := 0
	for i := 0; i < a.loopSize; i++ {
		idx := startIndex + i
		rb := rs.RunBlockAt(idx)
		blocks := rs.BlocksForRunBlock(idx)

		if rb.IsLoop() {
			loopResult, ok := seqan.AnalyzeLoop(blocks)
			if ok {
				a.loopResults[i] = loopResult
				a.seqAnalysis[i] = loopResult.Result
			}
			a.loopPositions = append(a.loopPositions, i)
			a.loopIndexForSeq[i] = loopIdx
			loopIdx++
		} else {
			a.seqAnalysis[i] = seqan.AnalyzeSequence(blocks)
		}
	}
}

// determineDpDeltas derives, for each loop in the window, how far its dp
// end-points move between successive executions, from the loop's own
// analysis only: a stationary loop gets 0 for both; a travelling loop keeps
// the end-point it starts from at 0 and moves the other by its DpDelta times
// its iteration-count delta (iterDeltas). The dp movement of the run blocks
// between loop occurrences is not taken into account.
func determineDpDeltas(rs *runsummary.RunSummary, a *Analysis, iterDeltas []int) {
	a.behaviors = make([]LoopBehavior, 0, len(a.loopPositions))
	for _, pos := range a.loopPositions {
		loopResult := a.loopResults[pos]

		behavior := LoopBehavior{
			SequenceIndex:  pos,
			Loop:           loopResult,
			IterationDelta: iterDeltas[pos],
		}

		switch {
		case loopResult.DpDelta == 0:
			behavior.MinDpDelta = 0
			behavior.MaxDpDelta = 0
		case loopResult.DpDelta > 0:
			// The loop's right end-point (MaxDp) advances by one loop
			// worth of travel per added iteration; the left end-point
			// (MinDp, its entry dp) stays put.
			behavior.MinDpDelta = 0
			behavior.MaxDpDelta = loopResult.DpDelta * iterDeltas[pos]
		default:
			behavior.MinDpDelta = loopResult.DpDelta * iterDeltas[pos]
			behavior.MaxDpDelta = 0
		}

		a.behaviors = append(a.behaviors, behavior)
	}
}

// MetaLoopPeriod returns the meta-run loop's period, in run blocks.
func (a *Analysis) MetaLoopPeriod() int { return a.metaLoopPeriod }

// LoopSize returns the window size, in run blocks, this analysis actually
// covers (a multiple of MetaLoopPeriod).
func (a *Analysis) LoopSize() int { return a.loopSize }

// FirstRunBlockIndex returns the run-block index from which this analysis
// applies.
func (a *Analysis) FirstRunBlockIndex() int { return a.firstRunBlockIndex }

// IsPeriodic reports whether every loop's iteration count is constant
// across the compared windows.
func (a *Analysis) IsPeriodic() bool { return a.isPeriodic }

// LoopBehaviors returns the per-loop behaviors discovered in this window.
func (a *Analysis) LoopBehaviors() []LoopBehavior { return a.behaviors }

// LoopIndexForSequence maps a sequenceIndex within the window to its index
// among the window's loop run blocks.
func (a *Analysis) LoopIndexForSequence(sequenceIndex int) (int, bool) {
	idx, ok := a.loopIndexForSeq[sequenceIndex]
	return idx, ok
}

// IsAnalysisStillValid reports whether a newly appended run block still
// matches the assumed pattern: it must have the same sequenceId as the run
// block one window (LoopSize run blocks) earlier and, for a loop, a length
// no shorter than that block's that differs from it by a whole number of
// loop periods. The iteration-count deltas recorded by the analysis are not
// compared.
func (a *Analysis) IsAnalysisStillValid(rs *runsummary.RunSummary, latestRunBlockIndex int) bool {
	if latestRunBlockIndex < a.firstRunBlockIndex {
		return true
	}
	offset := (latestRunBlockIndex - a.firstRunBlockIndex) % a.loopSize
	refIndex := latestRunBlockIndex - a.loopSize
	if refIndex < 0 {
		return true
	}

	latest := rs.RunBlockAt(latestRunBlockIndex)
	ref := rs.RunBlockAt(refIndex)
	if !latest.Equal(ref) {
		return false
	}

	if latest.IsLoop() {
		lenLatest := rs.RunBlockLength(latestRunBlockIndex)
		lenRef := rs.RunBlockLength(refIndex)
		if lenLatest < lenRef || (lenLatest-lenRef)%latest.LoopPeriod() != 0 {
			return false
		}
	}

	_ = offset
	return true
}

// Reset clears the analysis, as if it had never run.
func (a *Analysis) Reset() { *a = Analysis{} }
