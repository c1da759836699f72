// Package seqan implements the sequence and loop analyzers: given a fixed
// slice of program blocks, it derives the net effect on the data tape, the
// pre-conditions required for the sequence to run to completion, and — for
// loops — per-instruction exit-condition classification.
package seqan

import (
	"github.com/erwinbonsma/beaverfind/internal/beaver/deltas"
	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
)

// PreCondition constrains the tape value at some dpOffset (relative to the
// sequence's initial dp) that is required for the sequence to execute to
// completion.
type PreCondition struct {
	Value       int
	ShouldEqual bool
}

// HoldsForValue reports whether the constraint is satisfied by v.
func (p PreCondition) HoldsForValue(v int) bool {
	if p.ShouldEqual {
		return v == p.Value
	}
	return v != p.Value
}

// Result is the outcome of analyzing a fixed sequence of program blocks.
type Result struct {
	Blocks []*program.Block

	DpDelta      int
	MinDp, MaxDp int

	Deltas          deltas.DataDeltas
	EffectiveResult []deltas.DataDelta // one entry per block, in block order

	// PreConditions maps a dpOffset (relative to the sequence's initial dp)
	// to the set of constraints accumulated there. An EQ entry subsumes any
	// other entry at the same offset; NE entries are kept as a set.
	PreConditions map[int][]PreCondition
}

func (r *Result) addPreCondition(dpOffset int, pc PreCondition) {
	if r.PreConditions == nil {
		r.PreConditions = make(map[int][]PreCondition)
	}
	existing := r.PreConditions[dpOffset]
	if pc.ShouldEqual {
		r.PreConditions[dpOffset] = []PreCondition{pc}
		return
	}
	for _, e := range existing {
		if e.ShouldEqual {
			// Already pinned to a fixed value; this NE constraint adds nothing.
			return
		}
		if e.Value == pc.Value {
			return
		}
	}
	r.PreConditions[dpOffset] = append(existing, pc)
}

// HasPreCondition reports whether pc itself is stored at dpOffset. A
// constraint that addPreCondition dropped because an EQ entry at the same
// offset subsumes it is not reported.
func (r *Result) HasPreCondition(dpOffset int, pc PreCondition) bool {
	for _, e := range r.PreConditions[dpOffset] {
		if e == pc {
			return true
		}
	}
	return false
}

// AnalyzeSequence runs a single forward pass over blocks, starting with the
// dp cursor at 0, accumulating the net per-offset effect and the
// pre-conditions required for the sequence to run to completion.
func AnalyzeSequence(blocks []*program.Block) Result {
	r := Result{Blocks: blocks}
	r.EffectiveResult = make([]deltas.DataDelta, len(blocks))

	dp := 0
	var prev *program.Block

	for i, b := range blocks {
		if i > 0 {
			// Caller passed a sequence whose blocks are linked by a zero/
			// non-zero branch; if not, no pre-condition can be derived.
			switch {
			case prev.ZeroBlock() == b:
				r.addPreCondition(dp, PreCondition{Value: -r.Deltas.ValueAt(dp), ShouldEqual: true})
			case prev.NonZeroBlock() == b:
				r.addPreCondition(dp, PreCondition{Value: -r.Deltas.ValueAt(dp), ShouldEqual: false})
			}
		}

		if b.IsShift() {
			dp += b.Amount()
			if dp < r.MinDp {
				r.MinDp = dp
			}
			if dp > r.MaxDp {
				r.MaxDp = dp
			}
			r.EffectiveResult[i] = deltas.New(dp, r.Deltas.ValueAt(dp))
		} else {
			eff := r.Deltas.UpdateDelta(dp, b.Amount())
			r.EffectiveResult[i] = deltas.New(dp, eff)
		}

		prev = b
	}

	r.DpDelta = dp
	return r
}
