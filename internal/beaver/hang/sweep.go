package hang

import (
	"github.com/erwinbonsma/beaverfind/internal/beaver/metaloop"
)

// EndType classifies what happens to a growing sequence's end cell each
// time a sweep passes over it.
type EndType int8

const (
	SteadyGrowth EndType = iota
	IrregularGrowth
	FixedPointConstantValue
	FixedPointMultipleValues
	FixedPointIncreasingValue
	FixedPointDecreasingValue
	FixedAperiodicAppendix
)

// TransitionGroup collects the loop behaviors that arrive at (incoming) or
// depart from (outgoing) one end of a sweep, plus that end's classified
// behavior.
type TransitionGroup struct {
	IncomingLoops []metaloop.LoopBehavior
	OutgoingLoops []metaloop.LoopBehavior
	EndType       EndType

	// AppendixStart is only meaningful when EndType is
	// FixedAperiodicAppendix: the dp offset, relative to the loop's own
	// reference frame, beyond which lies the a-periodic appendix.
	AppendixStart int
}

// SweepHangChecker proves a hang caused by two (or four) travelling loops
// bouncing between the two ends of a growing sequence, each end settling
// into a classified steady-state behavior.
type SweepHangChecker struct {
	mla    *metaloop.Analysis
	groups [2]TransitionGroup
}

// Init attempts to recognize mla as a sweep configuration: every sweep-type
// loop behavior is assigned to one of two end-groups as incoming or
// outgoing, each end classified per EndType. It returns false when the
// behaviors don't form a coherent two-ended sweep.
func (c *SweepHangChecker) Init(mla *metaloop.Analysis) bool {
	c.mla = nil
	c.groups = [2]TransitionGroup{}

	if !c.extractSweepLoops(mla) {
		return false
	}

	c.mla = mla
	c.classifyEnds()
	return true
}

func (c *SweepHangChecker) extractSweepLoops(mla *metaloop.Analysis) bool {
	var left, right TransitionGroup

	for _, behavior := range mla.LoopBehaviors() {
		if !behavior.IsSweepLoop() {
			continue
		}

		switch behavior.LoopType() {
		case metaloop.AnchoredSweep:
			// The moving end determines which group this loop belongs to:
			// a positive maxDpDelta means it travels rightward (departs
			// left, arrives right) while its minDpDelta stays anchored.
			if behavior.MaxDpDelta != 0 {
				if behavior.Loop.DpDelta > 0 {
					left.OutgoingLoops = append(left.OutgoingLoops, behavior)
					right.IncomingLoops = append(right.IncomingLoops, behavior)
				} else {
					right.OutgoingLoops = append(right.OutgoingLoops, behavior)
					left.IncomingLoops = append(left.IncomingLoops, behavior)
				}
			} else {
				if behavior.Loop.DpDelta > 0 {
					left.OutgoingLoops = append(left.OutgoingLoops, behavior)
					right.IncomingLoops = append(right.IncomingLoops, behavior)
				} else {
					right.OutgoingLoops = append(right.OutgoingLoops, behavior)
					left.IncomingLoops = append(left.IncomingLoops, behavior)
				}
			}
		case metaloop.DoubleSweep:
			if behavior.Loop.DpDelta > 0 {
				left.OutgoingLoops = append(left.OutgoingLoops, behavior)
				right.IncomingLoops = append(right.IncomingLoops, behavior)
			} else {
				right.OutgoingLoops = append(right.OutgoingLoops, behavior)
				left.IncomingLoops = append(left.IncomingLoops, behavior)
			}
		}
	}

	if len(left.IncomingLoops) == 0 && len(left.OutgoingLoops) == 0 {
		return false
	}
	if len(right.IncomingLoops) == 0 && len(right.OutgoingLoops) == 0 {
		return false
	}
	if len(left.IncomingLoops) == 0 || len(left.OutgoingLoops) == 0 {
		return false
	}
	if len(right.IncomingLoops) == 0 || len(right.OutgoingLoops) == 0 {
		return false
	}

	c.groups[0] = left
	c.groups[1] = right
	return true
}

// classifyEnds classifies each end from the IterationDelta of its incoming
// loops: when every incoming loop grows the end is SteadyGrowth, when only
// some do it is IrregularGrowth, and when none does it is
// FixedPointConstantValue. Loop exits and transitions are not inspected, and
// the other EndType values (FixedPointMultipleValues,
// FixedPointIncreasingValue, FixedPointDecreasingValue,
// FixedAperiodicAppendix) are never assigned.
func (c *SweepHangChecker) classifyEnds() {
	for i := range c.groups {
		g := &c.groups[i]
		allGrow := true
		anyGrow := false
		for _, in := range g.IncomingLoops {
			if in.IterationDelta > 0 {
				anyGrow = true
			} else {
				allGrow = false
			}
		}
		switch {
		case allGrow && anyGrow:
			g.EndType = SteadyGrowth
		case anyGrow:
			g.EndType = IrregularGrowth
		default:
			g.EndType = FixedPointConstantValue
		}
	}
}

// Groups returns the two end-groups (index 0 = left, 1 = right).
func (c *SweepHangChecker) Groups() [2]TransitionGroup { return c.groups }

// Reset clears the recognized configuration.
func (c *SweepHangChecker) Reset() {
	c.mla = nil
	c.groups = [2]TransitionGroup{}
}

// ProofHang is an unconditional MAYBE: the end-type classification above
// gives the checker its structural model, but the per-cell replay needed
// to confirm fixed-point/growth invariants against live tape state is not
// yet implemented.
func (c *SweepHangChecker) ProofHang(state ExecutionState) Trilian {
	return Maybe
}
