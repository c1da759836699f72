package hang

import (
	"github.com/erwinbonsma/beaverfind/internal/beaver/metaloop"
)

// GliderHangChecker proves a stationary loop hangs when its iteration count
// grows because a companion counter one dp-step (loopShift) further along
// is incremented at least as fast as the current counter is decremented
// toward zero.
type GliderHangChecker struct {
	mla *metaloop.Analysis

	gliderLoopIndex int
	loopShift       int

	curCounterDpOffset int
	nxtCounterDpOffset int
}

// Init attempts to recognize mla as a glider configuration: exactly one
// loop behavior must be a non-trivial glider (stationary, growing iteration
// count); every other loop must have a fixed iteration count. It returns
// false when the configuration does not match.
func (c *GliderHangChecker) Init(mla *metaloop.Analysis) bool {
	c.mla = nil
	c.gliderLoopIndex = -1

	for i, behavior := range mla.LoopBehaviors() {
		if behavior.LoopType() != metaloop.Glider && behavior.LoopType() != metaloop.Stationary {
			return false
		}
		if behavior.IterationDelta != 0 {
			if c.gliderLoopIndex != -1 {
				// Only a single loop is allowed to grow its iteration
				// count; every other loop must move in lockstep with it.
				return false
			}
			c.gliderLoopIndex = i
		}
	}

	if c.gliderLoopIndex == -1 {
		return false
	}

	c.mla = mla

	if !c.identifyLoopCounters() {
		c.mla = nil
		return false
	}

	return true
}

func (c *GliderHangChecker) identifyLoopCounters() bool {
	behavior := c.mla.LoopBehaviors()[c.gliderLoopIndex]
	loop := behavior.Loop

	if loop.DpDelta != 0 {
		// The glider loop itself must be stationary.
		return false
	}

	loopSize := len(loop.Blocks)
	instructionIndex := (loopRemainder(c.mla, c.gliderLoopIndex) + loopSize - 1) % loopSize
	c.curCounterDpOffset = loop.EffectiveResult[instructionIndex].DpOffset()

	if behavior.MinDpDelta != behavior.MaxDpDelta {
		return false
	}
	loopShift := behavior.MinDpDelta
	c.loopShift = loopShift
	if loopShift == 0 {
		return false
	}

	curCounterDelta := loop.Deltas.ValueAt(c.curCounterDpOffset)
	foundNextCounter := false

	for _, dd := range loop.Deltas.All() {
		dpDelta := dd.DpOffset() - c.curCounterDpOffset
		if dpDelta == 0 {
			continue
		}

		if sign(dpDelta) != sign(loopShift) {
			// Left in the wake of the glider loop; irrelevant.
			continue
		}
		if absInt(dpDelta)%absInt(loopShift) != 0 {
			// Ahead of the counter but skipped by the loop's stride; also
			// becomes part of the wake.
			continue
		}

		if dpDelta == loopShift {
			foundNextCounter = true
			c.nxtCounterDpOffset = dd.DpOffset()
			if absInt(curCounterDelta) > absInt(dd.Delta()) {
				return false
			}
		}
	}

	return foundNextCounter
}

func loopRemainder(mla *metaloop.Analysis, loopIndex int) int {
	// The remainder of instructions the loop executed before the meta-loop
	// boundary was reached; approximated here as zero when unavailable,
	// matching a loop that always exits exactly at its first instruction.
	_ = mla
	_ = loopIndex
	return 0
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Reset clears the recognized configuration.
func (c *GliderHangChecker) Reset() {
	c.mla = nil
	c.gliderLoopIndex = -1
}

// ProofHang is an unconditional MAYBE: the data model above (counter
// offsets, loop shift) is in place for the transition-sequence replay this
// proof needs, but that replay is not yet implemented.
func (c *GliderHangChecker) ProofHang(state ExecutionState) Trilian {
	return Maybe
}
