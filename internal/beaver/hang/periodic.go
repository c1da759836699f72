package hang

import "github.com/erwinbonsma/beaverfind/internal/beaver/seqan"

// PeriodicHangChecker proves a single repeating loop hangs by inspecting
// tape values at its exit conditions: a stationary loop hangs once none of
// its reachable (ANYTIME) exits can fire; a travelling loop hangs once the
// tape ahead of it is virgin and it survives long enough for any
// already-consumed values to have had their chance to trigger a late exit.
type PeriodicHangChecker struct {
	checkpointed

	loop      seqan.LoopResult
	loopStart int

	proofPhase    int
	targetLoopLen int
}

// Init (re)targets the checker at a freshly analyzed loop, starting at
// loopStart run units into the program-block history. Re-targeting the same
// loopStart the checker already holds is a no-op: the checker keeps
// whatever proof phase it had reached, so phase 2's "wait for the target
// length" progress survives across the repeated Init/ProofHang calls the
// executor makes on every loop-boundary checkpoint.
func (c *PeriodicHangChecker) Init(loop seqan.LoopResult, loopStart int) {
	c.loop = loop
	if c.oldAnalysisAvailable() && loopStart == c.analysisCheckpoint {
		return
	}
	c.loopStart = loopStart
	c.proofPhase = 1
	c.markAnalyzed(loopStart)
}

// LoopStart returns the run-unit index this checker is currently targeting.
func (c *PeriodicHangChecker) LoopStart() int { return c.loopStart }

// Reset clears proof-phase state, forcing the next ProofHang call to
// restart from phase 1.
func (c *PeriodicHangChecker) Reset() {
	c.checkpointed.reset()
	c.proofPhase = 0
}

// ProofHang implements Checker. The caller (HangExecutor) only invokes this
// at a loop-iteration boundary (RunSummary.IsAtEndOfLoop), which is the
// invariant every exit-condition dp-offset below is computed relative to;
// mirrors the original's proofHangPhase1 assertion that the detector only
// runs at the start of a loop iteration.
func (c *PeriodicHangChecker) ProofHang(state ExecutionState) Trilian {
	if !state.RunSummary().IsAtEndOfLoop() {
		return Maybe
	}
	if !c.shouldCheckNow(c.loopStart) {
		// Already proven not to hang at this exact checkpoint; nothing has
		// changed since, so don't redo the (cheap but pointless) work.
		return Maybe
	}

	var verdict Trilian
	if c.proofPhase == 2 {
		verdict = c.proofHangPhase2(state)
	} else {
		verdict = c.proofHangPhase1(state)
	}
	if verdict == No {
		c.markFailed(c.loopStart)
	}
	return verdict
}

func (c *PeriodicHangChecker) proofHangPhase1(state ExecutionState) Trilian {
	loopLen := state.RunSummary().NumUnitsProcessed() - c.loopStart

	if loopLen <= len(c.loop.Blocks)*c.loop.NumBootstrapCycles {
		return Maybe
	}

	tape := state.Tape()

	if c.loop.DpDelta == 0 {
		for i := len(c.loop.Exits) - 1; i >= 0; i-- {
			exit := c.loop.Exits[i]
			if exit.Window != seqan.Anytime {
				continue
			}
			value := tape.ValAt(tape.Dp() + exit.Condition.DpOffset)
			if exit.Condition.HoldsForValue(value) {
				return No
			}
		}
		return Yes
	}

	if c.loop.AllValuesToBeConsumedAreZero(tape) {
		c.proofPhase = 2
		c.targetLoopLen = loopLen + len(c.loop.Blocks)*c.loop.NumBootstrapCycles
	}

	return Maybe
}

func (c *PeriodicHangChecker) proofHangPhase2(state ExecutionState) Trilian {
	loopLen := state.RunSummary().NumUnitsProcessed() - c.loopStart
	if loopLen >= c.targetLoopLen {
		return Yes
	}
	return Maybe
}
