package hang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
	"github.com/erwinbonsma/beaverfind/internal/beaver/runsummary"
	"github.com/erwinbonsma/beaverfind/internal/beaver/seqan"
)

// newLoopingRunSummary builds a real RunSummary that has settled into a
// repeating loop of the given period, having executed it iterations full
// times.
func newLoopingRunSummary(period, iterations int) *runsummary.RunSummary {
	arena := program.NewArena()
	for i := 0; i < period; i++ {
		arena.Add()
	}
	rs := runsummary.NewRunSummary(arena)
	for iter := 0; iter < iterations; iter++ {
		for i := 0; i < period; i++ {
			rs.RecordProgramBlock(i)
		}
	}
	return rs
}

// TestPeriodicHangChecker_ProofHang_SkipsMidIteration uses a mocked
// ExecutionState to prove the executor-level invariant (spec.md §4.11:
// checkers only run "at the start of a loop iteration") is also enforced
// inside the checker itself: mid-iteration, ProofHang must bail out via the
// IsAtEndOfLoop gate before ever touching the tape, so no expectation is
// recorded for Tape() — an unexpected call there would fail the test.
func TestPeriodicHangChecker_ProofHang_SkipsMidIteration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rs := newLoopingRunSummary(2, 3)
	rs.RecordProgramBlock(0) // one extra unit: now mid-iteration

	assert.False(t, rs.IsAtEndOfLoop())

	state := NewMockExecutionState(ctrl)
	state.EXPECT().RunSummary().Return(rs).AnyTimes()

	c := &PeriodicHangChecker{}
	c.Init(seqan.LoopResult{}, rs.LastRunBlock().StartIndex())

	assert.Equal(t, Maybe, c.ProofHang(state))
}

// TestPeriodicHangChecker_ProofHang_RunsAtEndOfLoop is the positive
// counterpart: once the mocked RunSummary reports IsAtEndOfLoop, the
// checker proceeds into its normal phase-1 proof instead of bailing out.
func TestPeriodicHangChecker_ProofHang_RunsAtEndOfLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rs := newLoopingRunSummary(1, 3)
	assert.True(t, rs.IsAtEndOfLoop())

	state := NewMockExecutionState(ctrl)
	state.EXPECT().RunSummary().Return(rs).AnyTimes()
	state.EXPECT().Tape().Return(program.NewTape()).AnyTimes()

	c := &PeriodicHangChecker{}
	c.Init(seqan.LoopResult{}, rs.LastRunBlock().StartIndex())

	// An empty LoopResult has no exits, so phase 1's stationary-loop branch
	// finds nothing that can fire and reports Yes.
	assert.Equal(t, Yes, c.ProofHang(state))
}

// TestPeriodicHangChecker_Init_PreservesPhaseAcrossSameCheckpoint verifies
// the checkpointed bookkeeping keeps phase-2 progress alive across the
// repeated Init/ProofHang calls the executor makes at every loop boundary,
// instead of restarting from phase 1 every time (the bug this fix closes).
func TestPeriodicHangChecker_Init_PreservesPhaseAcrossSameCheckpoint(t *testing.T) {
	c := &PeriodicHangChecker{}
	c.Init(seqan.LoopResult{}, 7)
	c.proofPhase = 2
	c.targetLoopLen = 42

	c.Init(seqan.LoopResult{}, 7) // same checkpoint: must not reset proofPhase

	assert.Equal(t, 2, c.proofPhase)
	assert.Equal(t, 42, c.targetLoopLen)

	c.Init(seqan.LoopResult{}, 8) // new checkpoint: resets

	assert.Equal(t, 1, c.proofPhase)
}
