package hang

import (
	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
	"github.com/erwinbonsma/beaverfind/internal/beaver/runsummary"
)

// ExecutionState is the read-only view of the running program a Checker
// inspects. The hang-executor harness is the only writer.
type ExecutionState interface {
	Tape() *program.Tape
	RunSummary() *runsummary.RunSummary
	MetaRunSummary() *runsummary.MetaRunSummary
}

// Checker is the interface every hang checker implements. A Checker is
// activated once analysis of the live meta-loop shows behavior
// characteristic of the hang it looks for; ProofHang is then invoked
// repeatedly at successive checkpoints until it returns a non-MAYBE
// verdict.
type Checker interface {
	// ProofHang checks whether the program is proven to hang. It may
	// return Maybe if the current checkpoint is inconclusive but a later
	// check (after the checkpoint advances) might succeed.
	ProofHang(state ExecutionState) Trilian

	// Reset clears any analysis-derived state, e.g. after a NO verdict or
	// when the underlying meta-loop analysis has been invalidated.
	Reset()
}

// checkpointed centralizes the "only re-check after the checkpoint
// changes" bookkeeping shared by every checker, mirroring the original
// HangDetector base class. Embedded by PeriodicHangChecker to keep its
// proof-phase progress across the repeated Init/ProofHang calls the
// executor makes at every loop checkpoint.
type checkpointed struct {
	lastFailedCheckpoint int
	analysisCheckpoint   int

	// failed and analyzed record whether the checkpoints above are set, so
	// that the zero value holds neither a failed nor an analyzed checkpoint.
	failed   bool
	analyzed bool
}

func newCheckpointed() checkpointed {
	return checkpointed{lastFailedCheckpoint: -1, analysisCheckpoint: -1}
}

// shouldCheckNow reports whether the checker should attempt a proof at the
// given checkpoint, i.e. it has not already failed at this exact point.
func (c *checkpointed) shouldCheckNow(checkpoint int) bool {
	return !c.failed || c.lastFailedCheckpoint != checkpoint
}

func (c *checkpointed) markFailed(checkpoint int) {
	c.lastFailedCheckpoint = checkpoint
	c.failed = true
}

func (c *checkpointed) markAnalyzed(checkpoint int) {
	c.analysisCheckpoint = checkpoint
	c.analyzed = true
}

func (c *checkpointed) oldAnalysisAvailable() bool {
	return c.analyzed
}

func (c *checkpointed) clearAnalysis() {
	c.analysisCheckpoint = -1
	c.analyzed = false
}

func (c *checkpointed) reset() {
	c.lastFailedCheckpoint = -1
	c.analysisCheckpoint = -1
	c.failed = false
	c.analyzed = false
}
