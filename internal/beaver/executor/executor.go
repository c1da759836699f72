// Package executor drives a compiled program block graph, feeding every
// executed block into the run-summary hierarchy and the hang checkers that
// ride on top of it. It is the one place that owns mutable interpreter
// state: the data tape, the current block, and the step counters.
package executor

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/erwinbonsma/beaverfind/internal/beaver/hang"
	"github.com/erwinbonsma/beaverfind/internal/beaver/metaloop"
	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
	"github.com/erwinbonsma/beaverfind/internal/beaver/runsummary"
	"github.com/erwinbonsma/beaverfind/internal/beaver/seqan"
	"github.com/erwinbonsma/beaverfind/internal/beaver/transitions"
)

// checkerName identifies one of the executor's hang checkers, for
// reporting which ones are currently armed.
type checkerName string

const (
	checkerPeriodic checkerName = "periodic"
	checkerGlider   checkerName = "glider"
	checkerSweep    checkerName = "sweep"
	checkerNoExit   checkerName = "no-exit"
)

// RunResult is the outcome of driving a HangExecutor to completion or to
// its step budget.
type RunResult int8

const (
	Unknown RunResult = iota
	Success
	DataError
	ProgramError
	DetectedHang
	AssumedHang
)

func (r RunResult) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case DataError:
		return "DATA_ERROR"
	case ProgramError:
		return "PROGRAM_ERROR"
	case DetectedHang:
		return "DETECTED_HANG"
	case AssumedHang:
		return "ASSUMED_HANG"
	default:
		return "UNKNOWN"
	}
}

// HangExecutor interprets a compiled program block graph while maintaining
// the full run-summary hierarchy (program-block level, run-block level,
// meta-run-block level) and the hang checkers that ride on it.
type HangExecutor struct {
	arena        *program.Arena
	tape         *program.Tape
	tapeCapacity int

	block    *program.Block
	numSteps int

	hangDetectionStart    int
	maxHangDetectionSteps int
	maxSteps              int

	runSummary         *runsummary.RunSummary
	metaRunSummary     *runsummary.MetaRunSummary
	metaMetaRunSummary *runsummary.MetaRunSummary
	runTransitions     *transitions.Table

	lastRunBlockSeq    int
	lastMetaBlockSeq   int

	periodicChecker *hang.PeriodicHangChecker
	gliderChecker   *hang.GliderHangChecker
	sweepChecker    *hang.SweepHangChecker
	noExitChecker   *hang.NoExitChecker
	noExitLocator   hang.BlockLocator

	periodicDisabled bool
	gliderDisabled   bool
	sweepDisabled    bool

	activeChecker      hang.Checker
	metaLoopAnalysis   metaloop.Analysis
	metaLoopAnalyzed   bool

	enabledCheckers mapset.Set[checkerName]

	detectedBy hang.Checker
}

// EnabledCheckers returns the names of the checkers currently armed for
// this run (those whose preconditions have been met at least once since
// the last reset), most useful for progress reporting.
func (e *HangExecutor) EnabledCheckers() []checkerName {
	return e.enabledCheckers.ToSlice()
}

// New returns a fresh executor over blocks allocated from arena. tapeCapacity
// bounds how far the data pointer may travel from its origin before a shift
// is rejected as a DataError. maxHangDetectionSteps sizes the window of
// steps within which hang checkers run before the executor falls back to
// assuming a hang.
func New(arena *program.Arena, tapeCapacity, maxHangDetectionSteps int) *HangExecutor {
	e := &HangExecutor{
		arena:                 arena,
		tape:                  program.NewTape(),
		tapeCapacity:          tapeCapacity,
		maxHangDetectionSteps: maxHangDetectionSteps,
		runSummary:            runsummary.NewRunSummary(arena),
		metaRunSummary:        runsummary.NewMetaRunSummary(),
		metaMetaRunSummary:    runsummary.NewMetaRunSummary(),
		runTransitions:        transitions.New(transitions.DefaultCapacity),
		periodicChecker:       &hang.PeriodicHangChecker{},
		gliderChecker:         &hang.GliderHangChecker{},
		sweepChecker:          &hang.SweepHangChecker{},
		enabledCheckers:       mapset.NewSet[checkerName](),
	}
	e.SetMaxSteps(maxHangDetectionSteps)
	return e
}

// SetMaxSteps sets the total step budget for a single Execute call.
func (e *HangExecutor) SetMaxSteps(steps int) { e.maxSteps = steps }

// SetPeriodicCheckerEnabled arms or disables the periodic hang checker.
// Disabled by default never, enabled by default: callers opt out.
func (e *HangExecutor) SetPeriodicCheckerEnabled(enabled bool) { e.periodicDisabled = !enabled }

// SetGliderCheckerEnabled arms or disables the glider hang checker.
func (e *HangExecutor) SetGliderCheckerEnabled(enabled bool) { e.gliderDisabled = !enabled }

// SetSweepCheckerEnabled arms or disables the sweep hang checker.
func (e *HangExecutor) SetSweepCheckerEnabled(enabled bool) { e.sweepDisabled = !enabled }

// SetGrid attaches a grid-reachability oracle and the locator that maps a
// compiled block index back to its (x, y, heading) grid coordinate,
// activating the no-exit checker. Without one, DetectedHang is never
// reported by that checker.
func (e *HangExecutor) SetGrid(grid hang.Grid, locator hang.BlockLocator) {
	if grid == nil {
		e.noExitChecker = nil
		e.noExitLocator = nil
		return
	}
	e.noExitChecker = hang.NewNoExitChecker(grid)
	e.noExitLocator = locator
	e.enabledCheckers.Add(checkerNoExit)
}

// NumSteps returns the number of language-level instructions executed so
// far in the current run.
func (e *HangExecutor) NumSteps() int { return e.numSteps }

// Tape implements hang.ExecutionState.
func (e *HangExecutor) Tape() *program.Tape { return e.tape }

// RunSummary implements hang.ExecutionState.
func (e *HangExecutor) RunSummary() *runsummary.RunSummary { return e.runSummary }

// MetaRunSummary implements hang.ExecutionState.
func (e *HangExecutor) MetaRunSummary() *runsummary.MetaRunSummary { return e.metaRunSummary }

// DetectedHangChecker returns the checker that proved the last DetectedHang
// result, or nil if none did (including when the result was AssumedHang).
func (e *HangExecutor) DetectedHangChecker() hang.Checker { return e.detectedBy }

func (e *HangExecutor) resetHangDetection() {
	e.tape = program.NewTape()
	e.runSummary.Reset()
	e.metaRunSummary.Reset()
	e.metaMetaRunSummary.Reset()
	e.runTransitions = transitions.New(transitions.DefaultCapacity)
	e.lastRunBlockSeq = -1
	e.lastMetaBlockSeq = -1
	e.periodicChecker.Reset()
	e.gliderChecker.Reset()
	e.sweepChecker.Reset()
	if e.noExitChecker != nil {
		e.noExitChecker.Reset()
	}
	e.activeChecker = nil
	e.metaLoopAnalysis = metaloop.Analysis{}
	e.metaLoopAnalyzed = false
	e.detectedBy = nil
	e.enabledCheckers.Clear()
	if e.noExitChecker != nil {
		e.enabledCheckers.Add(checkerNoExit)
	}
}

// Execute runs the program starting at entryBlock until it terminates,
// is proven or assumed to hang, or errors.
func (e *HangExecutor) Execute(entryBlock *program.Block) RunResult {
	e.numSteps = 0
	e.tape = program.NewTape()
	e.block = entryBlock

	result := e.executeWithoutHangDetection(e.hangDetectionStart)
	e.hangDetectionStart = 0
	if result != Unknown {
		return result
	}

	limit := e.numSteps + e.maxHangDetectionSteps
	if limit > e.maxSteps {
		limit = e.maxSteps
	}
	result = e.executeWithHangDetection(limit)
	if result != Unknown {
		return result
	}

	result = e.executeWithoutHangDetection(e.maxSteps)
	if result != Unknown {
		return result
	}

	return AssumedHang
}

func (e *HangExecutor) executeBlock() RunResult {
	if !e.block.IsFinalized() {
		return ProgramError
	}
	if e.block.IsHang() {
		return DetectedHang
	}

	e.numSteps += e.block.NumSteps()

	if e.block.IsExit() {
		return Success
	}

	if e.block.IsDelta() {
		e.tape.Delta(e.block.Amount())
	} else if !e.tape.Shift(e.block.Amount(), e.tapeCapacity) {
		return DataError
	}

	if e.tape.Val() == 0 {
		e.block = e.block.ZeroBlock()
	} else {
		e.block = e.block.NonZeroBlock()
	}

	return Unknown
}

func (e *HangExecutor) executeWithoutHangDetection(stepLimit int) RunResult {
	result := Unknown
	for result == Unknown && e.numSteps < stepLimit {
		result = e.executeBlock()
	}
	return result
}

func (e *HangExecutor) executeWithHangDetection(stepLimit int) RunResult {
	e.resetHangDetection()

	for e.numSteps < stepLimit {
		runBlockAdded := e.runSummary.RecordProgramBlock(e.block.Index())
		if runBlockAdded {
			e.onNewRunBlock()
		}

		result := e.executeBlock()
		if result != Unknown {
			return result
		}

		// Checkers assume the tape is positioned at a loop's reference entry
		// dp, which only holds once a whole number of iterations has run
		// (spec.md §2/§4.11: checkers fire "when the first-level summary
		// reports the end of a loop iteration").
		if e.runSummary.IsInsideLoop() && e.runSummary.IsAtEndOfLoop() {
			if verdict := e.checkForHang(); verdict == hang.Yes {
				return DetectedHang
			}
		}
	}

	return Unknown
}

func (e *HangExecutor) onNewRunBlock() {
	newSeq := e.runSummary.LastRunBlock().SequenceID()
	if e.lastRunBlockSeq != -1 {
		e.runTransitions.Record(e.lastRunBlockSeq, newSeq)
	}
	e.lastRunBlockSeq = newSeq

	if e.metaRunSummary.RecordRunBlock(newSeq) {
		newMetaSeq := e.metaRunSummary.LastRunBlock().SequenceID()
		e.lastMetaBlockSeq = newMetaSeq
		e.metaMetaRunSummary.RecordRunBlock(newMetaSeq)

		// A newly closed run block invalidates any meta-loop analysis keyed
		// to the window it falls in; it is re-established below, lazily,
		// once the meta-run summary is inside a loop again.
		e.metaLoopAnalyzed = false
		e.activeChecker = nil
	}
}

// checkForHang tries, in order, the checkers whose preconditions are
// currently met: the no-exit checker first, when a grid is attached; then a
// directly repeating loop at the program-block level, which is cheap to
// check; failing that, a meta-loop pattern
// one level up is analyzed and handed to whichever of the glider or sweep
// checkers recognizes its shape.
func (e *HangExecutor) checkForHang() hang.Trilian {
	if e.noExitChecker != nil && e.noExitLocator != nil {
		if x, y, heading, ok := e.noExitLocator.Locate(e.block.Index()); ok {
			if verdict := e.noExitChecker.ProofHangFrom(x, y, heading, e.tape.Val() == 0); verdict == hang.Yes {
				e.detectedBy = e.noExitChecker
				return hang.Yes
			}
		}
	}

	if !e.periodicDisabled {
		if last := e.runSummary.LastRunBlock(); last.IsLoop() {
			if loop, ok := seqan.AnalyzeLoop(e.runSummary.BlocksForRunBlock(e.runSummary.NumRunBlocks() - 1)); ok {
				e.periodicChecker.Init(loop, last.StartIndex())
				e.enabledCheckers.Add(checkerPeriodic)
				verdict := e.periodicChecker.ProofHang(e)
				if verdict == hang.Yes {
					e.detectedBy = e.periodicChecker
					return hang.Yes
				}
			}
		}
	}

	// Same reasoning one level up: the glider/sweep checkers read the live
	// meta-loop's loop behaviors, which are only valid at a meta-loop
	// iteration boundary.
	if !e.metaRunSummary.IsInsideLoop() || !e.metaRunSummary.IsAtEndOfLoop() {
		return hang.Maybe
	}

	if !e.metaLoopAnalyzed {
		analysis, ok := metaloop.AnalyzeMetaLoop(e.arena, e.runSummary, e.metaRunSummary)
		if !ok {
			return hang.Maybe
		}
		e.metaLoopAnalysis = analysis
		e.metaLoopAnalyzed = true
		e.activeChecker = nil

		if !e.gliderDisabled && e.gliderChecker.Init(&e.metaLoopAnalysis) {
			e.activeChecker = e.gliderChecker
			e.enabledCheckers.Add(checkerGlider)
		} else if !e.sweepDisabled && e.sweepChecker.Init(&e.metaLoopAnalysis) {
			e.activeChecker = e.sweepChecker
			e.enabledCheckers.Add(checkerSweep)
		}
	} else if !e.metaLoopAnalysis.IsAnalysisStillValid(e.runSummary, e.runSummary.NumRunBlocks()-1) {
		e.metaLoopAnalyzed = false
		e.activeChecker = nil
		return hang.Maybe
	}

	if e.activeChecker == nil {
		return hang.Maybe
	}

	verdict := e.activeChecker.ProofHang(e)
	if verdict == hang.Yes {
		e.detectedBy = e.activeChecker
	}
	return verdict
}
