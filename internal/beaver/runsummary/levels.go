package runsummary

import "github.com/erwinbonsma/beaverfind/internal/beaver/program"

// RunSummary is the first-level summarizer: its unit stream is the sequence
// of program-block indices the interpreter actually executed.
type RunSummary struct {
	*Summary

	arena   *program.Arena
	history []int
}

// NewRunSummary returns an empty first-level summarizer over blocks
// allocated from arena.
func NewRunSummary(arena *program.Arena) *RunSummary {
	return &RunSummary{Summary: New(), arena: arena}
}

// Len implements History.
func (r *RunSummary) Len() int { return len(r.history) }

// UnitIDAt implements History.
func (r *RunSummary) UnitIDAt(i int) int { return r.history[i] }

// NumUnitsProcessed returns how many program blocks have been recorded.
func (r *RunSummary) NumUnitsProcessed() int { return len(r.history) }

// RecordProgramBlock appends the index of an executed program block to the
// run history and re-summarizes. It returns true if new RunBlocks were
// created as a result.
func (r *RunSummary) RecordProgramBlock(blockIndex int) bool {
	r.history = append(r.history, blockIndex)
	return r.Update(r)
}

// Reset clears all recorded history.
func (r *RunSummary) Reset() {
	r.Summary.Reset()
	r.history = r.history[:0]
}

// BlocksForRunBlock returns the program blocks executed by one period of
// the run block at runBlockIndex: for a loop, its period-length instruction
// cycle; for a plain sequence, its full (possibly still-open) length.
func (r *RunSummary) BlocksForRunBlock(runBlockIndex int) []*program.Block {
	rb := r.RunBlockAt(runBlockIndex)
	length := rb.LoopPeriod()
	if length == 0 {
		length = r.RunBlockLength(runBlockIndex)
	}

	blocks := make([]*program.Block, length)
	for i := 0; i < length; i++ {
		blocks[i] = r.arena.At(r.history[rb.StartIndex()+i])
	}
	return blocks
}

// DpDelta returns how much the data pointer moves executing the run blocks
// from firstRunBlock up to (excluding) lastRunBlock.
func (r *RunSummary) DpDelta(firstRunBlock, lastRunBlock int) int {
	start := r.RunBlockAt(firstRunBlock).StartIndex()
	end := len(r.history)
	if lastRunBlock < r.NumRunBlocks() {
		end = r.RunBlockAt(lastRunBlock).StartIndex()
	}

	delta := 0
	for i := start; i < end; i++ {
		b := r.arena.At(r.history[i])
		if b.IsShift() {
			delta += b.Amount()
		}
	}
	return delta
}

// MetaRunSummary is the second-level summarizer: its unit stream is the
// sequenceId a first-level RunSummary emits for each of its RunBlocks. It
// exposes meta-loops: loops made of repeating patterns of first-level run
// blocks.
type MetaRunSummary struct {
	*Summary

	history []int
}

// NewMetaRunSummary returns an empty second-level summarizer.
func NewMetaRunSummary() *MetaRunSummary {
	return &MetaRunSummary{Summary: New()}
}

// Len implements History.
func (m *MetaRunSummary) Len() int { return len(m.history) }

// UnitIDAt implements History.
func (m *MetaRunSummary) UnitIDAt(i int) int { return m.history[i] }

// RecordRunBlock appends a first-level RunBlock's sequenceId to the meta
// history and re-summarizes. It returns true if new meta RunBlocks were
// created as a result.
func (m *MetaRunSummary) RecordRunBlock(sequenceID int) bool {
	m.history = append(m.history, sequenceID)
	return m.Update(m)
}

// Reset clears all recorded history.
func (m *MetaRunSummary) Reset() {
	m.Summary.Reset()
	m.history = m.history[:0]
}
