// Package dump renders the run-summary hierarchy for human inspection,
// reproducing the bracketed and condensed formats
// `original_source/BusyBeaverFinder/RunSummary.cpp`'s `dump`/`dumpCondensed`
// print to stdout, plus a go-spew based renderer for the richer analyzer
// structs (SequenceAnalysis, LoopAnalysis) that format doesn't cover.
package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/erwinbonsma/beaverfind/internal/beaver/runsummary"
	"github.com/erwinbonsma/beaverfind/internal/beaver/seqan"
)

// RunSummary writes rs as a bracketed run-block stream, one token per run
// block, each followed by a space: "#<sequenceId>(<units>)" for a plain
// sequence, "#<sequenceId>[<one period of units>]" for a loop, mirroring
// RunSummary::dump() in the original.
func RunSummary(w io.Writer, rs *runsummary.RunSummary) {
	for i := 0; i < rs.NumRunBlocks(); i++ {
		rb := rs.RunBlockAt(i)
		open, shut := "(", ")"
		length := rb.LoopPeriod()
		if rb.IsLoop() {
			open, shut = "[", "]"
		}
		if length == 0 {
			length = rs.RunBlockLength(i)
		}

		fmt.Fprintf(w, "#%d%s", rb.SequenceID(), open)
		for k := 0; k < length; k++ {
			if k > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%d", rs.UnitIDAt(rb.StartIndex()+k))
		}
		fmt.Fprintf(w, "%s ", shut)
	}
	fmt.Fprintln(w)
}

// RunSummaryCondensed writes rs as a one-line summary with one
// space-separated token per run block ("#3*4.1" for a loop that ran 4 full iterations plus 1 extra unit, "#3"
// for a plain sequence), followed by a legend of each distinct sequenceId's
// unit sequence, mirroring RunSummary::dumpCondensed().
func RunSummaryCondensed(w io.Writer, rs *runsummary.RunSummary) {
	for i := 0; i < rs.NumRunBlocks(); i++ {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		rb := rs.RunBlockAt(i)
		fmt.Fprintf(w, "#%d", rb.SequenceID())
		if rb.IsLoop() {
			length := rs.RunBlockLength(i)
			period := rb.LoopPeriod()
			fmt.Fprintf(w, "*%d.%d", length/period, length%period)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "with:")
	seen := make(map[int]bool)
	for i := 0; i < rs.NumRunBlocks(); i++ {
		rb := rs.RunBlockAt(i)
		if seen[rb.SequenceID()] {
			continue
		}
		seen[rb.SequenceID()] = true

		length := rs.RunBlockLength(i)
		if rb.IsLoop() {
			length = rb.LoopPeriod()
		}

		fmt.Fprintf(w, "%d =", rb.SequenceID())
		for k := 0; k < length; k++ {
			fmt.Fprintf(w, " %d", rs.UnitIDAt(rb.StartIndex()+k))
		}
		fmt.Fprintln(w)
	}
}

// SequenceTree writes the shared sequence trie, one line per distinct unit
// sequence assigned a sequenceId so far, mirroring dumpSequenceTree().
func SequenceTree(w io.Writer, rs *runsummary.RunSummary) {
	rs.DumpSequenceTree(w)
}

// spewConfig adapts a seqan.Result/LoopResult's exported fields to a
// stable go-spew rendering: spew.Sdump happily walks the nested
// deltas.DataDeltas and map[int][]PreCondition fields without any manual
// field-by-field formatting.
var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Sequence renders a SequenceAnalysis result for debugging.
func Sequence(r seqan.Result) string {
	return strings.TrimRight(spewConfig.Sdump(r), "\n")
}

// Loop renders a LoopAnalysis result for debugging.
func Loop(r seqan.LoopResult) string {
	return strings.TrimRight(spewConfig.Sdump(r), "\n")
}
