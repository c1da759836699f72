package seqan

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/erwinbonsma/beaverfind/internal/beaver/deltas"
	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
)

// MaxLoopSize caps the number of instructions a loop analysis will process,
// mirroring the original's maxLoopSize guard in MetaLoopAnalysis.
const MaxLoopSize = 128

// Operator is the comparison an ExitCondition applies to a tape value.
type Operator int8

const (
	OpEQ Operator = iota
	OpNE
	OpLE
	OpGE
)

// ExitCondition pairs an operator, a value, and the dpOffset it applies to,
// plus a congruence modulus (default 1, i.e. no additional restriction).
type ExitCondition struct {
	Op       Operator
	Value    int
	DpOffset int
	Modulus  int
}

func normMod(v, mod int) int {
	if mod <= 1 {
		return 0
	}
	m := v % mod
	if m < 0 {
		m += mod
	}
	return m
}

// HoldsForValue evaluates the condition for a concrete tape value.
func (e ExitCondition) HoldsForValue(v int) bool {
	switch e.Op {
	case OpEQ:
		return v == e.Value
	case OpNE:
		return v != e.Value
	case OpLE:
		if v > e.Value {
			return false
		}
	case OpGE:
		if v < e.Value {
			return false
		}
	}
	if e.Modulus <= 1 {
		return true
	}
	return normMod(v, e.Modulus) == normMod(e.Value, e.Modulus)
}

// ExitWindow classifies the reachability of a per-instruction exit.
type ExitWindow int8

const (
	Anytime ExitWindow = iota
	Bootstrap
	Never
)

// LoopExit pairs an ExitCondition with its reachability classification, one
// per instruction in the loop.
type LoopExit struct {
	Condition     ExitCondition
	Window        ExitWindow
	FirstForValue bool
}

// LoopResult extends Result with loop-specific fields.
type LoopResult struct {
	Result

	SquashedDeltas      deltas.DataDeltas
	NumBootstrapCycles  int
	Exits               []LoopExit
}

func exitsOnZero(blocks []*program.Block, i int) bool {
	cur := blocks[i]
	next := blocks[(i+1)%len(blocks)]
	return cur.NonZeroBlock() == next
}

// AnalyzeLoop analyzes one period of a loop's instructions (blocks[0] is the
// entry instruction). It returns false if the loop is too large to analyze.
func AnalyzeLoop(blocks []*program.Block) (LoopResult, bool) {
	if len(blocks) > MaxLoopSize {
		return LoopResult{}, false
	}

	seq := AnalyzeSequence(blocks)
	r := LoopResult{
		Result: seq,
		Exits:  make([]LoopExit, len(blocks)),
	}

	if r.DpDelta == 0 {
		initExitsForStationaryLoop(blocks, &r)
		r.NumBootstrapCycles = 0
	} else {
		squashDeltas(r.DpDelta, &r)
		initExitsForTravellingLoop(blocks, &r)
		r.NumBootstrapCycles = (r.MaxDp - r.MinDp) / absInt(r.DpDelta)
	}

	return r, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// squashDeltas reduces the net per-offset deltas modulo |dpDelta|, folding
// together offsets that belong to the same steady-state residue class.
func squashDeltas(dpDelta int, r *LoopResult) {
	items := append([]deltas.DataDelta(nil), r.Deltas.All()...)

	canon := func(offset int) int {
		m := offset % dpDelta
		if m*dpDelta < 0 {
			m += dpDelta
		}
		return m
	}

	i := 0
	for i < len(items) {
		mod := canon(items[i].DpOffset())

		j := len(items)
		for {
			j--
			if j <= i {
				break
			}
			mod2 := canon(items[j].DpOffset())
			if mod == mod2 {
				items[i] = deltas.New(items[i].DpOffset(), items[i].Delta()+items[j].Delta())
				last := len(items) - 1
				if j != last {
					items[j] = items[last]
				}
				items = items[:last]
			}
		}

		if items[i].Delta() == 0 {
			last := len(items) - 1
			if i != last {
				items[i] = items[last]
			}
			items = items[:last]
		} else {
			items[i] = deltas.New(mod, items[i].Delta())
			i++
		}
	}

	for _, it := range items {
		r.SquashedDeltas.AddDelta(it.DpOffset(), it.Delta())
	}
}

// DeltaAt returns the delta realized by the loop at dpOffset, assuming it
// runs endlessly: for stationary loops this is the raw per-iteration net
// delta; for travelling loops it is the squashed, residue-indexed delta.
func (r *LoopResult) DeltaAt(dpOffset int) int {
	if r.DpDelta == 0 {
		return r.Deltas.ValueAt(dpOffset)
	}
	m := dpOffset % r.DpDelta
	if m*r.DpDelta < 0 {
		m += r.DpDelta
	}
	return r.SquashedDeltas.ValueAt(m)
}

// AllValuesToBeConsumedAreZero checks, for a travelling loop just about to
// start an iteration, whether the tape ahead (in the direction of travel)
// is entirely virgin/zero — the precondition for the periodic checker's
// first phase to consider the loop hanging.
func (r *LoopResult) AllValuesToBeConsumedAreZero(tape *program.Tape) bool {
	if r.DpDelta == 0 {
		return false
	}
	return tape.OnlyZerosAhead(tape.Dp(), r.DpDelta > 0)
}

func initExitsForStationaryLoop(blocks []*program.Block, r *LoopResult) {
	for i := range blocks {
		eff := r.EffectiveResult[i]
		dp := eff.DpOffset()
		currentDelta := eff.Delta()
		finalDelta := r.Deltas.ValueAt(dp)

		if finalDelta == 0 {
			op := OpNE
			if exitsOnZero(blocks, i) {
				op = OpEQ
			}
			r.Exits[i] = LoopExit{
				Condition: ExitCondition{Op: op, Value: -currentDelta, DpOffset: dp, Modulus: 1},
				Window:    Bootstrap,
			}
		} else {
			op := OpGE
			if finalDelta > 0 {
				op = OpLE
			}
			r.Exits[i] = LoopExit{
				Condition: ExitCondition{Op: op, Value: -currentDelta, DpOffset: dp, Modulus: absInt(finalDelta)},
				Window:    Anytime,
			}
		}
	}

	identifyBootstrapOnlyExitsForStationaryLoop(r)
	markUnreachableExitsForStationaryLoop(blocks, r)
}

func identifyBootstrapOnlyExitsForStationaryLoop(r *LoopResult) {
	for i := len(r.Exits) - 1; i >= 0; i-- {
		if r.Exits[i].Window != Anytime {
			continue
		}
		eff := r.EffectiveResult[i]
		dp := eff.DpOffset()
		delta := eff.Delta()
		mc := r.Exits[i].Condition.Modulus
		sign := 1
		if r.Exits[i].Condition.Op == OpGE {
			sign = -1
		}
		deltaMod := normMod(delta, mc)

		for j := i - 1; j >= 0; j-- {
			if r.EffectiveResult[j].DpOffset() != dp {
				continue
			}
			delta2 := r.EffectiveResult[j].Delta()
			delta2Mod := normMod(delta2, mc)
			if delta2Mod != deltaMod {
				continue
			}

			k := i
			if delta2 == delta || (sign > 0 && delta2 > delta) || (sign < 0 && delta2 < delta) {
				k = i
			} else {
				k = j
			}

			if k == j {
				r.Exits[k].Window = Bootstrap
			} else {
				r.Exits[k].Window = Never
			}
			r.Exits[k].Condition.Op = OpEQ
			r.Exits[k].Condition.Modulus = 1
		}
	}
}

func markUnreachableExitsForStationaryLoop(blocks []*program.Block, r *LoopResult) {
	for i := len(blocks) - 1; i >= 0; i-- {
		if exitsOnZero(blocks, i) {
			continue
		}
		dp := r.EffectiveResult[i].DpOffset()
		for j := i + 1; j < len(blocks); j++ {
			if r.EffectiveResult[j].DpOffset() != dp {
				continue
			}
			if !r.Exits[j].Condition.HoldsForValue(r.EffectiveResult[j].Delta() - r.EffectiveResult[i].Delta()) {
				r.Exits[j].Window = Never
			}
		}
	}
}

func initExitsForTravellingLoop(blocks []*program.Block, r *LoopResult) {
	for i := range blocks {
		eff := r.EffectiveResult[i]
		op := OpNE
		if exitsOnZero(blocks, i) {
			op = OpEQ
		}
		r.Exits[i] = LoopExit{
			Condition: ExitCondition{Op: op, Value: -eff.Delta(), DpOffset: eff.DpOffset(), Modulus: 1},
			Window:    Anytime,
		}
	}

	identifyBootstrapOnlyExitsForTravellingLoop(blocks, r)
}

const unsetFixedValue = math.MaxInt32

func identifyBootstrapOnlyExitsForTravellingLoop(blocks []*program.Block, r *LoopResult) {
	n := len(blocks)
	indices := make([]int, n)
	cumDelta := make([]int, n)
	fixedExitValue := make([]int, n)
	for i := range blocks {
		indices[i] = i
		fixedExitValue[i] = unsetFixedValue
	}

	ad := absInt(r.DpDelta)
	ascendingDp := r.DpDelta < 0

	// Sort indices by the order in which the loop's instructions inspect
	// new data values: by dpOffset descending if the loop travels in the
	// positive direction, ascending otherwise; ties broken by instruction
	// index.
	slices.SortFunc(indices, func(a, b int) bool {
		diffA := r.EffectiveResult[a].DpOffset()
		diffB := r.EffectiveResult[b].DpOffset()
		if diffA == diffB {
			return a < b
		}
		if ascendingDp {
			return diffA < diffB
		}
		return diffA > diffB
	})

	mod := func(offset int) int {
		return normMod(offset, ad)
	}

	for ii, i := range indices {
		m := mod(r.EffectiveResult[i].DpOffset())
		foundOne := false

		if !exitsOnZero(blocks, i) {
			fixedExitValue[i] = 0
		}

		for jj := ii - 1; jj >= 0; jj-- {
			j := indices[jj]
			m2 := mod(r.EffectiveResult[j].DpOffset())
			if m != m2 {
				continue
			}

			if !foundOne {
				foundOne = true
				cumDelta[i] = cumDelta[j]
				if blocks[i].IsDelta() {
					cumDelta[i] += blocks[i].Amount()
				}
				if fixedExitValue[j] != unsetFixedValue {
					fixedExitValue[i] = fixedExitValue[j]
					if blocks[i].IsDelta() {
						fixedExitValue[i] += blocks[i].Amount()
					}
				}
			}

			sameValueExits := cumDelta[i] == cumDelta[j]
			fixedBlocksLater := fixedExitValue[j] != unsetFixedValue &&
				!exitsOnZero(blocks, j) &&
				!r.Exits[i].Condition.HoldsForValue(fixedExitValue[i])

			if sameValueExits || fixedBlocksLater {
				if r.EffectiveResult[i].DpOffset() == r.EffectiveResult[j].DpOffset() {
					r.Exits[i].Window = Never
					break
				}
				r.Exits[i].Window = Bootstrap
			}
		}

		if !foundOne {
			r.Exits[i].FirstForValue = true
		}
	}
}
