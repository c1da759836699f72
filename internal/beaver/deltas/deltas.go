// Package deltas implements the sparse offset->delta bag used throughout the
// hang-analysis pipeline to describe the net effect a sequence of program
// blocks has on the data tape.
package deltas

// DataDelta is a single (dpOffset, delta) entry. A DataDelta with delta == 0
// carries no information and is never stored in a DataDeltas bag.
type DataDelta struct {
	dpOffset int
	delta    int
}

// New builds a standalone DataDelta value, e.g. for recording a per-step
// effective result entry outside of a DataDeltas bag.
func New(dpOffset, delta int) DataDelta {
	return DataDelta{dpOffset: dpOffset, delta: delta}
}

// DpOffset returns the position of this entry relative to the sequence's
// reference dp.
func (d DataDelta) DpOffset() int { return d.dpOffset }

// Delta returns how much the value at DpOffset changes.
func (d DataDelta) Delta() int { return d.delta }

// DataDeltas is an unordered multiset-like collection of DataDelta values, at
// most one per dpOffset. Min/max offsets are cached lazily and invalidated by
// any mutation.
type DataDeltas struct {
	entries []DataDelta

	boundsValid bool
	minDp       int
	maxDp       int
}

// Clear empties the bag.
func (d *DataDeltas) Clear() {
	d.entries = d.entries[:0]
	d.boundsValid = false
}

// NumDeltas returns the number of stored entries.
func (d *DataDeltas) NumDeltas() int { return len(d.entries) }

// DeltaAt returns the i-th stored entry, in storage order. Order carries no
// semantic meaning.
func (d *DataDeltas) DeltaAt(i int) DataDelta { return d.entries[i] }

// All returns the stored entries for iteration. The returned slice must not
// be mutated by the caller.
func (d *DataDeltas) All() []DataDelta { return d.entries }

// ValueAt returns the effective delta at dpOffset, or 0 if absent.
func (d *DataDeltas) ValueAt(dpOffset int) int {
	for _, e := range d.entries {
		if e.dpOffset == dpOffset {
			return e.delta
		}
	}
	return 0
}

// UpdateDelta adds delta to the entry at dpOffset (creating it if absent) and
// removes the entry if the result cancels to zero. It returns the resulting
// (possibly zero) delta.
func (d *DataDeltas) UpdateDelta(dpOffset int, delta int) int {
	d.boundsValid = false

	for i := range d.entries {
		if d.entries[i].dpOffset == dpOffset {
			d.entries[i].delta += delta
			if d.entries[i].delta == 0 {
				last := len(d.entries) - 1
				d.entries[i] = d.entries[last]
				d.entries = d.entries[:last]
				return 0
			}
			return d.entries[i].delta
		}
	}

	if delta == 0 {
		return 0
	}
	d.entries = append(d.entries, DataDelta{dpOffset: dpOffset, delta: delta})
	return delta
}

// AddDelta is a fast path for UpdateDelta when the caller has already
// verified (via ValueAt) that no entry exists yet for dpOffset.
func (d *DataDeltas) AddDelta(dpOffset int, delta int) {
	if delta == 0 {
		return
	}
	d.boundsValid = false
	d.entries = append(d.entries, DataDelta{dpOffset: dpOffset, delta: delta})
}

func (d *DataDeltas) updateBounds() {
	d.minDp, d.maxDp = 0, 0
	for _, e := range d.entries {
		if e.dpOffset < d.minDp {
			d.minDp = e.dpOffset
		}
		if e.dpOffset > d.maxDp {
			d.maxDp = e.dpOffset
		}
	}
	d.boundsValid = true
}

// MinDpOffset returns the smallest stored offset (0 if the bag is empty or
// all offsets are non-negative).
func (d *DataDeltas) MinDpOffset() int {
	if !d.boundsValid {
		d.updateBounds()
	}
	return d.minDp
}

// MaxDpOffset returns the largest stored offset (0 if the bag is empty or
// all offsets are non-positive).
func (d *DataDeltas) MaxDpOffset() int {
	if !d.boundsValid {
		d.updateBounds()
	}
	return d.maxDp
}
