// Package transitions tracks, per run-block sequenceId, which other
// sequenceIds are observed to follow it. It is a diagnostic aid: the hang
// executor records into it, and no hang checker reads it; it never
// participates in a soundness argument.
package transitions

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCapacity is the number of destination entries retained per source
// sequenceId before the least-recently-seen entry is evicted.
const DefaultCapacity = 4

type destCount struct {
	count int
}

// Table records, for each source sequenceId, a small bounded LRU map from
// destination sequenceId to occurrence count. LRU eviction, keyed on last
// access, realizes the "evict entry with smallest lastOccurrence" policy.
type Table struct {
	capacity int
	bySource map[int]*lru.Cache
}

// New returns an empty transition table with the given per-source capacity.
// A capacity of 0 selects DefaultCapacity.
func New(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{capacity: capacity, bySource: make(map[int]*lru.Cache)}
}

// Record notes that a run block with sequenceId src was immediately
// followed by one with sequenceId dst.
func (t *Table) Record(src, dst int) {
	c, ok := t.bySource[src]
	if !ok {
		// Error is only possible for a non-positive size, which New guards
		// against.
		c, _ = lru.New(t.capacity)
		t.bySource[src] = c
	}

	if v, ok := c.Get(dst); ok {
		c.Add(dst, destCount{count: v.(destCount).count + 1})
		return
	}
	c.Add(dst, destCount{count: 1})
}

// Count returns how many times dst has been observed to directly follow
// src, or 0 if never observed or evicted.
func (t *Table) Count(src, dst int) int {
	c, ok := t.bySource[src]
	if !ok {
		return 0
	}
	if v, ok := c.Peek(dst); ok {
		return v.(destCount).count
	}
	return 0
}

// Destinations returns the sequenceIds currently tracked as following src,
// least-recently-used first.
func (t *Table) Destinations(src int) []int {
	c, ok := t.bySource[src]
	if !ok {
		return nil
	}
	keys := c.Keys()
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = k.(int)
	}
	return out
}
