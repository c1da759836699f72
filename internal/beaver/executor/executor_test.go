package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erwinbonsma/beaverfind/internal/beaver/hang"
	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
)

func TestHangExecutor_ImmediateExit(t *testing.T) {
	arena := program.NewArena()
	entry := arena.Add()
	entry.FinalizeExit(3)

	exec := New(arena, 100, 100)
	result := exec.Execute(entry)

	assert.Equal(t, Success, result)
	assert.Equal(t, 3, exec.NumSteps())
}

func TestHangExecutor_ProgramErrorOnUnfinalizedBlock(t *testing.T) {
	arena := program.NewArena()
	entry := arena.Add() // never finalized

	exec := New(arena, 100, 100)
	result := exec.Execute(entry)

	assert.Equal(t, ProgramError, result)
}

func TestHangExecutor_DataErrorOnOutOfBoundsShift(t *testing.T) {
	arena := program.NewArena()
	entry := arena.Add()
	entry.Finalize(false, 1000, 1, nil, nil)

	exec := New(arena, 10, 100)
	result := exec.Execute(entry)

	assert.Equal(t, DataError, result)
}

// A single *dp += 1 instruction that always loops back on itself: the tape
// value at dp only ever grows, so the generated exit condition can never
// hold and the periodic checker proves it hangs.
func TestHangExecutor_DetectsPeriodicHang(t *testing.T) {
	arena := program.NewArena()
	b0 := arena.Add()
	bExit := arena.Add()
	bExit.FinalizeExit(0)
	b0.Finalize(true, 1, 1, bExit, b0)

	exec := New(arena, 100, 100)
	result := exec.Execute(b0)

	require.Equal(t, DetectedHang, result)
	assert.Equal(t, 2, exec.NumSteps(), "the loop must repeat once before periodic analysis can run")
	checker := exec.DetectedHangChecker()
	require.NotNil(t, checker)
	_, ok := checker.(*hang.PeriodicHangChecker)
	assert.True(t, ok)
}

func TestHangExecutor_PeriodicCheckerCanBeDisabled(t *testing.T) {
	arena := program.NewArena()
	b0 := arena.Add()
	bExit := arena.Add()
	bExit.FinalizeExit(0)
	b0.Finalize(true, 1, 1, bExit, b0)

	exec := New(arena, 100, 20)
	exec.SetMaxSteps(20)
	exec.SetPeriodicCheckerEnabled(false)

	result := exec.Execute(b0)
	assert.Equal(t, AssumedHang, result, "with every checker disabled the executor falls back to the step budget")
}
