package hang

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erwinbonsma/beaverfind/internal/beaver/metaloop"
)

func TestSweepHangChecker_Init_RejectsEmptyAnalysis(t *testing.T) {
	c := &SweepHangChecker{}
	ok := c.Init(&metaloop.Analysis{})

	assert.False(t, ok, "an analysis with no sweep loops never forms a two-ended sweep")
}

func TestSweepHangChecker_ProofHang_IsAlwaysMaybe(t *testing.T) {
	c := &SweepHangChecker{}
	assert.Equal(t, Maybe, c.ProofHang(nil))
}

func TestSweepHangChecker_Reset(t *testing.T) {
	c := &SweepHangChecker{groups: [2]TransitionGroup{{EndType: SteadyGrowth}, {}}}
	c.Reset()
	assert.Nil(t, c.mla)
	assert.Equal(t, [2]TransitionGroup{}, c.groups)
}

func TestSweepHangChecker_Groups(t *testing.T) {
	c := &SweepHangChecker{groups: [2]TransitionGroup{{EndType: SteadyGrowth}, {EndType: FixedPointConstantValue}}}
	groups := c.Groups()
	assert.Equal(t, SteadyGrowth, groups[0].EndType)
	assert.Equal(t, FixedPointConstantValue, groups[1].EndType)
}
