package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/erwinbonsma/beaverfind/internal/beaver/executor"
)

// TestMain guards against goroutine leaks from the rate limiter / prometheus
// collectors a Tracker wires together: none of them should outlive the test
// that constructed them.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTracker_RecordResult_AccumulatesSteps(t *testing.T) {
	tr := New()

	tr.RecordResult(executor.Success, 5, "")
	tr.RecordResult(executor.DetectedHang, 3, "periodic")

	assert.Equal(t, int64(8), tr.TotalSteps().Int64())
}

func TestTracker_RecordResult_AssumedHangLabelsUnlabeled(t *testing.T) {
	tr := New()
	tr.RecordResult(executor.AssumedHang, 1, "")

	reg := tr.Registry()
	families, err := reg.Gather()
	assert.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "beaverfind_hangs_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "checker" && l.GetValue() == "assumed" {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "an AssumedHang with no checker name should be labeled \"assumed\"")
}

func TestTracker_SessionIDIsUnique(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a.SessionID, b.SessionID)
}
