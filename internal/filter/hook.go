package filter

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/erwinbonsma/beaverfind/internal/beaver/executor"
)

// HangReport is the data passed to a HangReportHook for each resolved
// candidate, in a shape a goja script can read directly as object
// properties.
type HangReport struct {
	Signature string `json:"signature"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Verdict   string `json:"verdict"`
	Steps     int    `json:"steps"`
}

// HangReportHook runs a user-supplied JS callback (named `onHang`) against
// every DETECTED_HANG/ASSUMED_HANG verdict the enumerator resolves, for
// custom triage — e.g. logging only hangs above a step threshold, or
// filtering by grid shape — without recompiling the search binary.
type HangReportHook struct {
	vm *goja.Runtime
	fn goja.Callable
}

// NewHangReportHook compiles script, which must define a top-level
// function `onHang(report)`.
func NewHangReportHook(script string) (*HangReportHook, error) {
	vm := goja.New()
	if _, err := vm.RunString(script); err != nil {
		return nil, fmt.Errorf("filter: compiling hang-report hook: %w", err)
	}

	fnVal := vm.Get("onHang")
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return nil, fmt.Errorf("filter: hang-report hook must define function onHang(report)")
	}

	return &HangReportHook{vm: vm, fn: fn}, nil
}

// Invoke calls the script's onHang callback for a resolved verdict. It is
// only meaningful for the two hang-type results; callers should not invoke
// it for SUCCESS/DATA_ERROR/PROGRAM_ERROR.
func (h *HangReportHook) Invoke(report HangReport) error {
	if h == nil {
		return nil
	}
	arg := h.vm.ToValue(report)
	_, err := h.fn(goja.Undefined(), arg)
	return err
}

// ShouldReport reports whether result is one of the two verdicts a
// HangReportHook is invoked for.
func ShouldReport(result executor.RunResult) bool {
	return result == executor.DetectedHang || result == executor.AssumedHang
}
