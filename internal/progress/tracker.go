// Package progress implements the search-driver progress tracker: the
// external collaborator spec.md §1 lists alongside the grid enumerator and
// interpreter, reporting throughput and hang-type breakdowns for a
// long-running search. None of it is consulted by the hang-analysis core;
// it only observes RunResults the enumerator feeds it.
package progress

import (
	"math/big"
	"time"

	"github.com/fjl/memsize"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/time/rate"

	"github.com/erwinbonsma/beaverfind/internal/beaver/executor"
)

// Tracker accumulates search-wide counters and periodically samples host
// resource usage, throttling how often it is willing to actually log a
// status line.
type Tracker struct {
	SessionID string

	programsResolved prometheus.Counter
	stepsExecuted     prometheus.Counter
	hangsByType       *prometheus.CounterVec
	checkerConfirms   *prometheus.CounterVec

	totalSteps *big.Int

	logLimiter *rate.Limiter
	printer    *message.Printer

	start time.Time
}

// New returns a Tracker with freshly constructed (unregistered) metrics.
// Call Registry to obtain a *prometheus.Registry suitable for exposing over
// an HTTP handler.
func New() *Tracker {
	return &Tracker{
		SessionID: uuid.New().String(),

		programsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beaverfind_programs_resolved_total",
			Help: "Number of candidate programs the search has resolved to a verdict.",
		}),
		stepsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beaverfind_steps_executed_total",
			Help: "Number of language-level steps executed across all candidates.",
		}),
		hangsByType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beaverfind_hangs_total",
			Help: "Number of DETECTED_HANG and ASSUMED_HANG verdicts, by the checker that proved them (\"assumed\" for ASSUMED_HANG).",
		}, []string{"checker"}),
		checkerConfirms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beaverfind_checker_confirms_total",
			Help: "Number of YES verdicts returned by each hang checker.",
		}, []string{"checker"}),

		totalSteps: new(big.Int),
		logLimiter: rate.NewLimiter(rate.Every(5*time.Second), 1),
		printer:    message.NewPrinter(language.English),
		start:      time.Now(),
	}
}

// Registry returns a prometheus registry with this tracker's metrics
// registered, ready to serve from an HTTP handler.
func (t *Tracker) Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(t.programsResolved, t.stepsExecuted, t.hangsByType, t.checkerConfirms)
	return reg
}

// RecordResult updates the resolved-program and step counters for one
// candidate's outcome, and the hangs-by-type counter when the verdict was
// a hang and checkerName identifies which checker proved it (empty for
// AssumedHang).
func (t *Tracker) RecordResult(result executor.RunResult, steps int, checkerName string) {
	t.programsResolved.Inc()
	t.stepsExecuted.Add(float64(steps))
	t.totalSteps.Add(t.totalSteps, big.NewInt(int64(steps)))

	if result == executor.DetectedHang || result == executor.AssumedHang {
		label := checkerName
		if label == "" {
			label = "assumed"
		}
		t.hangsByType.WithLabelValues(label).Inc()
	}
}

// RecordCheckerConfirm increments the YES-verdict counter for the named
// checker, independent of whether that verdict ultimately won the race
// against another checker for the same candidate.
func (t *Tracker) RecordCheckerConfirm(checkerName string) {
	t.checkerConfirms.WithLabelValues(checkerName).Inc()
}

// TotalSteps returns the running total of executed steps across every
// candidate this tracker has observed, as an arbitrary-precision integer:
// a long search can run far past what an int64 step counter can hold.
func (t *Tracker) TotalSteps() *big.Int { return new(big.Int).Set(t.totalSteps) }

// StatusLine renders a locale-formatted one-line status summary, or the
// empty string if called again before the tracker's log rate limit allows
// another line through.
func (t *Tracker) StatusLine() string {
	if !t.logLimiter.Allow() {
		return ""
	}
	elapsed := time.Since(t.start).Round(time.Second)
	return t.printer.Sprintf("session %s: %d steps in %s", t.SessionID, t.TotalSteps(), elapsed)
}

// HostStats is a point-in-time snapshot of host resource usage, sampled
// alongside search throughput.
type HostStats struct {
	CPUPercent  float64
	UsedMemory  uint64
	TotalMemory uint64
}

// SampleHost reads current CPU and memory usage via gopsutil. The CPU
// sample blocks for the given interval to compute a percentage.
func SampleHost(interval time.Duration) (HostStats, error) {
	percents, err := cpu.Percent(interval, false)
	if err != nil {
		return HostStats{}, err
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return HostStats{}, err
	}
	var pct float64
	if len(percents) > 0 {
		pct = percents[0]
	}
	return HostStats{CPUPercent: pct, UsedMemory: vm.Used, TotalMemory: vm.Total}, nil
}

// HeapSize scans obj (typically the live HangExecutor, or its owning
// search driver) with memsize, returning the total bytes reachable from
// it. Intended for periodic memory-budget diagnostics on a long search,
// not for use on any per-candidate hot path.
func HeapSize(obj interface{}) uint64 {
	return memsize.Scan(obj).Total
}
