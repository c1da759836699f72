package main

import (
	"fmt"
	"os"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/pflag"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/erwinbonsma/beaverfind/internal/beaver/executor"
	"github.com/erwinbonsma/beaverfind/internal/beaver/hang"
	"github.com/erwinbonsma/beaverfind/internal/beaver/program"
	"github.com/erwinbonsma/beaverfind/internal/config"
	"github.com/erwinbonsma/beaverfind/internal/filter"
	"github.com/erwinbonsma/beaverfind/internal/grid"
	"github.com/erwinbonsma/beaverfind/internal/progress"
	"github.com/erwinbonsma/beaverfind/internal/store"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "enumerate a grid size and classify every candidate",
		Description: "Flags are parsed with the viper/pflag configuration stack (internal/config), " +
			"not urfave/cli's own flag set: pass --grid-width, --grid-height, --tape-capacity, " +
			"--max-steps, --max-hang-detection-steps, --candidate-filter, --hang-report-script, " +
			"--config, --resume-dir, --debug-server.",
		SkipFlagParsing: true,
		Action:          runSearch,
	}
}

func runSearch(c *cli.Context) error {
	fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
	defaults := config.DefaultSearch()
	config.RegisterFlags(fs, defaults)
	configFile := fs.String("config", "", "optional YAML/JSON config file")
	resumeDir := fs.String("resume-dir", "", "directory for the pebble resume store (disabled if empty)")
	ledgerDir := fs.String("ledger-dir", "", "directory for the goleveldb results ledger (disabled if empty)")
	debugServer := fs.String("debug-server", "", "address to serve live progress counters on (disabled if empty)")

	if err := fs.Parse(c.Args().Slice()); err != nil {
		return err
	}

	cfg, err := config.Load(fs, *configFile)
	if err != nil {
		return err
	}

	candidateFilter, err := filter.NewCandidateFilter(cfg.CandidateFilterExpr)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	var hook *filter.HangReportHook
	if cfg.HangReportScript != "" {
		script, err := os.ReadFile(cfg.HangReportScript)
		if err != nil {
			return fmt.Errorf("search: reading hang-report script: %w", err)
		}
		hook, err = filter.NewHangReportHook(string(script))
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
	}

	var resumeStore *store.ResumeStore
	if *resumeDir != "" {
		resumeStore, err = store.OpenResumeStore(*resumeDir)
		if err != nil {
			return fmt.Errorf("search: opening resume store: %w", err)
		}
		defer resumeStore.Close()
	}

	var ledger *store.Ledger
	if *ledgerDir != "" {
		ledger, err = store.OpenLedger(*ledgerDir)
		if err != nil {
			return fmt.Errorf("search: opening results ledger: %w", err)
		}
		defer ledger.Close()
	}

	tracker := progress.New()

	var grp errgroup.Group
	ctx := c.Context
	if *debugServer != "" {
		srv := newDebugServer(tracker)
		grp.Go(func() error { return srv.run(ctx, *debugServer) })
	}

	batchCache := fastcache.New(32 * 1024 * 1024)
	defer batchCache.Reset()

	counts := map[executor.RunResult]int{}
	var resumeOrdinal uint64
	if resumeStore != nil {
		if ord, err := resumeStore.ResumePoint(); err == nil {
			resumeOrdinal = ord
		}
	}

	var ordinal uint64
	start := time.Now()

	grid.Enumerate(cfg.GridWidth, cfg.GridHeight, func(cand grid.Candidate) bool {
		defer func() { ordinal++ }()
		if ordinal < resumeOrdinal {
			return true
		}

		meta := filter.CandidateMeta{Width: cfg.GridWidth, Height: cfg.GridHeight}
		meta.NoopCount, meta.DataCount, meta.TurnCount = countKinds(cand.Grid, cfg.GridWidth, cfg.GridHeight)
		if ok, err := candidateFilter.Matches(meta); err != nil || !ok {
			return true
		}

		sig := cand.Grid.Hash()
		if _, found := batchCache.HasGet(nil, sig[:]); found {
			return true
		}
		batchCache.Set(sig[:], []byte{1})

		arena, entry, positions := grid.Compile(cand.Grid, cand.EntryX, cand.EntryY, cand.EntryHeading)
		result := runOne(arena, entry, cand.Grid, positions, cfg, tracker)
		counts[result]++

		if ledger != nil {
			_ = ledger.Record(sig, result)
		}
		if hook != nil && filter.ShouldReport(result) {
			_ = hook.Invoke(filter.HangReport{
				Signature: fmt.Sprintf("%x", sig),
				Width:     cfg.GridWidth,
				Height:    cfg.GridHeight,
				Verdict:   result.String(),
			})
		}
		if resumeStore != nil && ordinal%1000 == 0 {
			_ = resumeStore.SaveResumePoint(ordinal + 1)
		}

		return true
	})

	elapsed := time.Since(start)
	log.Info("search complete", "elapsed", elapsed, "session", tracker.SessionID)
	renderSummary(counts)

	if *debugServer != "" {
		return grp.Wait()
	}
	return nil
}

func runOne(arena *program.Arena, entry *program.Block, g *grid.Grid, positions grid.Positions, cfg config.Search, tracker *progress.Tracker) executor.RunResult {
	exec := executor.New(arena, cfg.TapeCapacity, cfg.MaxHangDetectionSteps)
	exec.SetMaxSteps(cfg.MaxSteps)
	exec.SetPeriodicCheckerEnabled(cfg.EnablePeriodicChecker)
	exec.SetGliderCheckerEnabled(cfg.EnableGliderChecker)
	exec.SetSweepCheckerEnabled(cfg.EnableSweepChecker)
	if cfg.EnableNoExitChecker {
		exec.SetGrid(g, positions)
	}

	result := exec.Execute(entry)

	checkerName := ""
	if checker := exec.DetectedHangChecker(); checker != nil {
		checkerName = fmt.Sprintf("%T", checker)
	}
	tracker.RecordResult(result, exec.NumSteps(), checkerName)
	return result
}

func countKinds(g *grid.Grid, width, height int) (noop, data, turn int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch g.KindAt(x, y) {
			case hang.Noop:
				noop++
			case hang.Data:
				data++
			case hang.Turn:
				turn++
			}
		}
	}
	return
}

func renderSummary(counts map[executor.RunResult]int) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Verdict", "Count"})
	for _, r := range []executor.RunResult{
		executor.Success, executor.DataError, executor.ProgramError,
		executor.DetectedHang, executor.AssumedHang,
	} {
		table.Append([]string{r.String(), fmt.Sprintf("%d", counts[r])})
	}
	table.Render()
}
