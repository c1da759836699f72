// Package config loads the search parameters a run of cmd/beaverfind needs
// — grid size, tape capacity, step budgets, which hang checkers are
// enabled — from flags, environment variables, and an optional config
// file, using the teacher's configuration stack
// (spf13/viper+pflag+cast, fsnotify for live reload).
package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Search holds every parameter a search batch needs. Load takes its
// defaults from the flag defaults RegisterFlags installs (normally
// DefaultSearch); a zero value that a config file, environment variable or
// flag sets explicitly is kept as is.
type Search struct {
	GridWidth  int
	GridHeight int

	TapeCapacity          int
	MaxSteps              int
	MaxHangDetectionSteps int

	EnablePeriodicChecker bool
	EnableGliderChecker   bool
	EnableSweepChecker    bool
	EnableNoExitChecker   bool

	CandidateFilterExpr string
	HangReportScript    string
}

// DefaultSearch returns the parameter set a bare `beaverfind search` uses
// with no flags or config file at all.
func DefaultSearch() Search {
	return Search{
		GridWidth:             6,
		GridHeight:            6,
		TapeCapacity:          10_000,
		MaxSteps:              1_000_000,
		MaxHangDetectionSteps: 100_000,
		EnablePeriodicChecker: true,
		EnableGliderChecker:   true,
		EnableSweepChecker:    true,
		EnableNoExitChecker:   true,
	}
}

// RegisterFlags binds Search's fields onto fs, defaulted from d.
func RegisterFlags(fs *pflag.FlagSet, d Search) {
	fs.Int("grid-width", d.GridWidth, "width of the instruction grid to enumerate")
	fs.Int("grid-height", d.GridHeight, "height of the instruction grid to enumerate")
	fs.Int("tape-capacity", d.TapeCapacity, "max data-pointer excursion from the origin before DATA_ERROR")
	fs.Int("max-steps", d.MaxSteps, "total step budget per candidate before ASSUMED_HANG")
	fs.Int("max-hang-detection-steps", d.MaxHangDetectionSteps, "steps the hang checkers are given before falling back")
	fs.Bool("enable-periodic-checker", d.EnablePeriodicChecker, "enable the periodic hang checker")
	fs.Bool("enable-glider-checker", d.EnableGliderChecker, "enable the glider hang checker")
	fs.Bool("enable-sweep-checker", d.EnableSweepChecker, "enable the sweep hang checker")
	fs.Bool("enable-no-exit-checker", d.EnableNoExitChecker, "enable the no-exit checker")
	fs.String("candidate-filter", d.CandidateFilterExpr, "bexpr expression restricting which grids are searched")
	fs.String("hang-report-script", d.HangReportScript, "path to a JS file defining onHang(report) for custom triage")
}

// Load merges, in increasing precedence, the built-in defaults, an
// optional config file (configFile, empty to skip), environment variables
// prefixed BEAVERFIND_, and any flags the caller has already parsed onto
// fs, into a Search.
func Load(fs *pflag.FlagSet, configFile string) (Search, error) {
	v := viper.New()
	v.SetEnvPrefix("beaverfind")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Search{}, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	if err := v.BindPFlags(fs); err != nil {
		return Search{}, fmt.Errorf("config: binding flags: %w", err)
	}

	return Search{
		GridWidth:             v.GetInt("grid-width"),
		GridHeight:            v.GetInt("grid-height"),
		TapeCapacity:          v.GetInt("tape-capacity"),
		MaxSteps:              v.GetInt("max-steps"),
		MaxHangDetectionSteps: v.GetInt("max-hang-detection-steps"),
		EnablePeriodicChecker: v.GetBool("enable-periodic-checker"),
		EnableGliderChecker:   v.GetBool("enable-glider-checker"),
		EnableSweepChecker:    v.GetBool("enable-sweep-checker"),
		EnableNoExitChecker:   v.GetBool("enable-no-exit-checker"),
		CandidateFilterExpr:   v.GetString("candidate-filter"),
		HangReportScript:      v.GetString("hang-report-script"),
	}, nil
}

// WatchReload installs a live-reload callback: whenever configFile changes
// on disk, the freshly parsed step budgets (MaxSteps,
// MaxHangDetectionSteps only — grid shape and checker selection require a
// fresh search) are passed to onChange. A long-running search can use this
// to relax its budget without restarting.
func WatchReload(configFile string, onChange func(maxSteps, maxHangDetectionSteps int)) error {
	if configFile == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: reading %s: %w", configFile, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		onChange(
			cast.ToInt(v.Get("max-steps")),
			cast.ToInt(v.Get("max-hang-detection-steps")),
		)
	})
	v.WatchConfig()
	return nil
}
