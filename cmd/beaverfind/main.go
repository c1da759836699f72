// Command beaverfind drives the hang-analysis core (internal/beaver)
// through an enumerated grid of 2L programs, reporting verdicts and
// throughput as it goes. Everything here is an external collaborator of
// the core per spec.md §1/§6: no part of internal/beaver imports this
// package or any package it wires together.
package main

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	setupLogging()

	app := &cli.App{
		Name:  "beaverfind",
		Usage: "search for busy-beaver candidates in the 2L language",
		Commands: []*cli.Command{
			searchCommand(),
			exportHangCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("beaverfind: fatal", "err", err)
	}
}

// setupLogging wires the teacher's logging stack: go-ethereum/log's
// handler writing to a rotated file (lumberjack), color-aware when stderr
// is a terminal (go-colorable/go-isatty).
func setupLogging() {
	var out = os.Stderr
	useColor := isatty.IsTerminal(out.Fd())

	fileLogger := &lumberjack.Logger{
		Filename:   "beaverfind.log",
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	var handler log.Handler
	if useColor {
		handler = log.StreamHandler(colorable.NewColorable(out), log.TerminalFormat(true))
	} else {
		handler = log.StreamHandler(out, log.LogfmtFormat())
	}
	fileHandler := log.StreamHandler(fileLogger, log.LogfmtFormat())

	log.Root().SetHandler(log.MultiHandler(handler, fileHandler))
}
