// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

// gjavac translates JVM class modules to UVM assembly.
package main

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"sync"

	"github.com/spf13/cobra"
	"zombiezen.com/go/bass/sigterm"
	"zombiezen.com/go/log"
)

func main() {
	rootCommand := &cobra.Command{
		Use:           "gjavac",
		Short:         "translate JVM classes to UVM assembly",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	g := defaultGlobalConfig()
	if err := g.mergeFiles(slices.Values(configFiles())); err != nil {
		initLogging(false)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
	if err := g.mergeEnvironment(); err != nil {
		initLogging(false)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}

	rootCommand.PersistentFlags().BoolVar(&g.Debug, "debug", g.Debug, "show debugging output")
	rootCommand.PersistentFlags().StringVar(&g.CacheDB, "cache", g.CacheDB, "`path` to cache database")
	rootCommand.PersistentFlags().IntVarP(&g.Parallelism, "jobs", "j", g.Parallelism, "maximum `number` of functions to reduce at once (0 uses all CPUs)")
	rootCommand.PersistentFlags().BoolVar(&g.Reduce, "reduce", g.Reduce, "remove redundant operand stack traffic")
	rootCommand.PersistentFlags().BoolVar(&g.LineComments, "line-comments", g.LineComments, "annotate instructions with their source line and JVM instruction")

	rootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogging(g.Debug)
		return g.validate()
	}

	rootCommand.AddCommand(
		newTranslateCommand(g),
		newListCommand(g),
		newTreeCommand(g),
		newCacheCommand(g),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), sigterm.Signals()...)
	err := rootCommand.ExecuteContext(ctx)
	cancel()
	if err != nil {
		initLogging(g.Debug)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
}

var initLogOnce sync.Once

func initLogging(showDebug bool) {
	initLogOnce.Do(func() {
		minLogLevel := log.Info
		if showDebug {
			minLogLevel = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    minLogLevel,
			Output: log.New(os.Stderr, "gjavac: ", log.StdFlags, nil),
		})
	})
}
