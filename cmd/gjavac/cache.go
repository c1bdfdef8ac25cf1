// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gjavac.256lights.llc/pkg/internal/buildcache"
	"zombiezen.com/go/log"
)

func newCacheCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "cache COMMAND",
		Short:                 "manage the build cache",
		DisableFlagsInUseLine: true,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	c.AddCommand(newCachePruneCommand(g))
	return c
}

type cachePruneOptions struct {
	olderThan time.Duration
	stdout    io.Writer
}

func newCachePruneCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "prune [options]",
		Short:                 "delete cached translations that have not been used recently",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(cachePruneOptions)
	c.Flags().DurationVar(&opts.olderThan, "older-than", 30*24*time.Hour, "delete entries unused for at least `duration`")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.stdout = cmd.OutOrStdout()
		return runCachePrune(cmd.Context(), g, opts)
	}
	return c
}

func runCachePrune(ctx context.Context, g *globalConfig, opts *cachePruneOptions) error {
	if g.CacheDB == "" {
		return fmt.Errorf("cache database not set")
	}
	if opts.olderThan < 0 {
		return fmt.Errorf("--older-than must not be negative")
	}
	cache, err := buildcache.Open(g.CacheDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Errorf(ctx, "%v", err)
		}
	}()
	n, err := cache.Prune(ctx, time.Now().Add(-opts.olderThan))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(opts.stdout, "deleted %d cached translations\n", n)
	return err
}
