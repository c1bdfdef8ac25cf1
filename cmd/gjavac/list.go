// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

type listOptions struct {
	inputFilename string
	full          bool
	functions     functionSetFlag
	stdout        io.Writer
}

func newListCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "list [options] IR.json",
		Short:                 "print a listing of the functions a module translates to",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(listOptions)
	c.Flags().BoolVar(&opts.full, "full", false, "include constants, locals and upvalues")
	c.Flags().Var(&opts.functions, "func", "only list the function with the given `name` (can be repeated)")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.inputFilename = args[0]
		opts.stdout = cmd.OutOrStdout()
		return runList(cmd.Context(), g, opts)
	}
	return c
}

func runList(ctx context.Context, g *globalConfig, opts *listOptions) error {
	result, err := readAndTranslate(ctx, g, opts.inputFilename)
	if err != nil {
		return err
	}
	return uvmcode.WriteListing(opts.stdout, result.Root, &uvmcode.ListingOptions{
		Full:    opts.full,
		Include: opts.functions.include,
	})
}
