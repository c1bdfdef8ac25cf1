// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

func newTreeCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "tree IR.json",
		Short:                 "show the tree of functions a module translates to",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runTree(cmd.Context(), g, cmd.OutOrStdout(), args[0])
	}
	return c
}

func runTree(ctx context.Context, g *globalConfig, w io.Writer, filename string) error {
	result, err := readAndTranslate(ctx, g, filename)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, uvmcode.Tree(result.Root).String())
	return err
}
