// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/spf13/cobra"
	"gjavac.256lights.llc/pkg/internal/buildcache"
	"gjavac.256lights.llc/pkg/internal/jvmir"
	"gjavac.256lights.llc/pkg/internal/translate"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
	"zombiezen.com/go/log"
)

type translateOptions struct {
	inputFilename    string
	outputFilename   string
	metadataFilename string
	noCache          bool
	list             int
	stdout           io.Writer
}

func newTranslateCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "translate [options] IR.json",
		Short:                 "translate a module to UVM assembly and contract metadata",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(translateOptions)
	c.Flags().StringVarP(&opts.outputFilename, "output", "o", "", "write assembly to `path` (default is the input with a .ass extension)")
	c.Flags().StringVar(&opts.metadataFilename, "meta", "", "write contract metadata to `path` (default is the input with a .meta.json extension)")
	c.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the build cache")
	c.Flags().CountVarP(&opts.list, "list", "l", "produce a listing of the generated functions (repeat for constants, locals and upvalues)")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		opts.inputFilename = args[0]
		opts.stdout = cmd.OutOrStdout()
		return runTranslate(cmd.Context(), g, opts)
	}
	return c
}

func runTranslate(ctx context.Context, g *globalConfig, opts *translateOptions) error {
	input, err := os.ReadFile(opts.inputFilename)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(opts.inputFilename, filepath.Ext(opts.inputFilename))
	if opts.outputFilename == "" {
		opts.outputFilename = base + ".ass"
	}
	if opts.metadataFilename == "" {
		opts.metadataFilename = base + ".meta.json"
	}

	topts := g.translateOptions()
	key := buildcache.NewKey(input, topts)
	var cache *buildcache.Cache
	if !opts.noCache && g.CacheDB != "" {
		cache, err = buildcache.Open(g.CacheDB)
		if err != nil {
			log.Warnf(ctx, "Build cache unavailable: %v", err)
		} else {
			defer func() {
				if err := cache.Close(); err != nil {
					log.Errorf(ctx, "%v", err)
				}
			}()
		}
	}

	// A listing needs the function tree, which the cache does not store.
	if cache != nil && opts.list == 0 {
		ent, err := cache.Get(ctx, key)
		switch {
		case err == nil:
			return writeOutputs(opts, ent)
		case !errors.Is(err, buildcache.ErrNotFound):
			log.Warnf(ctx, "%v", err)
		}
	}

	result, err := translateModule(ctx, opts.inputFilename, input, topts)
	if err != nil {
		return err
	}
	ent, err := encodeResult(result)
	if err != nil {
		return err
	}
	if err := writeOutputs(opts, ent); err != nil {
		return err
	}
	if cache != nil {
		if err := cache.Put(ctx, key, ent); err != nil {
			log.Warnf(ctx, "%v", err)
		}
	}
	if opts.list > 0 {
		if err := uvmcode.WriteListing(opts.stdout, result.Root, &uvmcode.ListingOptions{Full: opts.list > 1}); err != nil {
			return err
		}
	}
	return nil
}

// translateModule decodes and translates a module file's contents.
func translateModule(ctx context.Context, filename string, input []byte, opts *translate.Options) (*translate.Result, error) {
	module, err := jvmir.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", filename, err)
	}
	result, err := translate.Translate(ctx, module, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return result, nil
}

// readAndTranslate reads and translates the named module file.
func readAndTranslate(ctx context.Context, g *globalConfig, filename string) (*translate.Result, error) {
	input, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return translateModule(ctx, filename, input, g.translateOptions())
}

func encodeResult(result *translate.Result) (*buildcache.Entry, error) {
	asm := new(strings.Builder)
	if err := uvmcode.WriteAssembly(asm, result.Root); err != nil {
		return nil, err
	}
	meta, err := jsonv2.Marshal(result.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %v", err)
	}
	return &buildcache.Entry{
		Assembly: asm.String(),
		Metadata: string(meta) + "\n",
	}, nil
}

func writeOutputs(opts *translateOptions, ent *buildcache.Entry) error {
	if err := os.WriteFile(opts.outputFilename, []byte(ent.Assembly), 0o666); err != nil {
		return err
	}
	if err := os.WriteFile(opts.metadataFilename, []byte(ent.Metadata), 0o666); err != nil {
		return err
	}
	return nil
}
