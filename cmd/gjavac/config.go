// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strconv"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tailscale/hujson"
	"gjavac.256lights.llc/pkg/internal/translate"
)

type globalConfig struct {
	Debug        bool   `json:"debug"`
	CacheDB      string `json:"cacheDB"`
	Parallelism  int    `json:"parallelism"`
	LineComments bool   `json:"lineComments"`
	Reduce       bool   `json:"reduce"`
}

// defaultGlobalConfig returns the configuration used
// when no configuration files or environment variables are present.
func defaultGlobalConfig() *globalConfig {
	g := &globalConfig{
		Reduce: true,
	}
	if cd := cacheDir(); cd != "" {
		g.CacheDB = filepath.Join(cd, "gjavac", "cache.db")
	}
	return g
}

func (g *globalConfig) mergeEnvironment() error {
	if path := os.Getenv("GJAVAC_CACHE"); path != "" {
		g.CacheDB = path
	}
	if s := os.Getenv("GJAVAC_PARALLELISM"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("GJAVAC_PARALLELISM: %v", err)
		}
		g.Parallelism = n
	}
	return nil
}

func (g *globalConfig) mergeFiles(paths iter.Seq[string]) error {
	for path := range paths {
		huJSONData, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		jsonData, err := hujson.Standardize(huJSONData)
		if err != nil {
			return fmt.Errorf("read %s: %v", path, err)
		}
		if err := jsonv2.Unmarshal(jsonData, g, jsonv2.RejectUnknownMembers(false)); err != nil {
			return fmt.Errorf("read %s: %v", path, err)
		}
	}

	return nil
}

// UnmarshalJSONFrom unmarshals the configuration object from the JSON decoder,
// merging any fields in the JSON object with existing values.
func (g *globalConfig) UnmarshalJSONFrom(in *jsontext.Decoder) error {
	tok, err := in.ReadToken()
	if err != nil {
		return err
	}
	if got := tok.Kind(); got != '{' {
		return fmt.Errorf("config must be an object not a %v", got)
	}

	for {
		keyToken, err := in.ReadToken()
		if err != nil {
			return err
		}
		switch kind := keyToken.Kind(); kind {
		case '}':
			return nil
		case '"':
			// Keep going.
		default:
			return fmt.Errorf("unexpected non-string key (%v) in object", kind)
		}

		switch k := keyToken.String(); k {
		case "debug":
			if err := jsonv2.UnmarshalDecode(in, &g.Debug); err != nil {
				return fmt.Errorf("unmarshal config.debug: %w", err)
			}
		case "cacheDB":
			if err := jsonv2.UnmarshalDecode(in, &g.CacheDB); err != nil {
				return fmt.Errorf("unmarshal config.cacheDB: %w", err)
			}
		case "parallelism":
			if err := jsonv2.UnmarshalDecode(in, &g.Parallelism); err != nil {
				return fmt.Errorf("unmarshal config.parallelism: %w", err)
			}
		case "lineComments":
			if err := jsonv2.UnmarshalDecode(in, &g.LineComments); err != nil {
				return fmt.Errorf("unmarshal config.lineComments: %w", err)
			}
		case "reduce":
			if err := jsonv2.UnmarshalDecode(in, &g.Reduce); err != nil {
				return fmt.Errorf("unmarshal config.reduce: %w", err)
			}
		default:
			if reject, _ := jsonv2.GetOption(in.Options(), jsonv2.RejectUnknownMembers); reject {
				return fmt.Errorf("unmarshal config: unknown field %q", k)
			}
			if err := in.SkipValue(); err != nil {
				return fmt.Errorf("unmarshal config.%s: %w", k, err)
			}
		}
	}
}

func (g *globalConfig) validate() error {
	if g.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative (got %d)", g.Parallelism)
	}
	return nil
}

// translateOptions returns the translator options the configuration selects.
func (g *globalConfig) translateOptions() *translate.Options {
	return &translate.Options{
		LineComments: g.LineComments,
		Reduce:       g.Reduce,
		Parallelism:  g.Parallelism,
	}
}
