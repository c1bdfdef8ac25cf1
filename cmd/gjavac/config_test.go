// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gjavac.256lights.llc/pkg/internal/translate"
)

func TestDefaultGlobalConfig(t *testing.T) {
	got := defaultGlobalConfig()
	if !got.Reduce {
		t.Error("defaultGlobalConfig().Reduce = false; want true")
	}
	if err := got.validate(); err != nil {
		t.Error("defaultGlobalConfig().validate():", err)
	}
}

func TestGlobalConfigMergeFiles(t *testing.T) {
	dir := t.TempDir()
	var paths [3]string
	paths[0] = filepath.Join(dir, "config1.jwcc")
	if err := os.WriteFile(paths[0], []byte(`{"debug": true, "parallelism": 2, "somethingElse": [1, 2]}`+"\n"), 0o666); err != nil {
		t.Fatal(err)
	}
	paths[1] = filepath.Join(dir, "config2.jwcc")
	err := os.WriteFile(paths[1], []byte("{\n"+
		"  // Comments and trailing commas are allowed.\n"+
		"  \"parallelism\": 4,\n"+
		"  \"reduce\": false,\n"+
		"  \"cacheDB\": \"/tmp/gjavac.db\",\n"+
		"}\n"), 0o666)
	if err != nil {
		t.Fatal(err)
	}
	paths[2] = filepath.Join(dir, "missing.jwcc")

	g := defaultGlobalConfig()
	if err := g.mergeFiles(slices.Values(paths[:])); err != nil {
		t.Error("mergeFiles:", err)
	}
	want := &globalConfig{
		Debug:       true,
		CacheDB:     "/tmp/gjavac.db",
		Parallelism: 4,
		Reduce:      false,
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestGlobalConfigMergeFilesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jwcc")
	if err := os.WriteFile(path, []byte(`{"parallelism": "many"}`), 0o666); err != nil {
		t.Fatal(err)
	}
	g := defaultGlobalConfig()
	if err := g.mergeFiles(slices.Values([]string{path})); err == nil {
		t.Error("mergeFiles did not return an error")
	}
}

func TestGlobalConfigMergeEnvironment(t *testing.T) {
	t.Setenv("GJAVAC_CACHE", "/var/cache/gjavac.db")
	t.Setenv("GJAVAC_PARALLELISM", "3")

	g := defaultGlobalConfig()
	if err := g.mergeEnvironment(); err != nil {
		t.Fatal(err)
	}
	if got, want := g.CacheDB, "/var/cache/gjavac.db"; got != want {
		t.Errorf("g.CacheDB = %q; want %q", got, want)
	}
	if got, want := g.Parallelism, 3; got != want {
		t.Errorf("g.Parallelism = %d; want %d", got, want)
	}

	t.Setenv("GJAVAC_PARALLELISM", "lots")
	if err := defaultGlobalConfig().mergeEnvironment(); err == nil {
		t.Error("mergeEnvironment with bad GJAVAC_PARALLELISM did not return an error")
	}
}

func TestGlobalConfigValidate(t *testing.T) {
	g := defaultGlobalConfig()
	g.Parallelism = -1
	if err := g.validate(); err == nil {
		t.Error("validate() with negative parallelism did not return an error")
	}
}

func TestTranslateOptions(t *testing.T) {
	g := &globalConfig{LineComments: true, Parallelism: 5}
	want := &translate.Options{LineComments: true, Parallelism: 5}
	if diff := cmp.Diff(want, g.translateOptions()); diff != "" {
		t.Errorf("translateOptions() (-want +got):\n%s", diff)
	}
}
