// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gjavac.256lights.llc/pkg/internal/testcontext"
)

const demoModule = `{
	"classes": [
		{
			"name": "demo.Main",
			"methods": [
				{"name": "main", "desc": "()V", "maxLocals": 1, "code": [{"op": "return"}]},
			],
		},
		{
			"name": "demo.Token",
			"super": "gjavac.lib.UvmContract",
			"annotations": ["gjavac.lib.Contract"],
			"methods": [
				{"name": "init", "desc": "()V", "public": true, "maxLocals": 1, "code": [{"op": "return"}]},
				{
					"name": "add",
					"desc": "(II)I",
					"public": true,
					"maxLocals": 3,
					"code": [
						{"op": "iload_1", "line": 7},
						{"op": "iload_2", "line": 7},
						{"op": "iadd", "line": 7},
						{"op": "ireturn", "line": 7},
					],
				},
			],
		},
	],
}`

func writeDemoModule(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.json")
	if err := os.WriteFile(path, []byte(demoModule), 0o666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunTranslate(t *testing.T) {
	ctx, cancel := testcontext.New(t)
	defer cancel()
	input := writeDemoModule(t)
	g := defaultGlobalConfig()
	g.CacheDB = filepath.Join(t.TempDir(), "cache.db")

	stdout := new(strings.Builder)
	opts := &translateOptions{
		inputFilename: input,
		stdout:        stdout,
	}
	if err := runTranslate(ctx, g, opts); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(input)
	asm, err := os.ReadFile(filepath.Join(dir, "demo.ass"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{".upvalues 1\r\n", ".func main ", ".func demo_Token__add 34 3 0\r\n"} {
		if !strings.Contains(string(asm), want) {
			t.Errorf("demo.ass does not contain %q:\n%s", want, asm)
		}
	}
	meta, err := os.ReadFile(filepath.Join(dir, "demo.meta.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(meta), `"api":["init","add"]`) {
		t.Errorf("demo.meta.json = %s; want api [init add]", meta)
	}
	if stdout.Len() > 0 {
		t.Errorf("stdout = %q; want empty without --list", stdout.String())
	}

	// A second run is served from the cache and writes the same files.
	asmPath := filepath.Join(t.TempDir(), "out.ass")
	metaPath := filepath.Join(t.TempDir(), "out.meta.json")
	opts = &translateOptions{
		inputFilename:    input,
		outputFilename:   asmPath,
		metadataFilename: metaPath,
		stdout:           stdout,
	}
	if err := runTranslate(ctx, g, opts); err != nil {
		t.Fatal(err)
	}
	if got, err := os.ReadFile(asmPath); err != nil {
		t.Error(err)
	} else if string(got) != string(asm) {
		t.Errorf("cached assembly differs:\n%s\nwant:\n%s", got, asm)
	}
	if got, err := os.ReadFile(metaPath); err != nil {
		t.Error(err)
	} else if string(got) != string(meta) {
		t.Errorf("cached metadata = %s; want %s", got, meta)
	}
}

func TestRunTranslateList(t *testing.T) {
	ctx, cancel := testcontext.New(t)
	defer cancel()
	input := writeDemoModule(t)
	g := defaultGlobalConfig()

	stdout := new(strings.Builder)
	opts := &translateOptions{
		inputFilename: input,
		noCache:       true,
		list:          1,
		stdout:        stdout,
	}
	if err := runTranslate(ctx, g, opts); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"main <constructor>",
		"function <demo/Token.add(II)I>",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("listing does not contain %q:\n%s", want, stdout)
		}
	}
}

func TestRunTranslateError(t *testing.T) {
	ctx, cancel := testcontext.New(t)
	defer cancel()
	input := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(input, []byte(`{"classes": []}`), 0o666); err != nil {
		t.Fatal(err)
	}
	g := defaultGlobalConfig()
	opts := &translateOptions{
		inputFilename: input,
		noCache:       true,
		stdout:        new(strings.Builder),
	}
	err := runTranslate(ctx, g, opts)
	if err == nil {
		t.Fatal("runTranslate did not return an error")
	}
	if !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("runTranslate(...) = %v; want it to name the input file", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(input), "bad.ass")); err == nil {
		t.Error("bad.ass written for a failed translation")
	}
}

func TestRunTree(t *testing.T) {
	ctx, cancel := testcontext.New(t)
	defer cancel()
	input := writeDemoModule(t)

	sb := new(strings.Builder)
	if err := runTree(ctx, defaultGlobalConfig(), sb, input); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"demo_Main (", "demo_Main__main (", "demo_Token (", "demo_Token__add ("} {
		if !strings.Contains(sb.String(), name) {
			t.Errorf("tree does not mention %q:\n%s", name, sb)
		}
	}
}

func TestRunCachePrune(t *testing.T) {
	ctx, cancel := testcontext.New(t)
	defer cancel()
	g := defaultGlobalConfig()
	g.CacheDB = filepath.Join(t.TempDir(), "cache.db")

	stdout := new(strings.Builder)
	if err := runCachePrune(ctx, g, &cachePruneOptions{stdout: stdout}); err != nil {
		t.Fatal(err)
	}
	if got, want := stdout.String(), "deleted 0 cached translations\n"; got != want {
		t.Errorf("output = %q; want %q", got, want)
	}
}

func TestRunList(t *testing.T) {
	ctx, cancel := testcontext.New(t)
	defer cancel()
	input := writeDemoModule(t)

	stdout := new(strings.Builder)
	opts := &listOptions{
		inputFilename: input,
		full:          true,
		stdout:        stdout,
	}
	if err := opts.functions.Set("demo_Token__add"); err != nil {
		t.Fatal(err)
	}
	if err := runList(ctx, defaultGlobalConfig(), opts); err != nil {
		t.Fatal(err)
	}
	got := stdout.String()
	if !strings.Contains(got, "function <demo/Token.add(II)I>") || !strings.Contains(got, "constants (") {
		t.Errorf("listing is missing demo_Token__add or its constants:\n%s", got)
	}
	if strings.Contains(got, "demo_Main__main") {
		t.Errorf("listing includes unselected function:\n%s", got)
	}
}
