// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/csv"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"gjavac.256lights.llc/pkg/internal/uvmcode"
)

// functionSetFlag is like [pflag.StringSlice],
// but collects a set of function names.
type functionSetFlag struct {
	set     map[string]struct{}
	changed bool
}

var _ pflag.SliceValue = (*functionSetFlag)(nil)

// include reports whether the function should be shown.
// An empty set includes every function.
func (f *functionSetFlag) include(p *uvmcode.Proto) bool {
	if len(f.set) == 0 {
		return true
	}
	_, ok := f.set[p.Name]
	return ok
}

func (f *functionSetFlag) Type() string { return "stringSlice" }

func (f *functionSetFlag) GetSlice() []string {
	return slices.Sorted(maps.Keys(f.set))
}

func (f *functionSetFlag) String() string {
	buf := new(bytes.Buffer)
	buf.WriteString("[")
	w := csv.NewWriter(buf)
	_ = w.Write(f.GetSlice())
	w.Flush()
	b := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	b = append(b, "]"...)
	return string(b)
}

func (f *functionSetFlag) Set(s string) error {
	if f.set == nil {
		f.set = make(map[string]struct{})
	}
	if !f.changed {
		clear(f.set)
		f.changed = true
	}
	r := csv.NewReader(strings.NewReader(s))
	vals, err := r.Read()
	if err != nil {
		return err
	}
	for _, v := range vals {
		f.set[v] = struct{}{}
	}
	return nil
}

func (f *functionSetFlag) Append(val string) error {
	if f.set == nil {
		f.set = make(map[string]struct{})
	}
	f.set[val] = struct{}{}
	return nil
}

func (f *functionSetFlag) Replace(val []string) error {
	if f.set == nil {
		f.set = make(map[string]struct{})
	} else {
		clear(f.set)
	}
	for _, s := range val {
		f.set[s] = struct{}{}
	}
	return nil
}
