// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

//go:build unix

package main

import (
	"path/filepath"
	"slices"

	"go4.org/xdgdir"
)

func cacheDir() string {
	return xdgdir.Cache.Path()
}

// configFiles returns the configuration files to read,
// with the most important file last.
func configFiles() []string {
	dirs := xdgdir.Config.SearchPaths()
	paths := make([]string, 0, len(dirs))
	for _, dir := range slices.Backward(dirs) {
		paths = append(paths, filepath.Join(dir, "gjavac", "config.jwcc"))
	}
	return paths
}
