// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package util holds small filesystem helpers supporting multi-file SCID
// discovery (SPEC_FULL.md §B.1): the original per-file-process deployment
// is replaced here by one process tailing every matching file, one after
// another within each supervisor tick.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/scidtail/scidtail/internal/scid"
)

// StreamFile is one discovered SCID file and its parsed stream identity.
type StreamFile struct {
	Path         string
	Symbol       string
	SymbolPeriod string
}

// DiscoverStreams scans dir for "*.scid" files and parses their stream
// identity from the filename (spec.md §6). Results are sorted by path for
// deterministic tick ordering.
func DiscoverStreams(dir string) ([]StreamFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.scid"))
	if err != nil {
		return nil, fmt.Errorf("util: glob %s: %w", dir, err)
	}
	sort.Strings(matches)

	streams := make([]StreamFile, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		symbol, period := scid.ParseFilename(path)
		streams = append(streams, StreamFile{Path: path, Symbol: symbol, SymbolPeriod: period})
	}
	return streams, nil
}
