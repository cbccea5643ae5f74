// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package scid

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/scidtail/scidtail/internal/logging"
)

// filenamePattern matches spec.md §6: symbol_root, symbol_period, exchange.
// Example: "ESU5.CME.scid" -> ("ES", "U5", "CME").
var filenamePattern = regexp.MustCompile(`^([A-Z]{2,3})([A-Z]\d)\.([A-Z]+)$`)

// ParseFilename derives (symbol, symbolPeriod) from a SCID file path. On a
// regex miss it falls back to splitting the stem on ".", logging a warning,
// matching the original tool's fallback behavior.
func ParseFilename(path string) (symbol, symbolPeriod string) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if m := filenamePattern.FindStringSubmatch(stem); m != nil {
		return m[1], m[2]
	}

	logging.Warnf("scid: unable to parse symbol/period from filename %q, falling back to '.' split", stem)
	parts := strings.Split(stem, ".")
	if len(parts) > 0 {
		symbol = parts[0]
	}
	if len(parts) > 1 {
		symbolPeriod = parts[1]
	}
	return symbol, symbolPeriod
}

// StreamID is the checkpoint key for a stream: concatenation of symbol and
// symbolPeriod, no separator (spec.md §3, §6).
func StreamID(symbol, symbolPeriod string) string {
	return symbol + symbolPeriod
}
