// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChoosePeriodPicksHighestVolume(t *testing.T) {
	got := choosePeriod([]volumeByPeriod{
		{SymbolPeriod: "U5", Volume: 100},
		{SymbolPeriod: "Z5", Volume: 250},
		{SymbolPeriod: "H6", Volume: 90},
	})
	assert.Equal(t, "Z5", got)
}

func TestChoosePeriodBreaksTiesLexicographically(t *testing.T) {
	got := choosePeriod([]volumeByPeriod{
		{SymbolPeriod: "Z5", Volume: 100},
		{SymbolPeriod: "U5", Volume: 100},
	})
	assert.Equal(t, "U5", got)
}

func TestChoosePeriodSingleEntry(t *testing.T) {
	got := choosePeriod([]volumeByPeriod{{SymbolPeriod: "U5", Volume: 1}})
	assert.Equal(t, "U5", got)
}
