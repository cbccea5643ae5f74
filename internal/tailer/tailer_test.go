// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package tailer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scidtail/scidtail/internal/scid"
)

func writeSCID(t *testing.T, numRecords int, trailingGarbage int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ESU5.CME.scid")

	buf := make([]byte, scid.HeaderSize)
	for i := 0; i < numRecords; i++ {
		rec := scid.EncodeRaw(scid.Raw{
			SCDateTime:  uint64(1_000_000 * (i + 1)),
			Open:        100 + float32(i),
			TotalVolume: uint32(i + 1),
		})
		buf = append(buf, rec[:]...)
	}
	buf = append(buf, make([]byte, trailingGarbage)...)

	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestTailFromStartReadsAllRecords(t *testing.T) {
	path := writeSCID(t, 5, 0)

	res, err := Tail(path, 0, "ES", "U5")
	require.NoError(t, err)
	require.Len(t, res.Records, 5)
	assert.Equal(t, int64(scid.HeaderSize+5*scid.RecordSize), res.NewOffset)
	assert.Equal(t, "ES", res.Records[0].Symbol)
	assert.Equal(t, "U5", res.Records[0].SymbolPeriod)
}

func TestTailClampsBelowHeaderSize(t *testing.T) {
	path := writeSCID(t, 2, 0)

	res, err := Tail(path, 10, "ES", "U5")
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, int64(scid.HeaderSize+2*scid.RecordSize), res.NewOffset)
}

func TestTailNoGrowthReturnsEmpty(t *testing.T) {
	path := writeSCID(t, 3, 0)
	fullOffset := int64(scid.HeaderSize + 3*scid.RecordSize)

	res, err := Tail(path, fullOffset, "ES", "U5")
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, fullOffset, res.NewOffset)
}

func TestTailIgnoresPartialTrailingRecord(t *testing.T) {
	path := writeSCID(t, 4, 7) // 7 stray trailing bytes

	res, err := Tail(path, 0, "ES", "U5")
	require.NoError(t, err)
	assert.Len(t, res.Records, 4)
	assert.Equal(t, int64(scid.HeaderSize+4*scid.RecordSize), res.NewOffset)
}

func TestTailIncrementalAcrossTwoCalls(t *testing.T) {
	path := writeSCID(t, 2, 0)

	first, err := Tail(path, 0, "ES", "U5")
	require.NoError(t, err)
	require.Len(t, first.Records, 2)

	// Simulate external append of 3 more records.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		rec := scid.EncodeRaw(scid.Raw{SCDateTime: uint64(9_000_000 + i)})
		_, err := f.Write(rec[:])
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	second, err := Tail(path, first.NewOffset, "ES", "U5")
	require.NoError(t, err)
	assert.Len(t, second.Records, 3)
	assert.Equal(t, int64(scid.HeaderSize+5*scid.RecordSize), second.NewOffset)
}
