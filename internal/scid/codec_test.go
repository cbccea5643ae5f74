// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package scid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthesize(n int) []byte {
	buf := make([]byte, 0, n*RecordSize)
	for i := 0; i < n; i++ {
		r := Raw{
			SCDateTime:  uint64(1000000 * (i + 1)),
			Open:        100.0 + float32(i),
			High:        101.0 + float32(i),
			Low:         99.0 + float32(i),
			Close:       100.5 + float32(i),
			NumTrades:   uint32(i + 1),
			TotalVolume: uint32(10 * (i + 1)),
			BidVolume:   uint32(4 * (i + 1)),
			AskVolume:   uint32(6 * (i + 1)),
		}
		enc := EncodeRaw(r)
		buf = append(buf, enc[:]...)
	}
	return buf
}

func TestDecodeRoundTrip(t *testing.T) {
	buf := synthesize(3)
	recs := Decode(buf, "ES", "U5")
	require.Len(t, recs, 3)

	for i, r := range recs {
		assert.Equal(t, "ES", r.Symbol)
		assert.Equal(t, "U5", r.SymbolPeriod)
		assert.False(t, r.FrontContract)
		assert.Equal(t, float64(100.0+float32(i)), r.Open)
		assert.Equal(t, int32(10*(i+1)), r.Volume)
		assert.Equal(t, int32(i+1), r.NumberOfTrades)
	}
}

func TestDecodeTimestampConversion(t *testing.T) {
	// scdatetime=0 means exactly the SCID epoch, 1899-12-30 UTC.
	enc := EncodeRaw(Raw{SCDateTime: 0})
	recs := Decode(enc[:], "ES", "U5")
	require.Len(t, recs, 1)

	want := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	got := time.UnixMicro(recs[0].TimeUnixMicro).UTC()
	assert.True(t, want.Equal(got), "want %v, got %v", want, got)
}

func TestDecodeRejectsPartialTrailingRecord(t *testing.T) {
	buf := synthesize(2)
	buf = append(buf, []byte{1, 2, 3}...) // 3 stray bytes of a 3rd record

	recs := Decode(buf, "ES", "U5")
	assert.Len(t, recs, 2)
}

func TestDecodeEmpty(t *testing.T) {
	assert.Nil(t, Decode(nil, "ES", "U5"))
	assert.Nil(t, Decode(make([]byte, 10), "ES", "U5")) // less than one record
}

func TestDecodableLen(t *testing.T) {
	assert.Equal(t, 0, DecodableLen(39))
	assert.Equal(t, 40, DecodableLen(40))
	assert.Equal(t, 40, DecodableLen(79))
	assert.Equal(t, 80, DecodableLen(80))
}
