// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package scid

import (
	"encoding/binary"
	"math"
)

// Decode converts a raw byte slice into logical records (spec.md §4.1).
//
// buf is rounded down to the nearest RecordSize boundary before decoding, so
// a partial trailing record is silently ignored — it will be picked up on a
// later call once the producer finishes appending it. Callers pass the
// stream's symbol/symbolPeriod once; every emitted record carries them plus
// FrontContract=false.
//
// Decode does not allocate per record beyond the returned slice: it is pure
// and safe to call from multiple goroutines concurrently on disjoint buffers.
func Decode(buf []byte, symbol, symbolPeriod string) []Record {
	n := len(buf) / RecordSize
	if n == 0 {
		return nil
	}

	out := make([]Record, n)
	for i := 0; i < n; i++ {
		b := buf[i*RecordSize : (i+1)*RecordSize]

		scdatetime := binary.LittleEndian.Uint64(b[0:8])
		open := math.Float32frombits(binary.LittleEndian.Uint32(b[8:12]))
		high := math.Float32frombits(binary.LittleEndian.Uint32(b[12:16]))
		low := math.Float32frombits(binary.LittleEndian.Uint32(b[16:20]))
		cls := math.Float32frombits(binary.LittleEndian.Uint32(b[20:24]))
		numTrades := binary.LittleEndian.Uint32(b[24:28])
		totalVolume := binary.LittleEndian.Uint32(b[28:32])
		bidVolume := binary.LittleEndian.Uint32(b[32:36])
		askVolume := binary.LittleEndian.Uint32(b[36:40])

		out[i] = Record{
			TimeUnixMicro:  scidEpochUnixMicro + int64(scdatetime),
			Open:           float64(open),
			High:           float64(high),
			Low:            float64(low),
			Close:          float64(cls),
			Volume:         int32(totalVolume),
			NumberOfTrades: int32(numTrades),
			BidVolume:      int32(bidVolume),
			AskVolume:      int32(askVolume),
			Symbol:         symbol,
			SymbolPeriod:   symbolPeriod,
			FrontContract:  false,
		}
	}
	return out
}

// DecodableLen rounds n down to the nearest multiple of RecordSize — the
// number of bytes Decode will actually consume from a buffer of length n.
func DecodableLen(n int) int {
	return n - (n % RecordSize)
}

// EncodeRaw is the inverse of the decode step used for testing: it packs a
// Raw record back into 40 little-endian bytes.
func EncodeRaw(r Raw) [RecordSize]byte {
	var b [RecordSize]byte
	binary.LittleEndian.PutUint64(b[0:8], r.SCDateTime)
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(r.Open))
	binary.LittleEndian.PutUint32(b[12:16], math.Float32bits(r.High))
	binary.LittleEndian.PutUint32(b[16:20], math.Float32bits(r.Low))
	binary.LittleEndian.PutUint32(b[20:24], math.Float32bits(r.Close))
	binary.LittleEndian.PutUint32(b[24:28], r.NumTrades)
	binary.LittleEndian.PutUint32(b[28:32], r.TotalVolume)
	binary.LittleEndian.PutUint32(b[32:36], r.BidVolume)
	binary.LittleEndian.PutUint32(b[36:40], r.AskVolume)
	return b
}
