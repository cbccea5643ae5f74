// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package scid decodes the vendor's fixed-record binary market-data format
// (spec.md §3, §6): a 56-byte opaque header followed by an arbitrary number
// of 40-byte little-endian records.
package scid

import "time"

const (
	// HeaderSize is the number of opaque bytes at the start of every SCID
	// file; never decoded.
	HeaderSize = 56

	// RecordSize is the fixed on-disk size of one raw record.
	RecordSize = 40
)

// scidEpoch is the origin of the vendor's scdatetime field: microseconds
// since 1899-12-30 00:00:00 UTC (the same epoch Excel/COM DATE values use).
var scidEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// scidEpochUnixMicro is scidEpoch expressed as microseconds since the Unix
// epoch, so converting a raw scdatetime to a Unix-relative microsecond count
// is a single addition (spec.md §4.1).
var scidEpochUnixMicro = scidEpoch.UnixMicro()

// Raw is the on-disk record layout (spec.md §3), little-endian, no padding.
type Raw struct {
	SCDateTime  uint64
	Open        float32
	High        float32
	Low         float32
	Close       float32
	NumTrades   uint32
	TotalVolume uint32
	BidVolume   uint32
	AskVolume   uint32
}

// Record is the logical, widened representation used throughout the
// pipeline and sent to the database (spec.md §3).
type Record struct {
	// TimeUnixMicro is microseconds since the Unix epoch, UTC.
	TimeUnixMicro int64
	Open          float64
	High          float64
	Low           float64
	Close         float64
	Volume        int32
	NumberOfTrades int32
	BidVolume     int32
	AskVolume     int32
	Symbol        string
	SymbolPeriod  string
	FrontContract bool
}
