// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package tailer implements the offset-tracked incremental reader described
// in spec.md §4.3: given a file path and a last-known byte position, it
// returns every whole record appended since, plus the new position.
package tailer

import (
	"fmt"
	"io"
	"os"

	"github.com/scidtail/scidtail/internal/scid"
)

// Result is one tick's worth of tailing a single stream.
type Result struct {
	Records   []scid.Record
	NewOffset int64
	BytesRead int64
}

// Tail opens path, stats it to learn file_size, and — if growth is
// available past lastPosition — reads and decodes every whole record added
// since. It never blocks waiting for the file to grow; a tick with nothing
// new simply returns a Result with no records (spec.md §4.3, §5).
func Tail(path string, lastPosition int64, symbol, symbolPeriod string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("tailer: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("tailer: stat %s: %w", path, err)
	}
	fileSize := info.Size()

	pos := lastPosition
	if pos < scid.HeaderSize {
		pos = scid.HeaderSize
	}

	if pos >= fileSize {
		// No growth. Normalize to a record boundary past the header so a
		// truncated-then-regrown file cannot wedge the stream on a stale,
		// mid-record offset.
		newPos := fileSize - (fileSize-scid.HeaderSize)%scid.RecordSize
		if newPos < scid.HeaderSize {
			newPos = scid.HeaderSize
		}
		return Result{NewOffset: newPos}, nil
	}

	if _, err := f.Seek(pos, 0); err != nil {
		return Result{}, fmt.Errorf("tailer: seek %s to %d: %w", path, pos, err)
	}

	available := fileSize - pos
	toRead := scid.DecodableLen(int(available))
	if toRead == 0 {
		return Result{NewOffset: pos}, nil
	}

	buf := make([]byte, toRead)
	if _, err := io.ReadFull(f, buf); err != nil {
		return Result{}, fmt.Errorf("tailer: read %s at %d: %w", path, pos, err)
	}

	records := scid.Decode(buf, symbol, symbolPeriod)
	return Result{
		Records:   records,
		NewOffset: pos + int64(len(buf)),
		BytesRead: int64(len(buf)),
	}, nil
}
