// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package logging

import "fmt"

// Stream is a logger bound to one (symbol, symbol_period) stream so that
// every line it emits identifies the stream and the byte range involved.
type Stream struct {
	id string
}

// StreamLogger returns a Stream logger for symbol+symbolPeriod.
func StreamLogger(symbol, symbolPeriod string) *Stream {
	return &Stream{id: symbol + symbolPeriod}
}

func (s *Stream) Infof(format string, v ...interface{}) {
	Infof("[%s] "+format, append([]interface{}{s.id}, v...)...)
}

// Offsets formats a [old, new) byte range for tailer/checkpoint log lines.
func (s *Stream) Offsets(old, new int64) string {
	return fmt.Sprintf("offset [%d, %d)", old, new)
}
