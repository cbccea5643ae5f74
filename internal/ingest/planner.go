// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package ingest

import "sync"

// Window is a half-open [Start, End) index range over a shared, immutable
// record buffer. Workers materialize only their own window's view; the
// buffer itself is never copied.
type Window struct {
	Start, End int
}

// Plan partitions n records into windows of up to batchSize, in order.
func Plan(n, batchSize int) []Window {
	if n <= 0 || batchSize <= 0 {
		return nil
	}
	windows := make([]Window, 0, n/batchSize+1)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows
}

// Queue is a FIFO of windows drained concurrently by workers under a mutex;
// only Pop is contended.
type Queue struct {
	mu      sync.Mutex
	windows []Window
}

// NewQueue builds a Queue already populated with windows.
func NewQueue(windows []Window) *Queue {
	return &Queue{windows: windows}
}

// Pop removes and returns the next window. ok is false once the queue is
// empty, which is a worker's signal to exit.
func (q *Queue) Pop() (w Window, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.windows) == 0 {
		return Window{}, false
	}
	w, q.windows = q.windows[0], q.windows[1:]
	return w, true
}
