// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/scidtail/scidtail/internal/logging"
	"github.com/scidtail/scidtail/internal/metrics"
	"github.com/scidtail/scidtail/internal/scid"
)

// Endpoint describes QuestDB's ILP-over-HTTP write endpoint.
type Endpoint struct {
	URL         string // e.g. http://localhost:9000/write
	Measurement string
	Timeout     time.Duration
}

// Run fans records out across workers concurrent flushes to ep: a shared
// queue of index windows, one dedicated HTTP client per worker, any single
// worker failure failing the whole tick (errgroup returns the first
// non-nil error; sibling workers stop picking up new windows once it's
// observed).
//
// ctx governs which windows get started, not windows already in flight: a
// worker already inside flushWindow runs to completion on its own
// flush-timeout context even if ctx is cancelled (e.g. by an interrupt),
// since an HTTP POST midway through QuestDB's ILP write cannot be resumed
// safely. If ctx is cancelled before the queue drains, Run returns ctx's
// error so the caller can tell "interrupted, drain what was in flight"
// apart from a genuine transport/5xx failure.
//
// Run returns nil only if every window flushed successfully; callers must
// not advance the checkpoint otherwise. symbol/symbolPeriod label the
// per-stream metrics; every record in one Run call belongs to the same
// stream since the supervisor invokes Run once per tailed file.
func Run(ctx context.Context, records []scid.Record, ep Endpoint, workers, batchSize int, symbol, symbolPeriod string) error {
	if len(records) == 0 {
		return nil
	}

	windows := Plan(len(records), batchSize)
	queue := NewQueue(windows)

	// Paces window flushes at one token per worker per second so the
	// steady-state request rate to the endpoint stays predictable. Only the
	// first attempt of each window waits on this limiter; resty's retries of
	// a failed request are not gated by it and follow resty's own retry wait.
	limiter := rate.NewLimiter(rate.Limit(workers), workers)

	// failed is cancelled the moment any worker hits a genuine flush error,
	// independent of ctx, so siblings stop picking up new windows right
	// away instead of draining the whole queue into a tick that's already
	// doomed. It is never cancelled by an interrupt.
	failed, fail := context.WithCancel(context.Background())
	defer fail()

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		client := resty.New().
			SetBaseURL(ep.URL).
			SetTimeout(ep.Timeout).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond)

		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				if failed.Err() != nil {
					return nil
				}

				w, ok := queue.Pop()
				if !ok {
					return nil
				}

				if err := limiter.Wait(context.Background()); err != nil {
					return err
				}

				flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ep.Timeout)
				err := flushWindow(flushCtx, client, ep, records[w.Start:w.End])
				cancel()
				if err != nil {
					metrics.WorkerFailures.Inc()
					fail()
					return fmt.Errorf("ingest: flush window [%d,%d): %w", w.Start, w.End, err)
				}
				metrics.RecordsIngested.WithLabelValues(symbol, symbolPeriod).Add(float64(w.End - w.Start))
			}
		})
	}

	return g.Wait()
}

func flushWindow(ctx context.Context, client *resty.Client, ep Endpoint, window []scid.Record) error {
	body, err := EncodeWindow(window, ep.Measurement)
	if err != nil {
		return err
	}

	resp, err := client.R().
		SetContext(ctx).
		SetBody(body).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		Post("")
	if err != nil {
		return fmt.Errorf("ilp flush request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ilp flush rejected: status %d: %s", resp.StatusCode(), resp.String())
	}

	logging.Debugf("ingest: flushed %d records to %s", len(window), ep.URL)
	return nil
}
