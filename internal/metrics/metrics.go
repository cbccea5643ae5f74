// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes the ambient Prometheus instrumentation of
// SPEC_FULL.md §D. Metrics are ambient, not a feature: they are carried
// regardless of spec.md's functional Non-goals.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scidtail/scidtail/internal/logging"
)

var (
	RecordsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scidtail_records_ingested_total",
		Help: "Total decoded records successfully flushed to QuestDB.",
	}, []string{"symbol", "symbol_period"})

	BytesTailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scidtail_bytes_tailed_total",
		Help: "Total bytes consumed from SCID files by the tailer.",
	}, []string{"symbol", "symbol_period"})

	CheckpointOffset = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scidtail_checkpoint_offset",
		Help: "Last durably persisted byte offset per stream.",
	}, []string{"symbol", "symbol_period"})

	WorkerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scidtail_worker_failures_total",
		Help: "Total ingestion worker flush failures.",
	})

	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scidtail_tick_duration_seconds",
		Help:    "Duration of one supervisor tick (tail + ingest + checkpoint).",
		Buckets: prometheus.DefBuckets,
	})

	FrontContractMarks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scidtail_front_contract_marks_total",
		Help: "Total front-contract flag rewrites performed by the marker.",
	}, []string{"symbol"})
)

// Serve starts the metrics HTTP server on port and blocks until ctx is
// cancelled, mirroring the teacher's pattern of a short-lived listener
// goroutine shut down via context cancellation.
func Serve(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("metrics: listening on :%d/metrics", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("metrics: server: %w", err)
		}
		return nil
	}
}
