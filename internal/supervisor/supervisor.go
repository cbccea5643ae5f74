// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package supervisor drives the process' two gocron-scheduled loops: the
// tailing tick and the daily front-contract marker pass, classifying
// errors from each so only a genuine worker/ingestion failure terminates
// the process, while an interrupt drains cleanly.
package supervisor

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/scidtail/scidtail/internal/checkpoint"
	"github.com/scidtail/scidtail/internal/config"
	"github.com/scidtail/scidtail/internal/ingest"
	"github.com/scidtail/scidtail/internal/ingesterr"
	"github.com/scidtail/scidtail/internal/logging"
	"github.com/scidtail/scidtail/internal/marker"
	"github.com/scidtail/scidtail/internal/metrics"
	"github.com/scidtail/scidtail/internal/questdb"
	"github.com/scidtail/scidtail/internal/scid"
	"github.com/scidtail/scidtail/internal/tailer"
	"github.com/scidtail/scidtail/internal/util"
)

// Supervisor owns the gocron scheduler, the checkpoint store, and the set
// of streams being tailed.
type Supervisor struct {
	cfg   *config.Config
	store *checkpoint.Store
	conn  *questdb.Connection
	sched gocron.Scheduler

	mu       sync.Mutex
	aborted  bool
	fatalErr error
	cancel   context.CancelFunc
}

// New builds a Supervisor; it does not start ticking until Run is called.
func New(cfg *config.Config, store *checkpoint.Store, conn *questdb.Connection) (*Supervisor, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ingesterr.Wrap(ingesterr.ClassConfig, err, "supervisor: create scheduler")
	}
	return &Supervisor{cfg: cfg, store: store, conn: conn, sched: s}, nil
}

// Run registers the tail tick and the marker cron job, starts the
// scheduler, and blocks until ctx is cancelled, SIGINT/SIGTERM arrives, or
// a tick hits a genuine worker/ingestion failure. On interrupt it drains
// any in-flight flush, stops the scheduler, and returns nil. On a worker
// failure it stops the scheduler and returns the failure so the caller
// can exit non-zero.
func (s *Supervisor) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	sleep := time.Duration(s.cfg.Ingest.SleepDuration) * time.Second
	if _, err := s.sched.NewJob(
		gocron.DurationJob(sleep),
		gocron.NewTask(func() { s.tick(ctx) }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		return ingesterr.Wrap(ingesterr.ClassConfig, err, "supervisor: register tail job")
	}

	if _, err := s.sched.NewJob(
		gocron.CronJob(s.cfg.Marker.CronSchedule, false),
		gocron.NewTask(func() { s.runMarker(ctx) }),
	); err != nil {
		return ingesterr.Wrap(ingesterr.ClassConfig, err, "supervisor: register marker job")
	}

	s.sched.Start()
	logging.Infof("supervisor: started (tail every %s, marker %q)", sleep, s.cfg.Marker.CronSchedule)

	<-ctx.Done()
	logging.Infof("supervisor: stopping, draining in-flight work")

	shutdownErr := s.sched.Shutdown()

	s.mu.Lock()
	fatalErr := s.fatalErr
	s.mu.Unlock()
	if fatalErr != nil {
		return fatalErr
	}
	return shutdownErr
}

// tick performs one supervisor iteration: discover streams, tail each,
// ingest, and advance the checkpoint only after every worker succeeds.
func (s *Supervisor) tick(ctx context.Context) {
	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	start := time.Now()
	defer func() { metrics.TickDuration.Observe(time.Since(start).Seconds()) }()

	streams, err := util.DiscoverStreams(s.cfg.Ingest.SCIDDir)
	if err != nil {
		logging.Errorf("supervisor: discovering SCID files: %v", err)
		s.sleepOnUnexpectedError()
		return
	}

	for _, st := range streams {
		if err := s.tickStream(ctx, st); err != nil {
			switch ingesterr.ClassOf(err) {
			case ingesterr.ClassIngestion:
				logging.Errorf("supervisor: worker failure on %s%s, exiting: %v", st.Symbol, st.SymbolPeriod, err)
				s.abort(err)
				return
			default:
				logging.Errorf("supervisor: %s%s: %v", st.Symbol, st.SymbolPeriod, err)
				s.sleepOnUnexpectedError()
			}
		}
	}
}

func (s *Supervisor) tickStream(ctx context.Context, st util.StreamFile) error {
	id := scid.StreamID(st.Symbol, st.SymbolPeriod)
	entry := s.store.Get(id)
	sl := logging.StreamLogger(st.Symbol, st.SymbolPeriod)

	res, err := tailer.Tail(st.Path, entry.LastPosition, st.Symbol, st.SymbolPeriod)
	if err != nil {
		return ingesterr.Wrap(ingesterr.ClassSourceFile, err, "tail "+st.Path)
	}
	if len(res.Records) == 0 {
		return nil
	}

	sl.Infof("%s", sl.Offsets(entry.LastPosition, res.NewOffset))
	metrics.BytesTailed.WithLabelValues(st.Symbol, st.SymbolPeriod).Add(float64(res.BytesRead))

	ep := ingest.Endpoint{
		URL:         s.cfg.Database.ILPURL(),
		Measurement: s.cfg.Marker.TableName,
		Timeout:     time.Duration(s.cfg.Ingest.FlushTimeout) * time.Second,
	}

	if err := ingest.Run(ctx, res.Records, ep, s.cfg.Ingest.Workers, s.cfg.Ingest.BatchSize, st.Symbol, st.SymbolPeriod); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			sl.Infof("tick interrupted before the queue drained, checkpoint left unchanged")
			return nil
		}
		return ingesterr.Wrap(ingesterr.ClassIngestion, err, "ingest "+id)
	}

	s.store.Advance(id, res.NewOffset)
	metrics.CheckpointOffset.WithLabelValues(st.Symbol, st.SymbolPeriod).Set(float64(res.NewOffset))
	if err := s.store.Save(); err != nil {
		return ingesterr.Wrap(ingesterr.ClassCheckpoint, err, "save checkpoint")
	}

	return nil
}

func (s *Supervisor) runMarker(ctx context.Context) {
	startDate := s.cfg.Marker.StartDate
	if startDate == "" {
		startDate = time.Now().UTC().Format("2006-01-02")
	}
	if err := marker.Run(ctx, s.conn, s.cfg.Marker.TableName, startDate, s.cfg.Marker.ResumeSymbol); err != nil {
		logging.Errorf("supervisor: marker pass failed: %v", err)
	}
}

func (s *Supervisor) sleepOnUnexpectedError() {
	time.Sleep(60 * time.Second)
}

// abort records the fatal error and wakes Run's <-ctx.Done() so the
// process can shut down and exit non-zero instead of idling until the
// next tick, which would just see aborted and no-op forever.
func (s *Supervisor) abort(err error) {
	s.mu.Lock()
	s.aborted = true
	s.fatalErr = err
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
