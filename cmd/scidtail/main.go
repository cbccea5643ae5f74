// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/gops/agent"

	"github.com/scidtail/scidtail/internal/checkpoint"
	"github.com/scidtail/scidtail/internal/config"
	"github.com/scidtail/scidtail/internal/logging"
	"github.com/scidtail/scidtail/internal/marker"
	"github.com/scidtail/scidtail/internal/metrics"
	"github.com/scidtail/scidtail/internal/questdb"
	"github.com/scidtail/scidtail/internal/supervisor"
)

func main() {
	cmd, f, err := parseFlags(os.Args[1:])
	if err != nil {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("config: %v", err)
	}
	applyOverrides(cfg, f)

	if f.logLevel != "" {
		logging.SetLevel(f.logLevel)
	}
	if f.logDateTime {
		logging.SetLogDateTime(true)
	}

	if cfg.Marker.GopsAgent {
		if err := agent.Listen(agent.Options{}); err != nil {
			logging.Fatalf("gops/agent.Listen failed: %v", err)
		}
	}

	conn, err := questdb.Connect(cfg.Database)
	if err != nil {
		logging.Fatalf("questdb: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	if err := questdb.Bootstrap(ctx, conn, cfg.Marker.TableName); err != nil {
		logging.Fatalf("bootstrap: %v", err)
	}

	switch cmd {
	case "bootstrap":
		logging.Infof("bootstrap: done")
		return

	case "mark":
		from := f.markFrom
		if from == "" {
			from = cfg.Marker.StartDate
		}
		if from == "" {
			from = time.Now().UTC().Format("2006-01-02")
		}
		if err := marker.Run(ctx, conn, cfg.Marker.TableName, from, cfg.Marker.ResumeSymbol); err != nil {
			logging.Fatalf("mark: %v", err)
		}

	case "tail":
		go func() {
			if err := metrics.Serve(ctx, cfg.Marker.MetricsPort); err != nil {
				logging.Errorf("metrics server: %v", err)
			}
		}()

		store := checkpoint.Load(cfg.Ingest.CheckpointFile)
		sup, err := supervisor.New(cfg, store, conn)
		if err != nil {
			logging.Fatalf("supervisor: %v", err)
		}
		if err := sup.Run(ctx); err != nil {
			logging.Fatalf("supervisor: %v", err)
		}
	}
}

func applyOverrides(cfg *config.Config, f flags) {
	if f.dbHost != "" {
		cfg.Database.Host = f.dbHost
	}
	if f.batchSize > 0 {
		cfg.Ingest.BatchSize = f.batchSize
	}
	if f.workers > 0 {
		cfg.Ingest.Workers = f.workers
	}
	if f.scidDir != "" {
		cfg.Ingest.SCIDDir = f.scidDir
	}
	if f.markFrom != "" {
		cfg.Marker.StartDate = f.markFrom
	}
}
