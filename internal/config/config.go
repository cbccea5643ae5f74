// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the process configuration from environment
// variables, matching the deployment model of the original SCID ingest
// tooling (spec.md §6). An optional ".env" file is loaded first via
// godotenv, mirroring the original tool's load_dotenv() call; missing .env
// is not an error.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/scidtail/scidtail/internal/logging"
)

// Database holds connection settings for the QuestDB instance: one port
// for the ILP write endpoint, one for the pg-wire query endpoint used by
// schema bootstrap and the front-contract marker.
type Database struct {
	Host     string
	ILPPort  int
	PGPort   int
	User     string
	Password string
	Name     string
}

// ILPURL returns the QuestDB ILP-over-HTTP write endpoint.
func (d Database) ILPURL() string {
	return fmt.Sprintf("http://%s:%d/write", d.Host, d.ILPPort)
}

// Ingest holds the tailer/pipeline tunables of spec.md §6.
type Ingest struct {
	SCIDDir        string
	CheckpointFile string
	BatchSize      int
	Workers        int
	SleepDuration  int // seconds between supervisor ticks
	FlushTimeout   int // seconds, per-worker flush timeout
}

// Marker holds the front-contract marker's scheduling and resume settings.
type Marker struct {
	StartDate     string // YYYY-MM-DD, empty means "today"
	ResumeSymbol  string // skip symbols lexicographically before this on day one
	CronSchedule  string
	TableName     string
	MetricsPort   int
	GopsAgent     bool
}

// Config is the fully resolved process configuration.
type Config struct {
	Database Database
	Ingest   Ingest
	Marker   Marker
}

// Load reads ./.env (if present) then resolves every setting from the
// environment, applying the defaults from spec.md §6. A malformed integer
// env var is a configuration error: fail fast (spec.md §7 taxonomy 1).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: parsing .env: %w", err)
	}

	ilpPort, err := envInt("DB_PORT", 9000)
	if err != nil {
		return nil, err
	}
	pgPort, err := envInt("DB_PG_PORT", 8812)
	if err != nil {
		return nil, err
	}
	batchSize, err := envInt("BATCH_SIZE", 200000)
	if err != nil {
		return nil, err
	}
	workers, err := envInt("PARALLEL_WORKERS", 8)
	if err != nil {
		return nil, err
	}
	sleepDuration, err := envInt("SLEEP_DURATION", 1000)
	if err != nil {
		return nil, err
	}
	flushTimeout, err := envInt("FLUSH_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	metricsPort, err := envInt("METRICS_PORT", 9091)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: Database{
			Host:     envStr("DB_HOST", "localhost"),
			ILPPort:  ilpPort,
			PGPort:   pgPort,
			User:     envStr("DB_USER", "admin"),
			Password: envStr("DB_PASSWORD", "quest"),
			Name:     envStr("DB_DATABASE", "qdb"),
		},
		Ingest: Ingest{
			SCIDDir:        envStr("SCID_DIR", "."),
			CheckpointFile: envStr("CHECKPOINT_FILE", "./checkpoint.json"),
			BatchSize:      batchSize,
			Workers:        workers,
			SleepDuration:  sleepDuration,
			FlushTimeout:   flushTimeout,
		},
		Marker: Marker{
			StartDate:    envStr("MARKER_START_DATE", ""),
			ResumeSymbol: envStr("MARKER_RESUME_SYMBOL", ""),
			CronSchedule: envStr("MARKER_SCHEDULE", "0 10 * * *"),
			TableName:    envStr("DB_TABLE", "trades"),
			MetricsPort:  metricsPort,
			GopsAgent:    envStr("GOPS_AGENT", "false") == "true",
		},
	}

	if cfg.Ingest.BatchSize <= 0 {
		return nil, fmt.Errorf("config: BATCH_SIZE must be positive, got %d", cfg.Ingest.BatchSize)
	}
	if cfg.Ingest.Workers <= 0 {
		return nil, fmt.Errorf("config: PARALLEL_WORKERS must be positive, got %d", cfg.Ingest.Workers)
	}

	logging.Infof("config: loaded (db=%s:%d/%d workers=%d batch=%d)",
		cfg.Database.Host, cfg.Database.ILPPort, cfg.Database.PGPort, cfg.Ingest.Workers, cfg.Ingest.BatchSize)

	return cfg, nil
}

func envStr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", key, v, err)
	}
	return n, nil
}
