// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package questdb wires the pg-wire query side of a QuestDB instance: schema
// bootstrap (§4.6) and the aggregate queries the front-contract marker runs
// (§4.7). The line-protocol write side lives in internal/ingest.
package questdb

import (
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scidtail/scidtail/internal/config"
)

const driverName = "postgres-scidtail"

var registerOnce sync.Once

// Connection wraps a single pg-wire connection pool to QuestDB's query port.
type Connection struct {
	DB *sqlx.DB
}

// Connect opens a pg-wire connection pool to db.PGPort, wrapping the lib/pq
// driver with timing hooks (hooks.go), the same pattern the teacher used to
// instrument its sqlite/mysql pools.
func Connect(db config.Database) (*Connection, error) {
	registerOnce.Do(registerHooksDriver)

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		db.Host, db.PGPort, db.User, db.Password, db.Name,
	)

	handle, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("questdb: open pg-wire connection: %w", err)
	}

	handle.SetConnMaxLifetime(5 * time.Minute)
	handle.SetMaxOpenConns(10)
	handle.SetMaxIdleConns(5)

	if err := handle.Ping(); err != nil {
		return nil, fmt.Errorf("questdb: ping %s:%d: %w", db.Host, db.PGPort, err)
	}

	return &Connection{DB: handle}, nil
}

func (c *Connection) Close() error {
	return c.DB.Close()
}
