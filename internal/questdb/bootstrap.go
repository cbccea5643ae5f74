// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package questdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/scidtail/scidtail/internal/logging"
)

const createTableTemplate = `CREATE TABLE IF NOT EXISTS %s (
    time TIMESTAMP,
    open DOUBLE,
    high DOUBLE,
    low DOUBLE,
    close DOUBLE,
    volume INT,
    number_of_trades INT,
    bid_volume INT,
    ask_volume INT,
    symbol SYMBOL CAPACITY 256,
    symbol_period SYMBOL CAPACITY 256,
    front_contract BOOLEAN
) TIMESTAMP(time)
PARTITION BY DAY WAL
DEDUP UPSERT KEYS(time, symbol, symbol_period)`

const addFrontContractTemplate = `ALTER TABLE %s ADD COLUMN IF NOT EXISTS front_contract BOOLEAN`

// Bootstrap ensures tableName exists with the columns and dedup keys the
// ingestion pipeline and marker require (spec.md §4.6). It is safe to call
// on every process start: both statements are idempotent, and the ALTER is
// additionally tolerant of an "already exists" error from an older schema
// variant that lacks QuestDB's ADD COLUMN IF NOT EXISTS support (spec.md §9).
func Bootstrap(ctx context.Context, c *Connection, tableName string) error {
	if _, err := c.DB.ExecContext(ctx, fmt.Sprintf(createTableTemplate, tableName)); err != nil {
		return fmt.Errorf("questdb: create table %s: %w", tableName, err)
	}
	logging.Infof("questdb: table %s bootstrapped", tableName)

	if _, err := c.DB.ExecContext(ctx, fmt.Sprintf(addFrontContractTemplate, tableName)); err != nil {
		if !strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return fmt.Errorf("questdb: add front_contract column to %s: %w", tableName, err)
		}
		logging.Debugf("questdb: front_contract column already present on %s", tableName)
	}

	return nil
}
