// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package marker implements the front-contract computation of spec.md §4.7:
// a day-by-day, symbol-by-symbol pass that assigns a single boolean "front"
// flag to the contract period with the highest daily traded volume.
package marker

import (
	"context"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/scidtail/scidtail/internal/logging"
	"github.com/scidtail/scidtail/internal/metrics"
	"github.com/scidtail/scidtail/internal/questdb"
)

const dateLayout = "2006-01-02"

// psql is squirrel's statement builder configured for QuestDB's pg-wire
// endpoint, which (like postgres) expects $1, $2, ... placeholders rather
// than squirrel's default "?".
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// volumeByPeriod is one symbol_period's aggregated daily volume.
type volumeByPeriod struct {
	SymbolPeriod string `db:"symbol_period"`
	Volume       int64  `db:"total_volume"`
}

// Run executes the marker over every day in [startDate, today], inclusive,
// for every distinct symbol present in tableName. resumeSymbol, if set,
// skips symbols lexicographically before it, but only on the first day
// processed (spec.md §4.7).
func Run(ctx context.Context, conn *questdb.Connection, tableName, startDate, resumeSymbol string) error {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return fmt.Errorf("marker: invalid start date %q: %w", startDate, err)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)

	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		symbols, err := distinctSymbols(ctx, conn, tableName, day)
		if err != nil {
			logging.Errorf("marker: listing symbols for %s: %v", day.Format(dateLayout), err)
			continue
		}

		resume := day.Equal(start)
		for _, symbol := range symbols {
			if resume && resumeSymbol != "" && symbol < resumeSymbol {
				continue
			}
			if err := markDaySymbol(ctx, conn, tableName, day, symbol); err != nil {
				logging.Errorf("marker: %s/%s: %v", day.Format(dateLayout), symbol, err)
				continue
			}
		}
	}
	return nil
}

func distinctSymbols(ctx context.Context, conn *questdb.Connection, tableName string, day time.Time) ([]string, error) {
	query, args, err := psql.Select("DISTINCT symbol").
		From(tableName).
		Where("time >= ? AND time < ?", day, day.AddDate(0, 0, 1)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build symbol query: %w", err)
	}

	var symbols []string
	if err := conn.DB.SelectContext(ctx, &symbols, query, args...); err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// markDaySymbol performs steps 1-4 of spec.md §4.7 for one (day, symbol)
// pair: it aggregates and chooses outside any transaction, then resets and
// sets front_contract inside a single transaction.
func markDaySymbol(ctx context.Context, conn *questdb.Connection, tableName string, day time.Time, symbol string) error {
	dayEnd := day.AddDate(0, 0, 1)

	volumes, err := aggregateVolumes(ctx, conn, tableName, day, dayEnd, symbol)
	if err != nil {
		return fmt.Errorf("aggregate volumes: %w", err)
	}
	if len(volumes) < 2 {
		return nil // no ambiguity, nothing to mark
	}

	chosen := choosePeriod(volumes)

	tx, err := conn.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := setFrontContract(ctx, tx, tableName, day, dayEnd, symbol, "", false); err != nil {
		return fmt.Errorf("reset front_contract: %w", err)
	}
	if err := setFrontContract(ctx, tx, tableName, day, dayEnd, symbol, chosen, true); err != nil {
		return fmt.Errorf("set front_contract for %s: %w", chosen, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	tx = nil

	metrics.FrontContractMarks.WithLabelValues(symbol).Inc()
	logging.Infof("marker: %s/%s front contract -> %s", day.Format(dateLayout), symbol, chosen)
	return nil
}

func aggregateVolumes(ctx context.Context, conn *questdb.Connection, tableName string, day, dayEnd time.Time, symbol string) ([]volumeByPeriod, error) {
	query, args, err := psql.Select("symbol_period", "SUM(volume) AS total_volume").
		From(tableName).
		Where(sq.Eq{"symbol": symbol}).
		Where("time >= ? AND time < ?", day, dayEnd).
		GroupBy("symbol_period").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build aggregate query: %w", err)
	}

	var rows []volumeByPeriod
	if err := conn.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// choosePeriod picks the maximum-volume symbol_period, breaking ties by
// lexicographically smallest symbol_period (spec.md §4.7 step 3).
func choosePeriod(volumes []volumeByPeriod) string {
	best := volumes[0]
	for _, v := range volumes[1:] {
		if v.Volume > best.Volume || (v.Volume == best.Volume && v.SymbolPeriod < best.SymbolPeriod) {
			best = v
		}
	}
	return best.SymbolPeriod
}

func setFrontContract(ctx context.Context, tx *sqlx.Tx, tableName string, day, dayEnd time.Time, symbol, period string, value bool) error {
	builder := psql.Update(tableName).
		Set("front_contract", value).
		Where(sq.Eq{"symbol": symbol}).
		Where("time >= ? AND time < ?", day, dayEnd)
	if period != "" {
		builder = builder.Where(sq.Eq{"symbol_period": period})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
