// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package questdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/qustavo/sqlhooks/v2"

	"github.com/scidtail/scidtail/internal/logging"
)

type queryTimingKey struct{}

// Hooks satisfies sqlhooks.Hooks, timing every query issued against QuestDB.
type Hooks struct{}

func (h *Hooks) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	logging.Debugf("questdb: query %s %q", query, args)
	return context.WithValue(ctx, queryTimingKey{}, time.Now()), nil
}

func (h *Hooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	if begin, ok := ctx.Value(queryTimingKey{}).(time.Time); ok {
		logging.Debugf("questdb: took %s", time.Since(begin))
	}
	return ctx, nil
}

// registerHooksDriver registers the lib/pq driver wrapped with query-timing
// hooks under driverName. Called once via sync.Once in connection.go.
func registerHooksDriver() {
	sql.Register(driverName, sqlhooks.Wrap(&pq.Driver{}, &Hooks{}))
}
