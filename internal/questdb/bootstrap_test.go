// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package questdb

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scidtail/scidtail/internal/config"
)

func TestCreateTableTemplateIncludesDedupKeys(t *testing.T) {
	sqlText := createTableTemplate
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS",
		"TIMESTAMP(time)",
		"PARTITION BY DAY WAL",
		"DEDUP UPSERT KEYS(time, symbol, symbol_period)",
		"symbol SYMBOL CAPACITY 256",
	} {
		require.Contains(t, sqlText, want)
	}
}

func TestAddFrontContractTemplateIsIdempotentSyntax(t *testing.T) {
	require.Contains(t, addFrontContractTemplate, "ADD COLUMN IF NOT EXISTS front_contract BOOLEAN")
}

// TestBootstrapAgainstLiveQuestDB is an integration test that only runs when
// QUESTDB_TEST_PG_PORT points at a reachable instance; it is skipped
// otherwise, since schema bootstrap cannot be exercised against a real
// QuestDB pg-wire endpoint from a hermetic unit test run.
func TestBootstrapAgainstLiveQuestDB(t *testing.T) {
	portStr := os.Getenv("QUESTDB_TEST_PG_PORT")
	if portStr == "" {
		t.Skip("QUESTDB_TEST_PG_PORT not set, skipping live QuestDB integration test")
	}
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	conn, err := Connect(config.Database{
		Host:     "localhost",
		PGPort:   port,
		User:     "admin",
		Password: "quest",
		Name:     "qdb",
	})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Bootstrap(context.Background(), conn, "scidtail_test_trades"))
	require.NoError(t, Bootstrap(context.Background(), conn, "scidtail_test_trades")) // idempotent
}
