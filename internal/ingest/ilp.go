// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ingest implements the batch planner and parallel ingestion worker
// pool of spec.md §4.4–§4.5: it partitions an in-memory slice of decoded
// records into index windows, fans them out across a worker pool, and
// streams each window to QuestDB's ILP-over-HTTP write endpoint.
package ingest

import (
	"fmt"
	"time"

	"github.com/influxdata/line-protocol/v2/lineprotocol"

	"github.com/scidtail/scidtail/internal/scid"
)

// EncodeWindow renders records (one window, already sliced by the caller) as
// an influx line-protocol batch.
// symbol and symbol_period are emitted as tags (categorical/"symbol"
// semantics per spec.md §4.5); time is the designated timestamp.
func EncodeWindow(records []scid.Record, measurement string) ([]byte, error) {
	var enc lineprotocol.Encoder
	enc.SetPrecision(lineprotocol.Microsecond)
	enc.SetLax(false)

	for _, r := range records {
		enc.StartLine(measurement)
		enc.AddTag("symbol", r.Symbol)
		enc.AddTag("symbol_period", r.SymbolPeriod)
		enc.AddField("open", lineprotocol.FloatValue(r.Open))
		enc.AddField("high", lineprotocol.FloatValue(r.High))
		enc.AddField("low", lineprotocol.FloatValue(r.Low))
		enc.AddField("close", lineprotocol.FloatValue(r.Close))
		enc.AddField("volume", lineprotocol.IntValue(int64(r.Volume)))
		enc.AddField("number_of_trades", lineprotocol.IntValue(int64(r.NumberOfTrades)))
		enc.AddField("bid_volume", lineprotocol.IntValue(int64(r.BidVolume)))
		enc.AddField("ask_volume", lineprotocol.IntValue(int64(r.AskVolume)))
		enc.AddField("front_contract", lineprotocol.BoolValue(r.FrontContract))
		enc.EndLine(time.UnixMicro(r.TimeUnixMicro).UTC())

		if err := enc.Err(); err != nil {
			return nil, fmt.Errorf("ingest: encode record %s%s at %d: %w",
				r.Symbol, r.SymbolPeriod, r.TimeUnixMicro, err)
		}
	}

	return enc.Bytes(), nil
}
