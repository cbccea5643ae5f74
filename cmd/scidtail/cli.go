// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"flag"
	"fmt"
	"os"
)

// flags mirrors config env vars and, when set, overrides the loaded
// Config (SPEC_FULL.md §E), matching the teacher's flag+env-var layering.
type flags struct {
	dbHost      string
	batchSize   int
	workers     int
	scidDir     string
	markFrom    string
	logLevel    string
	logDateTime bool
}

func parseFlags(args []string) (cmd string, f flags, err error) {
	if len(args) == 0 {
		return "tail", f, nil
	}

	cmd = args[0]
	rest := args[1:]
	switch cmd {
	case "tail", "mark", "bootstrap":
	default:
		return "", f, fmt.Errorf("unknown subcommand %q (want tail, mark, or bootstrap)", cmd)
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.StringVar(&f.dbHost, "db-host", "", "override DB_HOST")
	fs.IntVar(&f.batchSize, "batch-size", 0, "override BATCH_SIZE")
	fs.IntVar(&f.workers, "workers", 0, "override PARALLEL_WORKERS")
	fs.StringVar(&f.scidDir, "scid-dir", "", "override SCID_DIR")
	fs.StringVar(&f.markFrom, "from", "", "marker start date (YYYY-MM-DD), 'mark' subcommand only")
	fs.StringVar(&f.logLevel, "loglevel", "", "override log level: debug, info, warn, err")
	fs.BoolVar(&f.logDateTime, "logdate", false, "add date and time to log messages")
	if err := fs.Parse(rest); err != nil {
		return "", f, err
	}
	return cmd, f, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: scidtail [tail|mark|bootstrap] [flags]")
	flag.PrintDefaults()
}
