// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverStreamsFindsAndSortsScidFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"NQZ5.CME.scid", "ESU5.CME.scid", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
	}

	streams, err := DiscoverStreams(dir)
	require.NoError(t, err)
	require.Len(t, streams, 2)

	assert.Equal(t, "ES", streams[0].Symbol)
	assert.Equal(t, "U5", streams[0].SymbolPeriod)
	assert.Equal(t, "NQ", streams[1].Symbol)
	assert.Equal(t, "Z5", streams[1].SymbolPeriod)
}

func TestDiscoverStreamsEmptyDir(t *testing.T) {
	streams, err := DiscoverStreams(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, streams)
}
