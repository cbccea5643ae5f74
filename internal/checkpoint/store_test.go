// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsEmptyStore(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Equal(t, Entry{}, s.Get("ESU5"))
}

func TestLoadCorruptFileYieldsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))

	s := Load(path)
	assert.Equal(t, Entry{}, s.Get("ESU5"))
}

func TestLoadWrongShapeYieldsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not", "a", "map"]`), 0o644))

	s := Load(path)
	assert.Equal(t, Entry{}, s.Get("ESU5"))
}

func TestLoadMissingRequiredFieldYieldsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ESU5": {"last_position": 120}}`), 0o644))

	s := Load(path)
	assert.Equal(t, Entry{}, s.Get("ESU5"))
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")

	s := Load(path)
	s.Advance("ESU5", 560)
	require.NoError(t, s.Save())

	reloaded := Load(path)
	assert.Equal(t, Entry{LastPosition: 560, InitialLoadDone: true}, reloaded.Get("ESU5"))
}

func TestAdvanceIsMonotonicAndIdempotent(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "checkpoint.json"))

	s.Advance("ESU5", 560)
	assert.Equal(t, int64(560), s.Get("ESU5").LastPosition)

	s.Advance("ESU5", 200) // not an advance, must be ignored
	assert.Equal(t, int64(560), s.Get("ESU5").LastPosition)

	s.Advance("ESU5", 560) // equal, idempotent no-op
	assert.Equal(t, int64(560), s.Get("ESU5").LastPosition)

	s.Advance("ESU5", 920)
	assert.Equal(t, int64(920), s.Get("ESU5").LastPosition)
}

func TestSavePreservesUnrelatedStreams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")

	s := Load(path)
	s.Advance("ESU5", 40)
	s.Advance("NQZ5", 80)
	require.NoError(t, s.Save())

	reloaded := Load(path)
	assert.Equal(t, int64(40), reloaded.Get("ESU5").LastPosition)
	assert.Equal(t, int64(80), reloaded.Get("NQZ5").LastPosition)
}
