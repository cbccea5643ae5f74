// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package checkpoint persists the per-stream byte-offset state described in
// spec.md §3/§4.2: a single JSON document mapping stream id
// ("<symbol><symbol_period>") to {last_position, initial_load_done}.
package checkpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/scidtail/scidtail/internal/logging"
)

// documentSchema guards against silently trusting a syntactically valid but
// structurally wrong JSON document (e.g. an array, or entries missing
// last_position) — spec.md §4.2/§7.3 treat any such corruption the same way
// a parse failure is treated: log and fall back to an empty map.
const documentSchemaJSON = `{
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "properties": {
      "last_position": {"type": "integer", "minimum": 0},
      "initial_load_done": {"type": "boolean"}
    },
    "required": ["last_position", "initial_load_done"]
  }
}`

var documentSchema = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("checkpoint.json", bytes.NewReader([]byte(documentSchemaJSON))); err != nil {
		panic(fmt.Sprintf("checkpoint: invalid embedded schema: %v", err))
	}
	return c.MustCompile("checkpoint.json")
}()

// Entry is one stream's durable offset state.
type Entry struct {
	LastPosition    int64 `json:"last_position"`
	InitialLoadDone bool  `json:"initial_load_done"`
}

// Store is a durable, atomically-rewritten map of stream id to Entry.
// Unknown keys present in the document at load time are preserved on save
// (spec.md §6).
type Store struct {
	path string
	mu   sync.Mutex
	data map[string]Entry
}

// Load reads path. A missing file, an unreadable file, or a document that
// fails to parse or fails schema validation all produce an empty store —
// corruption is logged, never fatal (spec.md §4.2, §7 taxonomy 3).
func Load(path string) *Store {
	s := &Store{path: path, data: make(map[string]Entry)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warnf("checkpoint: reading %s: %v (starting with empty checkpoint)", path, err)
		}
		return s
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		logging.Warnf("checkpoint: %s is not valid JSON: %v (starting with empty checkpoint)", path, err)
		return s
	}
	if err := documentSchema.Validate(v); err != nil {
		logging.Warnf("checkpoint: %s does not match the expected document shape: %v (starting with empty checkpoint)", path, err)
		return s
	}

	var doc map[string]Entry
	if err := json.Unmarshal(raw, &doc); err != nil {
		logging.Warnf("checkpoint: %s failed to decode despite passing validation: %v (starting with empty checkpoint)", path, err)
		return s
	}

	s.data = doc
	return s
}

// Get returns the entry for id, or the zero Entry if none exists yet.
func (s *Store) Get(id string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[id]
}

// Advance records newOffset for id if it is greater than the current
// last_position, and marks initial_load_done. It is idempotent: calling it
// again with an offset that is not an advance is a no-op (spec.md §4.2).
// The caller must still call Save to persist the change.
func (s *Store) Advance(id string, newOffset int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.data[id]
	if newOffset <= cur.LastPosition {
		return
	}
	s.data[id] = Entry{LastPosition: newOffset, InitialLoadDone: true}
}

// Save atomically rewrites the checkpoint document: write to a temp file in
// the same directory, then rename over the target, so a process crash mid
// write never leaves a half-written document (spec.md §4.2).
func (s *Store) Save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("checkpoint: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("checkpoint: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("checkpoint: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("checkpoint: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("checkpoint: rename %s -> %s: %w", tmpPath, s.path, err)
	}
	return nil
}
