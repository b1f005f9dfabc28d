// Copyright 2024 The kofn Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qcache

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	log "github.com/golang/glog"
)

// BadgerConfig configures the persistent cache store.
type BadgerConfig struct {
	// Path is the directory for the database files. Required unless
	// InMemory is set. The database is created if absent and reopened if
	// it already exists.
	Path string

	// InMemory keeps the store off disk. Useful for tests.
	InMemory bool

	// SyncWrites makes every write durable before returning. Synthesis
	// results are recomputable, so this defaults to off.
	SyncWrites bool
}

// BadgerStore is a Store backed by an embedded BadgerDB table. Safe for
// concurrent use.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) the persistent store described by cfg.
// The caller owns the returned store and must Close it.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for a persistent cache store")
	}
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(glogAdapter{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get implements Store. A missing key is a miss, not an error.
func (s *BadgerStore) Get(key string) (*Entry, bool, error) {
	var e *Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			e, err = decodeEntry(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

// Put implements Store. Overwriting an existing key is harmless since
// entries for one key are deterministic; no read-modify-write is needed.
func (s *BadgerStore) Put(key string, e *Entry) error {
	data, err := encodeEntry(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// glogAdapter routes BadgerDB's internal logging to glog verbose levels.
type glogAdapter struct{}

func (glogAdapter) Errorf(format string, args ...interface{}) {
	log.ErrorfDepth(2, format, args...)
}

func (glogAdapter) Warningf(format string, args ...interface{}) {
	log.WarningfDepth(2, format, args...)
}

func (glogAdapter) Infof(format string, args ...interface{}) {
	log.V(1).Infof(format, args...)
}

func (glogAdapter) Debugf(format string, args ...interface{}) {
	log.V(2).Infof(format, args...)
}
