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

import "sync"

// Store persists cache entries keyed by canonical constraint shape. A
// miss is (nil, false, nil), never an error. Put is insert-if-absent:
// concurrent writers computing the same key may duplicate work but must
// not corrupt the store, which is safe because entries for one key are
// deterministic.
type Store interface {
	Get(key string) (*Entry, bool, error)
	Put(key string, e *Entry) error
	Close() error
}

// MemoryStore is the in-process Store used when no persistent location is
// configured. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) (*Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

// Put implements Store. The first entry for a key wins.
func (s *MemoryStore) Put(key string, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		s.entries[key] = e
	}
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// Len returns the number of cached shapes.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
