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
	log "github.com/golang/glog"

	"github.com/qubokit/kofn/synth"
)

// Cache memoizes synthesis results by constraint shape. It is an explicit
// object whose lifecycle belongs to the compiler invocation that created
// it; nothing here is process-global.
type Cache struct {
	store Store
}

// New returns a cache backed by the given store, or by a fresh in-memory
// store when store is nil.
func New(store Store) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{store: store}
}

// GetOrCompute returns the cached result for the constraint shape of cols
// and numTrue, invoking compute on a miss and storing its result. The
// returned result always carries the caller's actual port names. Store
// failures degrade to recomputation, never to a wrong result.
func (c *Cache) GetOrCompute(cols []synth.Column, numTrue []int, compute func() (*synth.Result, error)) (*synth.Result, error) {
	key := Key(cols, numTrue)

	e, ok, err := c.store.Get(key)
	if err != nil {
		log.Warningf("cache read for %q failed, recomputing: %v", key, err)
	} else if ok {
		log.V(1).Infof("cache hit for %q", key)
		return &synth.Result{
			QUBO:     specialize(e.QUBO, cols),
			Ancillae: e.Ancillae,
			Spectrum: e.Spectrum,
		}, nil
	}

	r, err := compute()
	if err != nil {
		return nil, err
	}
	entry := &Entry{
		QUBO:     canonicalize(r.QUBO, cols),
		Ancillae: r.Ancillae,
		Spectrum: r.Spectrum,
	}
	if err := c.store.Put(key, entry); err != nil {
		log.Warningf("cache write for %q failed: %v", key, err)
	}
	return r, nil
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
