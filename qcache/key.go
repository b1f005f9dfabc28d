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

// Package qcache memoizes constraint-shape → QUBO synthesis results.
//
// Two constraints with the same column multiplicities and true-count set
// share one cache entry regardless of their port names: entries are stored
// under position-based placeholder variables (v0, v1, …) assigned in
// canonical column order, and translated back to the caller's ports on
// retrieval. Because placeholder assignment is positional, the translation
// is a bijection and lossless in both directions.
package qcache

import (
	"fmt"
	"strings"

	"github.com/qubokit/kofn/qubo"
	"github.com/qubokit/kofn/synth"
)

// Key derives the cache key for a constraint shape: the column
// multiplicities in canonical order and the sorted true-count set. Port
// names deliberately do not participate.
func Key(cols []synth.Column, numTrue []int) string {
	var b strings.Builder
	b.WriteString("m:")
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", c.Multiplicity)
	}
	b.WriteString("|k:")
	for i, v := range numTrue {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	return b.String()
}

// placeholder returns the canonical name of the i-th column.
func placeholder(i int) string {
	return fmt.Sprintf("v%d", i)
}

// canonicalize rewrites a QUBO's port variables to positional
// placeholders. Ancilla variables are already scope-local and pass
// through unchanged.
func canonicalize(q qubo.QUBO, cols []synth.Column) qubo.QUBO {
	names := make(map[string]string, len(cols))
	for i, c := range cols {
		names[c.Port] = placeholder(i)
	}
	return rename(q, names)
}

// specialize rewrites a canonical QUBO's placeholder variables back to
// the ports of the given columns.
func specialize(q qubo.QUBO, cols []synth.Column) qubo.QUBO {
	names := make(map[string]string, len(cols))
	for i, c := range cols {
		names[placeholder(i)] = c.Port
	}
	return rename(q, names)
}

func rename(q qubo.QUBO, names map[string]string) qubo.QUBO {
	mapVar := func(v qubo.Var) qubo.Var {
		if v.IsAncilla() {
			return v
		}
		return qubo.Port(names[v.PortName()])
	}
	out := make(qubo.QUBO, len(q))
	for t, coeff := range q {
		out[qubo.QuadraticTerm(mapVar(t.U), mapVar(t.V))] = coeff
	}
	return out
}
