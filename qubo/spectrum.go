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

package qubo

import "sort"

// Spectrum is the sorted list of distinct energies reachable by some
// assignment of a QUBO's variables.
type Spectrum []float64

// Spectrum enumerates every assignment of q's variables and returns the
// distinct energies in ascending order. The enumeration is exponential in
// the variable count, so this is only meant for constraint-local QUBOs.
// An empty QUBO has the single energy 0.
func (q QUBO) Spectrum() Spectrum {
	vars := q.Variables()
	distinct := make(map[float64]bool)
	assignment := make(map[Var]bool, len(vars))
	for mask := 0; mask < 1<<len(vars); mask++ {
		for i, v := range vars {
			assignment[v] = mask&(1<<i) != 0
		}
		distinct[q.Energy(assignment)] = true
	}
	s := make(Spectrum, 0, len(distinct))
	for e := range distinct {
		s = append(s, e)
	}
	sort.Float64s(s)
	return s
}

// Min returns the lowest energy, or 0 for an empty spectrum.
func (s Spectrum) Min() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// MinGap returns the gap between the lowest and second-lowest energies.
// A spectrum with fewer than two levels cannot be excited, so its gap is 0.
func (s Spectrum) MinGap() float64 {
	if len(s) < 2 {
		return 0
	}
	return s[1] - s[0]
}

// Span returns the difference between the highest and lowest energies.
func (s Spectrum) Span() float64 {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1] - s[0]
}
