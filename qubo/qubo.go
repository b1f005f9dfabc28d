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

// Package qubo defines the quadratic unconstrained binary optimization
// (QUBO) representation shared by the constraint compiler and its callers.
//
// A QUBO is a sparse mapping from unordered pairs of binary variables to
// real coefficients; a pair of a variable with itself is a linear term.
// Variables are either user-visible ports or synthesized ancillae, kept
// apart by an explicit tag rather than a naming convention so that merging
// variable scopes never has to parse strings.
package qubo

import (
	"fmt"
	"sort"
)

// Var is a binary variable in a QUBO: either a named user port or an
// ancilla with a scope-local 1-based index.
type Var struct {
	name string
	anc  int
}

// Port returns the variable for the named user port.
func Port(name string) Var {
	return Var{name: name}
}

// Ancilla returns the variable for the i-th ancilla (1-based).
func Ancilla(i int) Var {
	return Var{anc: i}
}

// IsAncilla reports whether v is an ancilla variable.
func (v Var) IsAncilla() bool { return v.anc != 0 }

// PortName returns the port name, or "" for an ancilla.
func (v Var) PortName() string { return v.name }

// AncillaIndex returns the 1-based ancilla index, or 0 for a port.
func (v Var) AncillaIndex() int { return v.anc }

func (v Var) String() string {
	if v.IsAncilla() {
		return fmt.Sprintf("anc_%d", v.anc)
	}
	return v.name
}

// Less orders ports before ancillae, ports by name and ancillae by index.
func (v Var) Less(o Var) bool {
	if v.IsAncilla() != o.IsAncilla() {
		return !v.IsAncilla()
	}
	if v.IsAncilla() {
		return v.anc < o.anc
	}
	return v.name < o.name
}

// Term is an unordered pair of variables. The pair is normalized so that
// structurally equal terms compare equal as map keys.
type Term struct {
	U, V Var
}

// LinearTerm returns the linear (diagonal) term for v.
func LinearTerm(v Var) Term {
	return Term{U: v, V: v}
}

// QuadraticTerm returns the normalized pairwise term for a and b.
func QuadraticTerm(a, b Var) Term {
	if b.Less(a) {
		a, b = b, a
	}
	return Term{U: a, V: b}
}

// IsLinear reports whether t is a diagonal term.
func (t Term) IsLinear() bool { return t.U == t.V }

// Less orders terms by their first then second variable.
func (t Term) Less(o Term) bool {
	if t.U != o.U {
		return t.U.Less(o.U)
	}
	return t.V.Less(o.V)
}

func (t Term) String() string {
	if t.IsLinear() {
		return t.U.String()
	}
	return t.U.String() + "*" + t.V.String()
}

// QUBO maps normalized terms to coefficients. Absent terms have
// coefficient zero.
type QUBO map[Term]float64

// Add accumulates coeff onto term t, dropping the entry if the sum
// cancels to zero.
func (q QUBO) Add(t Term, coeff float64) {
	c := q[t] + coeff
	if c == 0 {
		delete(q, t)
		return
	}
	q[t] = c
}

// Terms returns the terms of q in a deterministic order.
func (q QUBO) Terms() []Term {
	ts := make([]Term, 0, len(q))
	for t := range q {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Less(ts[j]) })
	return ts
}

// Variables returns the sorted distinct variables appearing in q.
func (q QUBO) Variables() []Var {
	seen := make(map[Var]bool)
	var vs []Var
	for t := range q {
		if !seen[t.U] {
			seen[t.U] = true
			vs = append(vs, t.U)
		}
		if !seen[t.V] {
			seen[t.V] = true
			vs = append(vs, t.V)
		}
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i].Less(vs[j]) })
	return vs
}

// Energy evaluates q under the given assignment. Variables absent from
// the assignment are taken to be false.
func (q QUBO) Energy(assignment map[Var]bool) float64 {
	var e float64
	for t, coeff := range q {
		if assignment[t.U] && assignment[t.V] {
			e += coeff
		}
	}
	return e
}

// Equal reports whether q and o contain exactly the same terms and
// coefficients.
func (q QUBO) Equal(o QUBO) bool {
	if len(q) != len(o) {
		return false
	}
	for t, c := range q {
		oc, ok := o[t]
		if !ok || oc != c {
			return false
		}
	}
	return true
}

// Clone returns a copy of q.
func (q QUBO) Clone() QUBO {
	c := make(QUBO, len(q))
	for t, coeff := range q {
		c[t] = coeff
	}
	return c
}

// ProjectPorts restricts an assignment to user ports, dropping ancillae.
// Consumers report solutions in terms of the result; ancilla values are
// marginalized out.
func ProjectPorts(assignment map[Var]bool) map[string]bool {
	ports := make(map[string]bool)
	for v, b := range assignment {
		if !v.IsAncilla() {
			ports[v.PortName()] = b
		}
	}
	return ports
}
