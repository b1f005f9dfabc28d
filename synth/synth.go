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

// Package synth converts a single k-of-n constraint into a QUBO whose
// ground states are exactly the constraint's satisfying assignments.
//
// The coefficients are not derived in closed form. For a candidate number
// of ancilla variables, every unknown linear and quadratic coefficient
// becomes a bounded integer variable in a CP-SAT model, together with one
// threshold constant. Each truth-table row, extended by every possible
// ancilla sub-assignment, contributes constraints on those unknowns:
// a valid row must have exactly one extension whose energy equals the
// threshold and all others strictly above it, while every extension of an
// invalid row must lie strictly above it. A feasible model yields the
// QUBO; an infeasible one escalates the ancilla count, up to the number of
// distinct columns.
package synth

import (
	"fmt"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	"github.com/qubokit/kofn/env"
	"github.com/qubokit/kofn/qubo"
)

// ConversionError reports that no ancilla count up to the distinct-column
// bound yielded a feasible coefficient assignment. Retrying with the same
// inputs is deterministic and would fail identically.
type ConversionError struct {
	Columns     []Column
	NumTrue     []int
	MaxAncillae int
}

func (e *ConversionError) Error() string {
	ports := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		ports[i] = fmt.Sprintf("%s*%d", c.Port, c.Multiplicity)
	}
	counts := make([]string, len(e.NumTrue))
	for i, v := range e.NumTrue {
		counts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("failed to convert constraint to a QUBO: [%s] choose {%s} with up to %d ancillae",
		strings.Join(ports, " "), strings.Join(counts, " "), e.MaxAncillae)
}

// Result bundles what the compiler needs, and the cache stores, for one
// constraint shape.
type Result struct {
	QUBO     qubo.QUBO
	Ancillae int
	Spectrum qubo.Spectrum
}

// Synthesizer runs the coefficient search. The zero value is usable.
type Synthesizer struct {
	// MaxTime bounds each individual CP-SAT solve. Zero means no limit.
	MaxTime time.Duration
}

// Convert runs the full pipeline for one constraint: truth table,
// coefficient synthesis with ancilla escalation, and energy profiling.
func (s *Synthesizer) Convert(c *env.Constraint) (*Result, error) {
	rows, cols := TruthTable(c)
	q, na, err := s.Synthesize(rows, cols, c.NumTrue())
	if err != nil {
		return nil, err
	}
	return &Result{QUBO: q, Ancillae: na, Spectrum: q.Spectrum()}, nil
}

// Synthesize searches for QUBO coefficients realizing the constraint
// described by the truth table, escalating the ancilla count from 0 up to
// the number of distinct columns. It returns the QUBO and the ancilla
// count used, or a ConversionError once the bound is exhausted.
func (s *Synthesizer) Synthesize(rows [][]int, cols []Column, numTrue []int) (qubo.QUBO, int, error) {
	if len(numTrue) == 0 {
		return nil, 0, env.ErrEmptyNumTrue
	}
	allowed := make(map[int]bool, len(numTrue))
	for _, v := range numTrue {
		allowed[v] = true
	}
	d := len(cols)
	for na := 0; na < d; na++ {
		q, ok, err := s.solveForAncillae(rows, cols, allowed, na)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			log.V(1).Infof("synthesized QUBO with %d ancillae over %d columns", na, d)
			return q, na, nil
		}
		log.V(1).Infof("no QUBO with %d ancillae over %d columns; escalating", na, d)
	}
	return nil, 0, &ConversionError{Columns: cols, NumTrue: numTrue, MaxAncillae: d - 1}
}

// solveForAncillae builds and solves the CP-SAT feasibility model for a
// fixed ancilla count. The boolean result distinguishes "infeasible" from
// solver-level failure.
func (s *Synthesizer) solveForAncillae(rows [][]int, cols []Column, allowed map[int]bool, na int) (qubo.QUBO, bool, error) {
	d := len(cols)
	tnc := d + na

	// Coefficient magnitudes are bounded by the squared total weight of
	// the constraint, with one doubling per ancilla; the threshold must be
	// commensurable with whole-row energies.
	w := 0
	for _, c := range cols {
		w += c.Multiplicity
	}
	bound := int64(w+1) * int64(w+1) << uint(na)
	thresholdBound := bound * int64(tnc+tnc*(tnc-1)/2)

	model := cpmodel.NewCpModelBuilder()
	linear := make([]cpmodel.IntVar, tnc)
	for i := range linear {
		linear[i] = model.NewIntVar(-bound, bound)
	}
	quadratic := make([][]cpmodel.IntVar, tnc)
	for i := 0; i < tnc-1; i++ {
		quadratic[i] = make([]cpmodel.IntVar, tnc)
		for j := i + 1; j < tnc; j++ {
			quadratic[i][j] = model.NewIntVar(-bound, bound)
		}
	}
	threshold := model.NewIntVar(-thresholdBound, thresholdBound)

	// energyOf builds the symbolic energy of one extended row: the sum of
	// the linear coefficients of set bits plus the quadratic coefficients
	// of set pairs. Bits are constants, so the expression stays linear in
	// the unknowns.
	energyOf := func(ext []int) *cpmodel.LinearExpr {
		e := cpmodel.NewLinearExpr()
		for i := 0; i < tnc; i++ {
			if ext[i] != 1 {
				continue
			}
			e.Add(linear[i])
			for j := i + 1; j < tnc; j++ {
				if ext[j] == 1 {
					e.Add(quadratic[i][j])
				}
			}
		}
		return e
	}

	extensions := 1 << na
	ext := make([]int, tnc)
	for _, row := range rows {
		copy(ext, row)
		if allowed[weight(row, cols)] {
			// Valid row: exactly one ancilla extension sits at the
			// threshold, all others strictly above.
			ground := make([]cpmodel.BoolVar, extensions)
			for a := 0; a < extensions; a++ {
				for j := 0; j < na; j++ {
					ext[d+j] = (a >> (na - 1 - j)) & 1
				}
				e := energyOf(ext)
				b := model.NewBoolVar()
				model.AddEquality(e, threshold).OnlyEnforceIf(b)
				model.AddGreaterThan(e, threshold).OnlyEnforceIf(b.Not())
				ground[a] = b
			}
			model.AddExactlyOne(ground...)
		} else {
			// Invalid row: every extension is an excited state.
			for a := 0; a < extensions; a++ {
				for j := 0; j < na; j++ {
					ext[d+j] = (a >> (na - 1 - j)) & 1
				}
				model.AddGreaterThan(energyOf(ext), threshold)
			}
		}
	}

	// Among all feasible coefficient assignments, prefer the one with the
	// smallest summed magnitude. Annealing hardware quantizes coefficients,
	// so a narrow dynamic range is worth the extra objective; it also
	// collapses most ties, keeping synthesis reproducible.
	objective := cpmodel.NewLinearExpr()
	addMagnitude := func(v cpmodel.IntVar) {
		m := model.NewIntVar(0, bound)
		model.AddAbsEquality(m, v)
		objective.Add(m)
	}
	for i := 0; i < tnc; i++ {
		addMagnitude(linear[i])
	}
	for i := 0; i < tnc-1; i++ {
		for j := i + 1; j < tnc; j++ {
			addMagnitude(quadratic[i][j])
		}
	}
	model.Minimize(objective)

	m, err := model.Model()
	if err != nil {
		return nil, false, fmt.Errorf("building coefficient model: %w", err)
	}
	params := &sppb.SatParameters{
		NumWorkers: proto.Int32(1),
		RandomSeed: proto.Int32(1),
	}
	if s.MaxTime > 0 {
		params.MaxTimeInSeconds = proto.Float64(s.MaxTime.Seconds())
	}
	res, err := cpmodel.SolveCpModelWithParameters(m, params)
	if err != nil {
		return nil, false, fmt.Errorf("solving coefficient model: %w", err)
	}
	switch res.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL, cmpb.CpSolverStatus_FEASIBLE:
	case cmpb.CpSolverStatus_INFEASIBLE:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("coefficient search ended with status %v", res.GetStatus())
	}

	varFor := func(i int) qubo.Var {
		if i < d {
			return qubo.Port(cols[i].Port)
		}
		return qubo.Ancilla(i - d + 1)
	}
	q := make(qubo.QUBO)
	for i := 0; i < tnc; i++ {
		if v := cpmodel.SolutionIntegerValue(res, linear[i]); v != 0 {
			q[qubo.LinearTerm(varFor(i))] = float64(v)
		}
	}
	for i := 0; i < tnc-1; i++ {
		for j := i + 1; j < tnc; j++ {
			if v := cpmodel.SolutionIntegerValue(res, quadratic[i][j]); v != 0 {
				q[qubo.QuadraticTerm(varFor(i), varFor(j))] = float64(v)
			}
		}
	}
	return q, true, nil
}
