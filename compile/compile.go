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

// Package compile assembles an environment's constraints into one global
// QUBO. Each constraint is synthesized (through the cache) into a local
// QUBO with its own ancilla scope; the assembler renumbers ancillae by a
// running offset so scopes never collide, scales hard-constraint
// coefficients so that violating any single hard constraint always costs
// more than violating every soft constraint at once, and sums coefficients
// on repeated terms.
package compile

import (
	"fmt"

	log "github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/qubokit/kofn/env"
	"github.com/qubokit/kofn/qcache"
	"github.com/qubokit/kofn/qubo"
	"github.com/qubokit/kofn/synth"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithHardScale overrides the automatic hard-constraint scale factor.
func WithHardScale(scale float64) Option {
	return func(c *Compiler) { c.hardScale = scale }
}

// WithCache uses the given cache instead of a fresh in-memory one. The
// caller keeps ownership and may share the cache across compilations.
func WithCache(cache *qcache.Cache) Option {
	return func(c *Compiler) { c.cache = cache }
}

// WithSynthesizer replaces the default synthesizer, e.g. to bound the
// time of each coefficient search.
func WithSynthesizer(s *synth.Synthesizer) Option {
	return func(c *Compiler) { c.synthesizer = s }
}

// WithParallelism allows up to n constraints to be synthesized
// concurrently. Synthesis calls are independent and cache writes are
// idempotent, so fan-out is safe; the default is sequential.
func WithParallelism(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// Compiler turns environments into global QUBOs. A zero hardScale means
// the scale is derived from the constraints' energy spectra.
type Compiler struct {
	cache       *qcache.Cache
	synthesizer *synth.Synthesizer
	hardScale   float64
	parallelism int
}

// New returns a compiler with a private in-memory cache and sequential
// synthesis, modified by the given options.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		cache:       qcache.New(nil),
		synthesizer: &synth.Synthesizer{},
		parallelism: 1,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile converts every constraint in e and merges the results into one
// QUBO. Any variable of the result that is not a registered port of e is
// an internal ancilla; consumers marginalize those out of solutions.
func (c *Compiler) Compile(e *env.Environment) (qubo.QUBO, error) {
	constraints := e.Constraints()
	for _, ct := range constraints {
		for _, p := range ct.Ports() {
			if !e.HasPort(p) {
				return nil, &env.UnknownPortError{Port: p}
			}
		}
	}

	results := make([]*synth.Result, len(constraints))
	g := new(errgroup.Group)
	g.SetLimit(c.parallelism)
	for i, ct := range constraints {
		g.Go(func() error {
			rows, cols := synth.TruthTable(ct)
			r, err := c.cache.GetOrCompute(cols, ct.NumTrue(), func() (*synth.Result, error) {
				q, na, err := c.synthesizer.Synthesize(rows, cols, ct.NumTrue())
				if err != nil {
					return nil, err
				}
				return &synth.Result{QUBO: q, Ancillae: na, Spectrum: q.Spectrum()}, nil
			})
			if err != nil {
				return fmt.Errorf("constraint %s: %w", ct, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scale := c.hardScale
	if scale == 0 {
		scale = autoHardScale(constraints, results)
		log.V(1).Infof("hard-constraint scale %g derived from %d constraints", scale, len(constraints))
	}
	return merge(constraints, results, scale), nil
}

// autoHardScale sizes the hard-constraint weight from energy gaps: the
// cheapest possible hard violation (the smallest gap between a hard
// constraint's two lowest energies) must cost strictly more than
// simultaneously violating every soft constraint maximally (the sum of
// the soft spectra's spans). With no soft constraints, or no hard
// constraint that can be excited at all, no scaling is needed.
func autoHardScale(constraints []*env.Constraint, results []*synth.Result) float64 {
	var minHardGap, softSpans float64
	haveHard := false
	for i, ct := range constraints {
		s := results[i].Spectrum
		if ct.Soft() {
			softSpans += s.Span()
			continue
		}
		if gap := s.MinGap(); gap > 0 && (!haveHard || gap < minHardGap) {
			minHardGap = gap
			haveHard = true
		}
	}
	if !haveHard || softSpans == 0 {
		return 1
	}
	return softSpans/minHardGap + 1
}

// merge accumulates the per-constraint QUBOs into one, walking
// constraints in declaration order, renumbering each constraint's
// ancillae past those of its predecessors, and scaling hard coefficients.
func merge(constraints []*env.Constraint, results []*synth.Result, hardScale float64) qubo.QUBO {
	global := make(qubo.QUBO)
	offset := 0
	for i, ct := range constraints {
		scale := hardScale
		if ct.Soft() {
			scale = 1
		}
		r := results[i]
		for _, t := range r.QUBO.Terms() {
			shifted := qubo.QuadraticTerm(shiftAncilla(t.U, offset), shiftAncilla(t.V, offset))
			global.Add(shifted, r.QUBO[t]*scale)
		}
		offset += r.Ancillae
	}
	return global
}

func shiftAncilla(v qubo.Var, offset int) qubo.Var {
	if v.IsAncilla() {
		return qubo.Ancilla(v.AncillaIndex() + offset)
	}
	return v
}
