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

package synth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/qubokit/kofn/env"
	"github.com/qubokit/kofn/qubo"
)

// groundStates brute-forces the QUBO over the given ports plus na
// ancillae and returns the distinct minimum-energy assignments projected
// onto the ports, each rendered as "p=0 q=1" in sorted port order.
func groundStates(t *testing.T, q qubo.QUBO, ports []string, na int) []string {
	t.Helper()
	vars := make([]qubo.Var, 0, len(ports)+na)
	sorted := append([]string(nil), ports...)
	sort.Strings(sorted)
	for _, p := range sorted {
		vars = append(vars, qubo.Port(p))
	}
	for i := 1; i <= na; i++ {
		vars = append(vars, qubo.Ancilla(i))
	}

	assignment := make(map[qubo.Var]bool, len(vars))
	best := make(map[string]bool)
	bestEnergy := 0.0
	for mask := 0; mask < 1<<len(vars); mask++ {
		for i, v := range vars {
			assignment[v] = mask&(1<<i) != 0
		}
		e := q.Energy(assignment)
		if mask == 0 || e < bestEnergy {
			bestEnergy = e
			best = make(map[string]bool)
		}
		if e == bestEnergy {
			parts := make([]string, 0, len(sorted))
			for _, p := range sorted {
				bit := 0
				if assignment[qubo.Port(p)] {
					bit = 1
				}
				parts = append(parts, fmt.Sprintf("%s=%d", p, bit))
			}
			best[strings.Join(parts, " ")] = true
		}
	}

	states := make([]string, 0, len(best))
	for s := range best {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

func convert(t *testing.T, ports []string, numTrue []int) *Result {
	t.Helper()
	c, err := env.NewConstraint(ports, numTrue, false)
	if err != nil {
		t.Fatalf("NewConstraint() returned with unexpected error %v", err)
	}
	var s Synthesizer
	r, err := s.Convert(c)
	if err != nil {
		t.Fatalf("Convert() returned with unexpected error %v", err)
	}
	return r
}

func TestSynthesize_Different(t *testing.T) {
	r := convert(t, []string{"p", "q"}, []int{1})
	if r.Ancillae != 0 {
		t.Errorf("Convert() used %d ancillae, want 0", r.Ancillae)
	}
	want := []string{"p=0 q=1", "p=1 q=0"}
	got := groundStates(t, r.QUBO, []string{"p", "q"}, r.Ancillae)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ground states mismatch (-want +got):\n%s", diff)
	}
	if got, want := len(r.Spectrum), 2; got < want {
		t.Errorf("len(Spectrum) = %v, want at least %v", got, want)
	}
}

func TestSynthesize_Same(t *testing.T) {
	r := convert(t, []string{"p", "q"}, []int{0, 2})
	want := []string{"p=0 q=0", "p=1 q=1"}
	got := groundStates(t, r.QUBO, []string{"p", "q"}, r.Ancillae)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ground states mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_Unary(t *testing.T) {
	r := convert(t, []string{"p"}, []int{1})
	want := []string{"p=1"}
	got := groundStates(t, r.QUBO, []string{"p"}, r.Ancillae)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ground states mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_DuplicatePortActsAsUnary(t *testing.T) {
	// Listing p twice with true-count {2} forces p=1, exactly like the
	// unary constraint, because p contributes its weight all or nothing.
	r := convert(t, []string{"p", "p"}, []int{2})
	want := []string{"p=1"}
	got := groundStates(t, r.QUBO, []string{"p"}, r.Ancillae)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ground states mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_OneHot3(t *testing.T) {
	r := convert(t, []string{"a", "b", "c"}, []int{1})
	want := []string{"a=0 b=0 c=1", "a=0 b=1 c=0", "a=1 b=0 c=0"}
	got := groundStates(t, r.QUBO, []string{"a", "b", "c"}, r.Ancillae)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ground states mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_Parity3NeedsAncilla(t *testing.T) {
	// Even parity of three variables is not quadratically representable
	// without help, so the synthesizer must escalate.
	r := convert(t, []string{"a", "b", "c"}, []int{0, 2})
	if r.Ancillae == 0 {
		t.Errorf("Convert() used 0 ancillae for 3-way parity, want at least 1")
	}
	want := []string{"a=0 b=0 c=0", "a=0 b=1 c=1", "a=1 b=0 c=1", "a=1 b=1 c=0"}
	got := groundStates(t, r.QUBO, []string{"a", "b", "c"}, r.Ancillae)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ground states mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	r1 := convert(t, []string{"p", "q"}, []int{1})
	r2 := convert(t, []string{"p", "q"}, []int{1})
	if !r1.QUBO.Equal(r2.QUBO) {
		t.Errorf("repeated synthesis produced different QUBOs: %v vs %v", r1.QUBO, r2.QUBO)
	}
	if r1.Ancillae != r2.Ancillae {
		t.Errorf("repeated synthesis used different ancilla counts: %d vs %d", r1.Ancillae, r2.Ancillae)
	}
	if diff := cmp.Diff(r1.Spectrum, r2.Spectrum); diff != "" {
		t.Errorf("repeated synthesis spectra mismatch (-first +second):\n%s", diff)
	}
}

func TestSynthesize_EmptyNumTrue(t *testing.T) {
	var s Synthesizer
	if _, _, err := s.Synthesize(nil, []Column{{"p", 1}}, nil); !errors.Is(err, env.ErrEmptyNumTrue) {
		t.Errorf("Synthesize() with empty numTrue returned %v, want ErrEmptyNumTrue", err)
	}
}

func TestConversionError_Message(t *testing.T) {
	err := &ConversionError{
		Columns:     []Column{{"p", 1}, {"q", 2}},
		NumTrue:     []int{1, 3},
		MaxAncillae: 1,
	}
	want := "failed to convert constraint to a QUBO: [p*1 q*2] choose {1 3} with up to 1 ancillae"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
