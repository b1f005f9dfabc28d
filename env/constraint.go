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

package env

import (
	"fmt"
	"sort"
	"strings"
)

// Constraint states that the number of true ports among PortList, counting
// duplicates, must be one of the accepted true-counts. A port listed k
// times contributes k to the count when set. Constraints are immutable
// once constructed; equality is structural.
type Constraint struct {
	ports   []string
	numTrue []int // sorted ascending, deduplicated
	soft    bool
}

// NewConstraint builds a constraint over the given port list. The port
// list keeps its order and duplicates; numTrue is treated as a set. An
// empty port list or an empty true-count set is rejected.
func NewConstraint(ports []string, numTrue []int, soft bool) (*Constraint, error) {
	if len(ports) == 0 {
		return nil, ErrNoPorts
	}
	if len(numTrue) == 0 {
		return nil, ErrEmptyNumTrue
	}
	nt := append([]int(nil), numTrue...)
	sort.Ints(nt)
	dedup := nt[:1]
	for _, v := range nt[1:] {
		if v != dedup[len(dedup)-1] {
			dedup = append(dedup, v)
		}
	}
	return &Constraint{
		ports:   append([]string(nil), ports...),
		numTrue: dedup,
		soft:    soft,
	}, nil
}

// Ports returns a copy of the ordered port list, duplicates included.
func (c *Constraint) Ports() []string {
	return append([]string(nil), c.ports...)
}

// NumTrue returns a copy of the accepted true-counts in ascending order.
func (c *Constraint) NumTrue() []int {
	return append([]int(nil), c.numTrue...)
}

// Soft reports whether violating the constraint is penalized rather than
// forbidden.
func (c *Constraint) Soft() bool { return c.soft }

// Allows reports whether count is an accepted true-count.
func (c *Constraint) Allows(count int) bool {
	i := sort.SearchInts(c.numTrue, count)
	return i < len(c.numTrue) && c.numTrue[i] == count
}

// Satisfied evaluates the constraint under the given assignment. It
// returns an UnknownPortError if the assignment lacks one of the
// constraint's ports.
func (c *Constraint) Satisfied(assignment map[string]bool) (bool, error) {
	count := 0
	for _, p := range c.ports {
		v, ok := assignment[p]
		if !ok {
			return false, &UnknownPortError{Port: p}
		}
		if v {
			count++
		}
	}
	return c.Allows(count), nil
}

// Equal reports structural equality.
func (c *Constraint) Equal(o *Constraint) bool {
	if c.soft != o.soft || len(c.ports) != len(o.ports) || len(c.numTrue) != len(o.numTrue) {
		return false
	}
	for i, p := range c.ports {
		if o.ports[i] != p {
			return false
		}
	}
	for i, v := range c.numTrue {
		if o.numTrue[i] != v {
			return false
		}
	}
	return true
}

func (c *Constraint) String() string {
	counts := make([]string, len(c.numTrue))
	for i, v := range c.numTrue {
		counts[i] = fmt.Sprint(v)
	}
	s := fmt.Sprintf("[%s] choose {%s}", strings.Join(c.ports, " "), strings.Join(counts, " "))
	if c.soft {
		s += " (soft)"
	}
	return s
}
