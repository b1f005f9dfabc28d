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
	"sort"

	"github.com/qubokit/kofn/env"
)

// Column pairs one distinct port of a constraint with its multiplicity,
// the number of times the port appears in the constraint's port list. A
// set port contributes its multiplicity to the weighted true-count.
type Column struct {
	Port         string
	Multiplicity int
}

// TruthTable derives the distinct columns of a constraint and the full
// enumeration of 0/1 assignments to them. Columns are in canonical order,
// multiplicity ascending then port name; the same order defines the
// cache-key shape and the positions of canonical variable names. Rows are
// the 2^d assignments in binary counting order with the first column as
// the most significant bit.
func TruthTable(c *env.Constraint) (rows [][]int, cols []Column) {
	tally := make(map[string]int)
	for _, p := range c.Ports() {
		tally[p]++
	}
	cols = make([]Column, 0, len(tally))
	for p, m := range tally {
		cols = append(cols, Column{Port: p, Multiplicity: m})
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i].Multiplicity != cols[j].Multiplicity {
			return cols[i].Multiplicity < cols[j].Multiplicity
		}
		return cols[i].Port < cols[j].Port
	})

	d := len(cols)
	rows = make([][]int, 1<<d)
	for i := range rows {
		row := make([]int, d)
		for j := 0; j < d; j++ {
			row[j] = (i >> (d - 1 - j)) & 1
		}
		rows[i] = row
	}
	return rows, cols
}

// weight returns a row's true-count, counting each set column at its
// multiplicity.
func weight(row []int, cols []Column) int {
	w := 0
	for i, bit := range row {
		w += bit * cols[i].Multiplicity
	}
	return w
}
