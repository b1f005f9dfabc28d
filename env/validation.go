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

// Validation partitions an environment's constraints by their pass/fail
// status under a candidate assignment.
type Validation struct {
	HardPassed []*Constraint
	HardFailed []*Constraint
	SoftPassed []*Constraint
	SoftFailed []*Constraint
}

// Validate checks every constraint against the assignment. The assignment
// must cover every port referenced by a constraint.
func (e *Environment) Validate(assignment map[string]bool) (*Validation, error) {
	v := &Validation{}
	for _, c := range e.constraints {
		ok, err := c.Satisfied(assignment)
		if err != nil {
			return nil, err
		}
		switch {
		case ok && c.Soft():
			v.SoftPassed = append(v.SoftPassed, c)
		case ok:
			v.HardPassed = append(v.HardPassed, c)
		case c.Soft():
			v.SoftFailed = append(v.SoftFailed, c)
		default:
			v.HardFailed = append(v.HardFailed, c)
		}
	}
	return v, nil
}

// Valid reports whether the assignment satisfies every hard constraint.
func (e *Environment) Valid(assignment map[string]bool) (bool, error) {
	v, err := e.Validate(assignment)
	if err != nil {
		return false, err
	}
	return len(v.HardFailed) == 0, nil
}

// Quality returns how many soft constraints the assignment satisfies and
// how many soft constraints exist in total.
func (e *Environment) Quality(assignment map[string]bool) (passed, total int, err error) {
	v, err := e.Validate(assignment)
	if err != nil {
		return 0, 0, err
	}
	return len(v.SoftPassed), len(v.SoftPassed) + len(v.SoftFailed), nil
}
