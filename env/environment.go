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

// Package env holds the user-facing constraint model: an environment of
// named boolean ports and k-of-n cardinality constraints over them. The
// compiler in package compile consumes environments; this package performs
// all the input validation (unknown ports, duplicate registration, empty
// true-count sets) so that rejected inputs never reach synthesis.
package env

import "sort"

// Environment is a namespace of registered ports and the constraints
// declared over them. The zero value is not usable; call NewEnvironment.
type Environment struct {
	ports       map[string]struct{}
	constraints []*Constraint
	nextID      int
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{
		ports:  make(map[string]struct{}),
		nextID: 1,
	}
}

// RegisterPort registers a new global port name and returns it unmodified.
func (e *Environment) RegisterPort(name string) (string, error) {
	if _, ok := e.ports[name]; ok {
		return "", &DuplicatePortError{Port: name}
	}
	e.ports[name] = struct{}{}
	return name, nil
}

// HasPort reports whether name is a registered port.
func (e *Environment) HasPort(name string) bool {
	_, ok := e.ports[name]
	return ok
}

// Ports returns all registered port names, sorted.
func (e *Environment) Ports() []string {
	ps := make([]string, 0, len(e.ports))
	for p := range e.ports {
		ps = append(ps, p)
	}
	sort.Strings(ps)
	return ps
}

// Constraints returns the declared constraints in declaration order.
func (e *Environment) Constraints() []*Constraint {
	return append([]*Constraint(nil), e.constraints...)
}

// Nck declares that the number of true ports among ports, counting
// duplicates, must be one of numTrue.
func (e *Environment) Nck(ports []string, numTrue []int, soft bool) error {
	for _, p := range ports {
		if !e.HasPort(p) {
			return &UnknownPortError{Port: p}
		}
	}
	c, err := NewConstraint(ports, numTrue, soft)
	if err != nil {
		return err
	}
	e.constraints = append(e.constraints, c)
	return nil
}

// Same declares that two ports must carry the same value.
func (e *Environment) Same(a, b string, soft bool) error {
	return e.Nck([]string{a, b}, []int{0, 2}, soft)
}

// Different declares that two ports must carry different values.
func (e *Environment) Different(a, b string, soft bool) error {
	return e.Nck([]string{a, b}, []int{1}, soft)
}

// MinimizeTrue asks, via one soft constraint per port, that as few of the
// given ports as possible be true.
func (e *Environment) MinimizeTrue(ports ...string) error {
	for _, p := range ports {
		if err := e.Nck([]string{p}, []int{0}, true); err != nil {
			return err
		}
	}
	return nil
}

// MaximizeTrue asks, via one soft constraint per port, that as many of the
// given ports as possible be true.
func (e *Environment) MaximizeTrue(ports ...string) error {
	for _, p := range ports {
		if err := e.Nck([]string{p}, []int{1}, true); err != nil {
			return err
		}
	}
	return nil
}
