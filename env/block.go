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

import "fmt"

// BlockType is a reusable template for a group of ports with an optional
// constraint over them. Each instantiation registers a fresh set of
// globally unique ports named <type><id>.<role> and re-declares the
// template constraint over those ports.
type BlockType struct {
	env        *Environment
	name       string
	roles      []string
	constraint *Constraint // over role names; nil if unconstrained
}

// NewBlockType defines a block type with the given role names and an
// optional constraint expressed over those roles. Role names must be
// unique within the type, and the constraint may reference roles only.
func (e *Environment) NewBlockType(name string, roles []string, constraint *Constraint) (*BlockType, error) {
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if _, ok := seen[r]; ok {
			return nil, &DuplicatePortError{TypeName: name, Port: r}
		}
		seen[r] = struct{}{}
	}
	if constraint != nil {
		for _, p := range constraint.Ports() {
			if _, ok := seen[p]; !ok {
				return nil, &UnknownPortError{TypeName: name, Port: p}
			}
		}
	}
	return &BlockType{
		env:        e,
		name:       name,
		roles:      append([]string(nil), roles...),
		constraint: constraint,
	}, nil
}

// Block is one instantiation of a BlockType. It maps the type's role
// names to the globally registered port names it owns.
type Block struct {
	typeName string
	roles    []string
	ports    map[string]string
}

// NewBlock instantiates the type: it registers one global port per role
// and declares the template constraint over them. If bindings are given,
// there must be one existing global port per role, and each is equated
// with the corresponding fresh port via a Same constraint.
func (t *BlockType) NewBlock(bindings ...string) (*Block, error) {
	if len(bindings) != 0 && len(bindings) != len(t.roles) {
		return nil, fmt.Errorf("%d binding(s) provided for %d port(s)", len(bindings), len(t.roles))
	}
	id := fmt.Sprintf("%s%d", t.name, t.env.nextID)
	t.env.nextID++

	b := &Block{
		typeName: t.name,
		roles:    append([]string(nil), t.roles...),
		ports:    make(map[string]string, len(t.roles)),
	}
	for _, r := range t.roles {
		global := id + "." + r
		if _, err := t.env.RegisterPort(global); err != nil {
			return nil, err
		}
		b.ports[r] = global
	}
	if t.constraint != nil {
		globals := make([]string, 0, len(t.constraint.Ports()))
		for _, r := range t.constraint.Ports() {
			globals = append(globals, b.ports[r])
		}
		if err := t.env.Nck(globals, t.constraint.NumTrue(), t.constraint.Soft()); err != nil {
			return nil, err
		}
	}
	for i, bound := range bindings {
		if err := t.env.Same(bound, b.ports[t.roles[i]], false); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Port returns the global port name bound to the given role.
func (b *Block) Port(role string) (string, error) {
	p, ok := b.ports[role]
	if !ok {
		return "", &UnknownPortError{TypeName: b.typeName, Port: role}
	}
	return p, nil
}

// Ports returns the block's global port names in role order.
func (b *Block) Ports() []string {
	ps := make([]string, len(b.roles))
	for i, r := range b.roles {
		ps[i] = b.ports[r]
	}
	return ps
}
