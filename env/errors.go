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
	"errors"
	"fmt"
)

// ErrEmptyNumTrue is returned when a constraint is built with no
// acceptable true-counts; such a constraint can never be satisfied and is
// rejected before any synthesis is attempted.
var ErrEmptyNumTrue = errors.New("constraint accepts no true-counts")

// ErrNoPorts is returned when a constraint is built over an empty port list.
var ErrNoPorts = errors.New("constraint references no ports")

// UnknownPortError reports a reference to a port that was never
// registered. TypeName is set when the reference occurred inside a block
// type definition.
type UnknownPortError struct {
	TypeName string
	Port     string
}

func (e *UnknownPortError) Error() string {
	if e.TypeName == "" {
		return fmt.Sprintf("no port named %q exists in the environment", e.Port)
	}
	return fmt.Sprintf("block type %s does not define a port named %q", e.TypeName, e.Port)
}

// DuplicatePortError reports registration of a port name that already
// exists. TypeName is set when the duplicate occurred among a block
// type's roles.
type DuplicatePortError struct {
	TypeName string
	Port     string
}

func (e *DuplicatePortError) Error() string {
	if e.TypeName == "" {
		return fmt.Sprintf("port %q already exists in the environment", e.Port)
	}
	return fmt.Sprintf("port %q appears more than once in blocks of type %q", e.Port, e.TypeName)
}
