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
	"testing"
)

func buildValidationEnv(t *testing.T) *Environment {
	t.Helper()
	e := NewEnvironment()
	for _, p := range []string{"a", "b", "c"} {
		if _, err := e.RegisterPort(p); err != nil {
			t.Fatalf("RegisterPort(%q) returned with unexpected error %v", p, err)
		}
	}
	if err := e.Different("a", "b", false); err != nil {
		t.Fatalf("Different() returned with unexpected error %v", err)
	}
	if err := e.MaximizeTrue("c"); err != nil {
		t.Fatalf("MaximizeTrue() returned with unexpected error %v", err)
	}
	return e
}

func TestEnvironment_Validate(t *testing.T) {
	e := buildValidationEnv(t)

	v, err := e.Validate(map[string]bool{"a": true, "b": false, "c": false})
	if err != nil {
		t.Fatalf("Validate() returned with unexpected error %v", err)
	}
	if got, want := len(v.HardPassed), 1; got != want {
		t.Errorf("len(HardPassed) = %v, want %v", got, want)
	}
	if got, want := len(v.HardFailed), 0; got != want {
		t.Errorf("len(HardFailed) = %v, want %v", got, want)
	}
	if got, want := len(v.SoftFailed), 1; got != want {
		t.Errorf("len(SoftFailed) = %v, want %v", got, want)
	}

	valid, err := e.Valid(map[string]bool{"a": true, "b": true, "c": true})
	if err != nil {
		t.Fatalf("Valid() returned with unexpected error %v", err)
	}
	if valid {
		t.Errorf("Valid(a=b=true) = true, want false")
	}
}

func TestEnvironment_Quality(t *testing.T) {
	e := buildValidationEnv(t)
	passed, total, err := e.Quality(map[string]bool{"a": true, "b": false, "c": true})
	if err != nil {
		t.Fatalf("Quality() returned with unexpected error %v", err)
	}
	if passed != 1 || total != 1 {
		t.Errorf("Quality() = (%v, %v), want (1, 1)", passed, total)
	}
}

func TestEnvironment_ValidateIncompleteAssignment(t *testing.T) {
	e := buildValidationEnv(t)
	var unknown *UnknownPortError
	if _, err := e.Validate(map[string]bool{"a": true}); !errors.As(err, &unknown) {
		t.Errorf("Validate() with incomplete assignment returned %v, want UnknownPortError", err)
	}
}
