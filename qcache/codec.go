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

package qcache

import (
	"encoding/json"
	"fmt"

	"github.com/qubokit/kofn/qubo"
)

// Entry is one cached synthesis result. The QUBO is expressed in
// canonical placeholder names; Ancillae and Spectrum describe it.
type Entry struct {
	QUBO     qubo.QUBO
	Ancillae int
	Spectrum qubo.Spectrum
}

type varJSON struct {
	Port    string `json:"port,omitempty"`
	Ancilla int    `json:"ancilla,omitempty"`
}

type termJSON struct {
	U     varJSON `json:"u"`
	V     varJSON `json:"v"`
	Coeff float64 `json:"coeff"`
}

type entryJSON struct {
	Terms    []termJSON `json:"terms"`
	Ancillae int        `json:"ancillae"`
	Spectrum []float64  `json:"spectrum"`
}

func varToJSON(v qubo.Var) varJSON {
	if v.IsAncilla() {
		return varJSON{Ancilla: v.AncillaIndex()}
	}
	return varJSON{Port: v.PortName()}
}

func varFromJSON(v varJSON) (qubo.Var, error) {
	switch {
	case v.Ancilla > 0 && v.Port == "":
		return qubo.Ancilla(v.Ancilla), nil
	case v.Ancilla == 0 && v.Port != "":
		return qubo.Port(v.Port), nil
	default:
		return qubo.Var{}, fmt.Errorf("malformed cached variable %+v", v)
	}
}

// encodeEntry serializes an entry with its terms in deterministic order.
func encodeEntry(e *Entry) ([]byte, error) {
	out := entryJSON{
		Ancillae: e.Ancillae,
		Spectrum: e.Spectrum,
	}
	for _, t := range e.QUBO.Terms() {
		out.Terms = append(out.Terms, termJSON{
			U:     varToJSON(t.U),
			V:     varToJSON(t.V),
			Coeff: e.QUBO[t],
		})
	}
	return json.Marshal(out)
}

func decodeEntry(data []byte) (*Entry, error) {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	e := &Entry{
		QUBO:     make(qubo.QUBO, len(in.Terms)),
		Ancillae: in.Ancillae,
		Spectrum: in.Spectrum,
	}
	for _, t := range in.Terms {
		u, err := varFromJSON(t.U)
		if err != nil {
			return nil, err
		}
		v, err := varFromJSON(t.V)
		if err != nil {
			return nil, err
		}
		e.QUBO[qubo.QuadraticTerm(u, v)] = t.Coeff
	}
	return e, nil
}
