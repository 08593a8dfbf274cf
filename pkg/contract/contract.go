// Copyright © 2026 Lattice Labs
//
// SPDX-License-Identifier: Apache-2.0
//
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

// Package contract loads the ABI JSON document (spec.md §4.2, §6.1) into a
// typed, version-resolved Contract - the Go analog of hyperledger-firefly-
// signer's ABI/Entry/Parameter model in pkg/abi/abi.go and
// pkg/abi/paramtypes.go, adapted to a version-gated document rather than a
// single fixed EVM ABI dialect.
package contract

import (
	"context"

	"github.com/latticebound/tvmabi/pkg/abitype"
)

// HeaderKind enumerates the three recognized keyword header items. A header
// item may also be a fully typed Param for contracts that declare custom
// header fields.
type HeaderKind int

const (
	HeaderTime HeaderKind = iota
	HeaderExpire
	HeaderPubKey
	HeaderCustom
)

// HeaderItem is one entry of the contract's header[] list.
type HeaderItem struct {
	Kind  HeaderKind
	Param *Param // set only when Kind == HeaderCustom
}

// Param is a single named, typed parameter - a function input/output, event
// field, data item value or storage field.
type Param struct {
	Name       string
	TypeDesc   string
	Components []*Param
	Init       bool // ABI >= 2.4: present at first deployment

	parsed *abitype.Type
}

// Type resolves and caches this parameter's type descriptor tree.
func (p *Param) Type(ctx context.Context) (*abitype.Type, error) {
	if p.parsed != nil {
		return p.parsed, nil
	}
	t, err := abitype.Parse(ctx, p.toComponentSpec())
	if err != nil {
		return nil, err
	}
	p.parsed = t
	return t, nil
}

func (p *Param) toComponentSpec() *abitype.ComponentSpec {
	spec := &abitype.ComponentSpec{Name: p.Name, Type: p.TypeDesc, Init: p.Init}
	if p.Components != nil {
		spec.Components = make([]*abitype.ComponentSpec, len(p.Components))
		for i, c := range p.Components {
			spec.Components[i] = c.toComponentSpec()
		}
	}
	return spec
}

// Function is a callable ABI entry: name, typed inputs, typed outputs, and
// an optional explicit ID override (spec.md §4.4).
type Function struct {
	Name    string
	Inputs  []*Param
	Outputs []*Param
	ID      *uint32
}

// Event is an ABI entry emitted by the contract: name, typed fields, and an
// optional explicit ID override.
type Event struct {
	Name   string
	Inputs []*Param
	ID     *uint32
}

// DataItem is one entry of the data[] section: a u64 key and the parameter
// describing the value stored under it (spec.md §6.2).
type DataItem struct {
	Key   uint64
	Param *Param
}

// Contract is the fully loaded, version-resolved ABI document.
type Contract struct {
	Version Version

	// SetTime is the document's setTime flag: the JSON value when present,
	// otherwise Version.DefaultSetTime() (spec.md §4.2). pkg/facade does not
	// consult it: a "time" header is encoded only when Header lists it.
	SetTime bool

	Header    []*HeaderItem
	Functions []*Function
	Events    []*Event
	Data      []*DataItem
	Fields    []*Param // ABI >= 2.1

	// StrictDeprecations records the LoadOptions flag this document was
	// loaded with (spec.md §4.2, §7). When it was true, Load has already
	// rejected any ABI >= 2.4 document with a fixedbytes<N> parameter, so
	// such a document is neither encoded nor decoded under strict mode.
	StrictDeprecations bool
}

// FunctionByName looks up a function by name.
func (c *Contract) FunctionByName(name string) *Function {
	for _, f := range c.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// EventByName looks up an event by name.
func (c *Contract) EventByName(name string) *Event {
	for _, e := range c.Events {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FunctionByID looks up a function whose derived or explicit ID matches,
// trying both the call (high bit clear) and response (high bit set) forms
// of each candidate (spec.md §4.7 "decode_unknown_function").
func (c *Contract) FunctionByID(id uint32, idOf func(*Function) (uint32, uint32, error)) (*Function, bool, error) {
	for _, f := range c.Functions {
		callID, respID, err := idOf(f)
		if err != nil {
			return nil, false, err
		}
		if id == callID {
			return f, false, nil
		}
		if id == respID {
			return f, true, nil
		}
	}
	return nil, false, nil
}
