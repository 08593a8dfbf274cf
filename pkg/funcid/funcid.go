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

// Package funcid derives the canonical signature string and 32-bit
// function/event ID of spec.md §4.4, grounded on the signature-then-hash
// idiom of Entry.SignatureCtx / Entry.GenerateIDCtx in hyperledger-firefly-
// signer's pkg/abi/abi.go (there Keccak256; here SHA-256, per spec.md §6.3).
package funcid

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/latticebound/tvmabi/pkg/contract"
)

// FunctionSignature builds the canonical signature string of a function:
// name(inTypes)(outTypes)v<major> (spec.md §4.4).
func FunctionSignature(ctx context.Context, f *contract.Function, version contract.Version) (string, error) {
	in, err := typeList(ctx, f.Inputs)
	if err != nil {
		return "", err
	}
	out, err := typeList(ctx, f.Outputs)
	if err != nil {
		return "", err
	}
	return f.Name + "(" + in + ")(" + out + ")v" + majorString(version), nil
}

// EventSignature builds the canonical signature string of an event:
// name(inTypes)v<major>. Events omit the outputs segment (spec.md §4.4).
func EventSignature(ctx context.Context, e *contract.Event, version contract.Version) (string, error) {
	in, err := typeList(ctx, e.Inputs)
	if err != nil {
		return "", err
	}
	return e.Name + "(" + in + ")v" + majorString(version), nil
}

func majorString(v contract.Version) string {
	if v.Major <= 0 {
		return "0"
	}
	return strconv.Itoa(v.Major)
}

func typeList(ctx context.Context, params []*contract.Param) (string, error) {
	parts := make([]string, len(params))
	for i, p := range params {
		t, err := p.Type(ctx)
		if err != nil {
			return "", err
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, ","), nil
}

// DeriveID computes the 32-bit ID of a canonical signature string: the
// first 32 bits (big-endian) of its SHA-256 hash (spec.md §4.4).
func DeriveID(signature string) uint32 {
	h := sha256.Sum256([]byte(signature))
	return binary.BigEndian.Uint32(h[0:4])
}

// CallID masks an ID for the wire form used by external inbound calls,
// internal calls and events: high bit cleared.
func CallID(id uint32) uint32 { return id &^ 0x8000_0000 }

// ResponseID masks an ID for the wire form used by external outbound
// responses: high bit set.
func ResponseID(id uint32) uint32 { return id | 0x8000_0000 }

// FunctionCallID returns the on-wire ID to use for an inbound call to f:
// the explicit id if the schema supplied one (used verbatim, unmasked), or
// else the derived id with the call masking applied.
func FunctionCallID(ctx context.Context, f *contract.Function, version contract.Version) (uint32, error) {
	if f.ID != nil {
		return *f.ID, nil
	}
	sig, err := FunctionSignature(ctx, f, version)
	if err != nil {
		return 0, err
	}
	return CallID(DeriveID(sig)), nil
}

// FunctionResponseID returns the on-wire ID to use for f's return value.
func FunctionResponseID(ctx context.Context, f *contract.Function, version contract.Version) (uint32, error) {
	if f.ID != nil {
		return *f.ID, nil
	}
	sig, err := FunctionSignature(ctx, f, version)
	if err != nil {
		return 0, err
	}
	return ResponseID(DeriveID(sig)), nil
}

// EventID returns the on-wire ID to use for event e (always the cleared
// "call" form - events are never responses).
func EventID(ctx context.Context, e *contract.Event, version contract.Version) (uint32, error) {
	if e.ID != nil {
		return *e.ID, nil
	}
	sig, err := EventSignature(ctx, e, version)
	if err != nil {
		return 0, err
	}
	return CallID(DeriveID(sig)), nil
}
