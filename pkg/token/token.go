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

// Package token implements the tagged-union runtime value (spec.md §3) and
// the tokenizer/detokenizer that convert between it and JSON (spec.md §4.3),
// grounded on the lenient interface{}-coercion idiom of
// pkg/abi/inputparsing.go and the ComponentValue walk of pkg/abi/abidecode.go
// in hyperledger-firefly-signer.
package token

import (
	"math/big"

	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/cell"
)

// MapEntry is one key/value pair of a Map token, kept in insertion order so
// re-emission is deterministic.
type MapEntry struct {
	Key   *Token
	Value *Token
}

// Token is the tagged-union runtime value of spec.md §3. Exactly the fields
// relevant to Type.Kind are populated; the rest are left at zero value.
type Token struct {
	Type *abitype.Type

	Int *big.Int // Uint, Int, VarUint, VarInt

	Bool bool

	Tuple []*Token // ordered, aligned with Type.Fields

	Array []*Token // Array, FixedArray

	CellValue *cell.Cell // Cell

	Map []MapEntry // Map

	Address Address // Address

	Bytes []byte // Bytes, FixedBytes

	Str string // String

	OptionalSet   bool   // Optional
	OptionalValue *Token // Optional, only meaningful when OptionalSet

	RefValue *Token // Ref
}
