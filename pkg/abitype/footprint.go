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

package abitype

import "github.com/latticebound/tvmabi/pkg/cell"

// MaxBits returns the maximum number of data bits a value of this type can
// occupy in the cell it is written into (spec.md §3, Max-footprint table).
// This drives the fixed-layout serializer's reservation decision (§4.5) and
// must never under-count: the fixed-layout property depends on it being a
// true upper bound for every value consistent with the type.
func (t *Type) MaxBits() int {
	switch t.Kind {
	case KindUint, KindInt:
		return t.Bits
	case KindVarUint, KindVarInt:
		if t.VarN == 16 {
			return 4 + 15*8 // 4-bit length prefix (ceil(log2(16))) + up to 15 bytes
		}
		return 5 + 31*8 // 5-bit length prefix (ceil(log2(32))) + up to 31 bytes
	case KindBool:
		return 1
	case KindAddress:
		return 591 // addr_var upper bound (see spec.md §4.8)
	case KindBytes, KindCell, KindString:
		return 0
	case KindFixedBytes:
		return t.Bits
	case KindArray:
		return 33 // 32-bit count + 1-bit dictionary maybe-flag
	case KindFixedArray:
		return t.ArrayLen * t.Elem.MaxBits()
	case KindMap:
		return 33 // 32-bit count + 1-bit dictionary maybe-flag, mirroring KindArray
	case KindRef:
		return 0
	case KindOptional:
		if t.isSmallOptional() {
			return 1 + t.Elem.MaxBits()
		}
		return 1
	case KindTuple:
		total := 0
		for _, f := range t.Fields {
			total += f.Type.MaxBits()
		}
		return total
	default:
		return 0
	}
}

// MaxRefs returns the maximum number of cell references a value of this
// type can consume (spec.md §3, Max-footprint table).
func (t *Type) MaxRefs() int {
	switch t.Kind {
	case KindUint, KindInt, KindVarUint, KindVarInt, KindBool, KindAddress:
		return 0
	case KindBytes, KindCell, KindString, KindArray, KindMap, KindRef:
		return 1
	case KindFixedBytes:
		return 0
	case KindFixedArray:
		return t.ArrayLen * t.Elem.MaxRefs()
	case KindOptional:
		if t.isSmallOptional() {
			return t.Elem.MaxRefs()
		}
		return 1
	case KindTuple:
		total := 0
		for _, f := range t.Fields {
			total += f.Type.MaxRefs()
		}
		return total
	default:
		return 0
	}
}

// IsSmallOptional reports whether an optional(T) inlines T in place (small)
// or stores it behind a reference (large). Memoized per the type descriptor
// the first time it is computed (spec.md §9).
func (t *Type) IsSmallOptional() bool {
	return t.isSmallOptional()
}

func (t *Type) isSmallOptional() bool {
	if t.Kind != KindOptional {
		return false
	}
	if t.memoSmallOptional != nil {
		return *t.memoSmallOptional
	}
	large := (t.Elem.MaxBits()+1 > cell.MaxBits) || (t.Elem.MaxRefs() >= cell.MaxRefs)
	small := !large
	t.memoSmallOptional = &small
	return small
}

// FlattenedFields returns the flat, in-order member list obtained by
// recursively flattening tuples (spec.md §9 "tuple flattening" - tuples
// have no intrinsic max size of their own and are inlined into the layout
// as their member sequence, including nested tuples).
func (t *Type) FlattenedFields() []*Field {
	if t.Kind != KindTuple {
		return []*Field{{Type: t}}
	}
	var out []*Field
	for _, f := range t.Fields {
		out = append(out, f.Type.FlattenedFields()...)
	}
	return out
}
