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

package layout

import (
	"context"

	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/cell"
	"github.com/latticebound/tvmabi/pkg/token"
)

// appendItems flattens typ/tok into one or more sequence items (spec.md §9
// tuple flattening): a tuple contributes its members, recursively; anything
// else contributes exactly one item whose write performs its natural,
// actual-size encoding.
func appendItems(fixed bool, typ *abitype.Type, tok *token.Token, items *[]item) {
	if typ.Kind == abitype.KindTuple {
		for i, f := range typ.Fields {
			appendItems(fixed, f.Type, tok.Tuple[i], items)
		}
		return
	}
	t, v := typ, tok
	*items = append(*items, item{
		maxBits: t.MaxBits(),
		maxRefs: t.MaxRefs(),
		write: func(ctx context.Context, b *cell.Builder) error {
			return writeToken(ctx, fixed, t, v, b)
		},
	})
}

// EncodeSequence encodes a parallel (types, toks) list into a standalone
// cell chain (spec.md §4.5): the fixed-layout reservation algorithm for ABI
// >= 2.2, the overflow-only algorithm otherwise. It is used both for
// top-level parameter lists (function inputs/outputs, event fields, data
// items) and, recursively, for array/map dictionary contents and any value
// placed behind its own reference (large optional, ref(T)).
func EncodeSequence(ctx context.Context, fixed bool, types []*abitype.Type, toks []*token.Token) (*cell.Cell, error) {
	var items []item
	for i, t := range types {
		appendItems(fixed, t, toks[i], &items)
	}
	return encodeSequence(ctx, fixed, items)
}

// EncodeSequenceReserved is EncodeSequence with reserveBits of dead space
// held at the very front of the chain's first cell, as spec.md §4.8 uses
// to make room for a destination address (or a signature) ahead of the
// header/function-ID/argument content. The reserved bits are written as
// zero placeholders and are expected to be spliced over by the caller
// before the cell is used on the wire (see pkg/facade).
func EncodeSequenceReserved(ctx context.Context, fixed bool, reserveBits int, types []*abitype.Type, toks []*token.Token) (*cell.Cell, error) {
	cb := newChainBuilder()
	for i := 0; i < reserveBits; i++ {
		if err := cb.cur.WriteBit(ctx, false); err != nil {
			return nil, err
		}
	}
	cb.reservedBits = reserveBits
	var items []item
	for i, t := range types {
		appendItems(fixed, t, toks[i], &items)
	}
	if fixed {
		return encodeSequenceFixedInto(ctx, cb, items)
	}
	return encodeSequenceLegacyInto(ctx, cb, items)
}

// writeToken writes typ/tok's natural (actual-size) encoding into b,
// assuming the caller has already secured enough capacity (either by the
// fixed-layout reservation decision, or because it is writing a type inline
// within a parent whose own reservation already covers it in full - a small
// optional, or a fixed-size array of non-ref-hungry elements).
func writeToken(ctx context.Context, fixed bool, typ *abitype.Type, tok *token.Token, b *cell.Builder) error {
	switch typ.Kind {
	case abitype.KindUint:
		return b.WriteBigUint(ctx, tok.Int, typ.Bits)
	case abitype.KindInt:
		return b.WriteBigInt(ctx, tok.Int, typ.Bits)

	case abitype.KindVarUint, abitype.KindVarInt:
		return writeVarInt(ctx, typ, tok, b)

	case abitype.KindBool:
		return b.WriteBit(ctx, tok.Bool)

	case abitype.KindAddress:
		return writeAddress(ctx, b, tok.Address)

	case abitype.KindBytes:
		chain, err := bytesChainCell(ctx, tok.Bytes)
		if err != nil {
			return err
		}
		return b.AddRef(ctx, chain)

	case abitype.KindFixedBytes:
		return b.WriteBytes(ctx, tok.Bytes)

	case abitype.KindString:
		chain, err := bytesChainCell(ctx, []byte(tok.Str))
		if err != nil {
			return err
		}
		return b.AddRef(ctx, chain)

	case abitype.KindCell:
		return b.AddRef(ctx, tok.CellValue)

	case abitype.KindTuple:
		for i, f := range typ.Fields {
			if err := writeToken(ctx, fixed, f.Type, tok.Tuple[i], b); err != nil {
				return err
			}
		}
		return nil

	case abitype.KindFixedArray:
		for i := 0; i < typ.ArrayLen; i++ {
			if err := writeToken(ctx, fixed, typ.Elem, tok.Array[i], b); err != nil {
				return err
			}
		}
		return nil

	case abitype.KindArray:
		n := len(tok.Array)
		if err := b.WriteUint(ctx, uint64(n), 32); err != nil {
			return err
		}
		if err := b.WriteBit(ctx, n > 0); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		types := make([]*abitype.Type, n)
		for i := range types {
			types[i] = typ.Elem
		}
		dict, err := EncodeSequence(ctx, fixed, types, tok.Array)
		if err != nil {
			return err
		}
		return b.AddRef(ctx, dict)

	case abitype.KindMap:
		n := len(tok.Map)
		if err := b.WriteUint(ctx, uint64(n), 32); err != nil {
			return err
		}
		if err := b.WriteBit(ctx, n > 0); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		types := make([]*abitype.Type, 0, 2*n)
		vals := make([]*token.Token, 0, 2*n)
		for _, e := range tok.Map {
			types = append(types, typ.KeyType, typ.Elem)
			vals = append(vals, e.Key, e.Value)
		}
		dict, err := EncodeSequence(ctx, fixed, types, vals)
		if err != nil {
			return err
		}
		return b.AddRef(ctx, dict)

	case abitype.KindOptional:
		if err := b.WriteBit(ctx, tok.OptionalSet); err != nil {
			return err
		}
		if !tok.OptionalSet {
			return nil
		}
		if typ.IsSmallOptional() {
			return writeToken(ctx, fixed, typ.Elem, tok.OptionalValue, b)
		}
		valCell, err := EncodeSequence(ctx, fixed, []*abitype.Type{typ.Elem}, []*token.Token{tok.OptionalValue})
		if err != nil {
			return err
		}
		return b.AddRef(ctx, valCell)

	case abitype.KindRef:
		valCell, err := EncodeSequence(ctx, fixed, []*abitype.Type{typ.Elem}, []*token.Token{tok.RefValue})
		if err != nil {
			return err
		}
		return b.AddRef(ctx, valCell)

	default:
		return nil
	}
}

func writeVarInt(ctx context.Context, typ *abitype.Type, tok *token.Token, b *cell.Builder) error {
	lenBits := varLenBits(typ.VarN)
	if typ.Kind == abitype.KindVarUint {
		n := minUnsignedBytes(tok.Int)
		if err := b.WriteUint(ctx, uint64(n), lenBits); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		return b.WriteBigUint(ctx, tok.Int, n*8)
	}
	n := minSignedBytes(tok.Int)
	if err := b.WriteUint(ctx, uint64(n), lenBits); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return b.WriteBigInt(ctx, tok.Int, n*8)
}
