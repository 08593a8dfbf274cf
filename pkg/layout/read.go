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
	"math/big"

	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/cell"
	"github.com/latticebound/tvmabi/pkg/token"
)

// DecodeResult is the outcome of DecodeSequence: the decoded tokens plus
// the decode cursor's final remaining capacity, so a caller sequencing
// further reads (or enforcing strict no-leftover-data) can inspect it.
type DecodeResult struct {
	Tokens        []*token.Token
	RemainingBits int
	RemainingRefs int
}

// appendDecodeItems mirrors appendItems for decoding: a tuple allocates its
// token up front (so nested fields can be filled as the flat item list is
// consumed) and recurses over its members; anything else contributes one
// decode item that allocates and fills *target when it runs.
func appendDecodeItems(fixed bool, typ *abitype.Type, target **token.Token, items *[]decodeItem) {
	if typ.Kind == abitype.KindTuple {
		tok := &token.Token{Type: typ, Tuple: make([]*token.Token, len(typ.Fields))}
		*target = tok
		for i, f := range typ.Fields {
			appendDecodeItems(fixed, f.Type, &tok.Tuple[i], items)
		}
		return
	}
	t, tgt := typ, target
	*items = append(*items, decodeItem{
		maxBits: t.MaxBits(),
		maxRefs: t.MaxRefs(),
		read: func(ctx context.Context, s *cell.Slice) error {
			v, err := readToken(ctx, fixed, t, s)
			if err != nil {
				return err
			}
			*tgt = v
			return nil
		},
	})
}

// DecodeSequence is the mirror of EncodeSequence (spec.md §4.6).
func DecodeSequence(ctx context.Context, fixed bool, c *cell.Cell, types []*abitype.Type) (*DecodeResult, error) {
	toks := make([]*token.Token, len(types))
	var items []decodeItem
	for i, t := range types {
		appendDecodeItems(fixed, t, &toks[i], &items)
	}
	cs := newChainSlice(c)
	if err := decodeSequence(ctx, fixed, cs, items); err != nil {
		return nil, err
	}
	return &DecodeResult{Tokens: toks, RemainingBits: cs.cur.RemainingBits(), RemainingRefs: cs.cur.RemainingRefs()}, nil
}

// DecodeSequenceReserved is DecodeSequence for a cell chain whose first
// cell was produced by EncodeSequenceReserved: c itself begins at the real
// header/ID/argument content (the caller has already spliced away the
// physical signature-flag/signature prefix via cellTail), but the fixed-
// layout spill decisions that ran at encode time reserved reserveBits of
// budget in that first cell before the first item was placed. Decode must
// seed the same reservation so it lands on the same cell boundaries the
// encoder chose, independent of the number of bits actually stripped from
// the wire (spec.md §4.8 - the two can differ for destination-bound
// signing, where 591 bits were reserved for layout but only 513 are ever
// present on the wire).
func DecodeSequenceReserved(ctx context.Context, fixed bool, reserveBits int, c *cell.Cell, types []*abitype.Type) (*DecodeResult, error) {
	toks := make([]*token.Token, len(types))
	var items []decodeItem
	for i, t := range types {
		appendDecodeItems(fixed, t, &toks[i], &items)
	}
	cs := newChainSliceReserved(c, reserveBits)
	if err := decodeSequence(ctx, fixed, cs, items); err != nil {
		return nil, err
	}
	return &DecodeResult{Tokens: toks, RemainingBits: cs.cur.RemainingBits(), RemainingRefs: cs.cur.RemainingRefs()}, nil
}

// Cursor is a resumable decode position over a cell chain. DecodeSequence
// decodes one type list against a fresh cursor and discards it; Cursor lets
// a caller decode in stages when a later stage's type list depends on an
// earlier stage's decoded values - pkg/facade uses it to read header and
// function-ID fields, resolve which function they belong to, and only then
// decode that function's particular argument types from the same
// continuing position.
type Cursor struct {
	cs *chainSlice
}

// NewCursor starts a cursor at the beginning of c.
func NewCursor(c *cell.Cell) *Cursor {
	return &Cursor{cs: newChainSlice(c)}
}

// NewCursorReserved starts a cursor seeded with reserveBits of already-
// reserved budget, mirroring DecodeSequenceReserved for multi-stage decodes
// (pkg/facade's unknown-function resolution reads the header and ID first,
// then the resolved function's arguments, from the same reserved body).
func NewCursorReserved(c *cell.Cell, reserveBits int) *Cursor {
	return &Cursor{cs: newChainSliceReserved(c, reserveBits)}
}

// Decode reads types in order from the cursor's current position, advancing
// it past what was read.
func (cur *Cursor) Decode(ctx context.Context, fixed bool, types []*abitype.Type) ([]*token.Token, error) {
	toks := make([]*token.Token, len(types))
	var items []decodeItem
	for i, t := range types {
		appendDecodeItems(fixed, t, &toks[i], &items)
	}
	if err := decodeSequence(ctx, fixed, cur.cs, items); err != nil {
		return nil, err
	}
	return toks, nil
}

// readToken mirrors writeToken: it reads typ's natural (actual-size)
// encoding from s.
func readToken(ctx context.Context, fixed bool, typ *abitype.Type, s *cell.Slice) (*token.Token, error) {
	switch typ.Kind {
	case abitype.KindUint:
		v, err := s.ReadBigUint(ctx, typ.Bits)
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, Int: v}, nil

	case abitype.KindInt:
		v, err := s.ReadBigInt(ctx, typ.Bits)
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, Int: v}, nil

	case abitype.KindVarUint, abitype.KindVarInt:
		return readVarInt(ctx, typ, s)

	case abitype.KindBool:
		v, err := s.ReadBit(ctx)
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, Bool: v}, nil

	case abitype.KindAddress:
		a, err := readAddress(ctx, s)
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, Address: a}, nil

	case abitype.KindBytes:
		ref, err := s.NextRef(ctx)
		if err != nil {
			return nil, err
		}
		data, err := readBytesChain(ctx, ref)
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, Bytes: data}, nil

	case abitype.KindFixedBytes:
		data, err := s.ReadBytes(ctx, typ.Bits/8)
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, Bytes: data}, nil

	case abitype.KindString:
		ref, err := s.NextRef(ctx)
		if err != nil {
			return nil, err
		}
		data, err := readBytesChain(ctx, ref)
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, Str: string(data)}, nil

	case abitype.KindCell:
		ref, err := s.NextRef(ctx)
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, CellValue: ref}, nil

	case abitype.KindTuple:
		fields := make([]*token.Token, len(typ.Fields))
		for i, f := range typ.Fields {
			v, err := readToken(ctx, fixed, f.Type, s)
			if err != nil {
				return nil, err
			}
			fields[i] = v
		}
		return &token.Token{Type: typ, Tuple: fields}, nil

	case abitype.KindFixedArray:
		elems := make([]*token.Token, typ.ArrayLen)
		for i := 0; i < typ.ArrayLen; i++ {
			v, err := readToken(ctx, fixed, typ.Elem, s)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &token.Token{Type: typ, Array: elems}, nil

	case abitype.KindArray:
		n, err := s.ReadUint(ctx, 32)
		if err != nil {
			return nil, err
		}
		has, err := s.ReadBit(ctx)
		if err != nil {
			return nil, err
		}
		if !has || n == 0 {
			return &token.Token{Type: typ, Array: []*token.Token{}}, nil
		}
		ref, err := s.NextRef(ctx)
		if err != nil {
			return nil, err
		}
		types := make([]*abitype.Type, n)
		for i := range types {
			types[i] = typ.Elem
		}
		res, err := DecodeSequence(ctx, fixed, ref, types)
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, Array: res.Tokens}, nil

	case abitype.KindMap:
		n, err := s.ReadUint(ctx, 32)
		if err != nil {
			return nil, err
		}
		has, err := s.ReadBit(ctx)
		if err != nil {
			return nil, err
		}
		if !has || n == 0 {
			return &token.Token{Type: typ}, nil
		}
		ref, err := s.NextRef(ctx)
		if err != nil {
			return nil, err
		}
		types := make([]*abitype.Type, 0, 2*n)
		for i := uint64(0); i < n; i++ {
			types = append(types, typ.KeyType, typ.Elem)
		}
		res, err := DecodeSequence(ctx, fixed, ref, types)
		if err != nil {
			return nil, err
		}
		entries := make([]token.MapEntry, n)
		for i := uint64(0); i < n; i++ {
			entries[i] = token.MapEntry{Key: res.Tokens[2*i], Value: res.Tokens[2*i+1]}
		}
		return &token.Token{Type: typ, Map: entries}, nil

	case abitype.KindOptional:
		set, err := s.ReadBit(ctx)
		if err != nil {
			return nil, err
		}
		if !set {
			return &token.Token{Type: typ}, nil
		}
		if typ.IsSmallOptional() {
			v, err := readToken(ctx, fixed, typ.Elem, s)
			if err != nil {
				return nil, err
			}
			return &token.Token{Type: typ, OptionalSet: true, OptionalValue: v}, nil
		}
		ref, err := s.NextRef(ctx)
		if err != nil {
			return nil, err
		}
		res, err := DecodeSequence(ctx, fixed, ref, []*abitype.Type{typ.Elem})
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, OptionalSet: true, OptionalValue: res.Tokens[0]}, nil

	case abitype.KindRef:
		ref, err := s.NextRef(ctx)
		if err != nil {
			return nil, err
		}
		res, err := DecodeSequence(ctx, fixed, ref, []*abitype.Type{typ.Elem})
		if err != nil {
			return nil, err
		}
		return &token.Token{Type: typ, RefValue: res.Tokens[0]}, nil

	default:
		return &token.Token{Type: typ}, nil
	}
}

func readVarInt(ctx context.Context, typ *abitype.Type, s *cell.Slice) (*token.Token, error) {
	lenBits := varLenBits(typ.VarN)
	n, err := s.ReadUint(ctx, lenBits)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &token.Token{Type: typ, Int: big.NewInt(0)}, nil
	}
	var v *big.Int
	if typ.Kind == abitype.KindVarUint {
		v, err = s.ReadBigUint(ctx, int(n)*8)
	} else {
		v, err = s.ReadBigInt(ctx, int(n)*8)
	}
	if err != nil {
		return nil, err
	}
	return &token.Token{Type: typ, Int: v}, nil
}
