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
	"testing"

	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseType(t *testing.T, desc string, components ...*abitype.ComponentSpec) *abitype.Type {
	t.Helper()
	ty, err := abitype.Parse(context.Background(), &abitype.ComponentSpec{Type: desc, Components: components})
	require.NoError(t, err)
	return ty
}

func stdAddr(t *testing.T, workchain int32, lastByte byte) token.Address {
	t.Helper()
	b := make([]byte, 32)
	b[31] = lastByte
	return token.Address{Kind: token.AddrStd, Workchain: workchain, AddrBits: b, AddrBitLen: 256}
}

func TestEncodeDecodeRoundTripScalars(t *testing.T) {
	ctx := context.Background()
	uintTy := parseType(t, "uint64")
	intTy := parseType(t, "int32")
	boolTy := parseType(t, "bool")
	addrTy := parseType(t, "address")
	bytesTy := parseType(t, "bytes")
	strTy := parseType(t, "string")

	types := []*abitype.Type{uintTy, intTy, boolTy, addrTy, bytesTy, strTy}
	toks := []*token.Token{
		{Type: uintTy, Int: big.NewInt(424242)},
		{Type: intTy, Int: big.NewInt(-99)},
		{Type: boolTy, Bool: true},
		{Type: addrTy, Address: stdAddr(t, 0, 0x01)},
		{Type: bytesTy, Bytes: []byte{0xde, 0xad, 0xbe, 0xef}},
		{Type: strTy, Str: "hello cell"},
	}

	c, err := EncodeSequence(ctx, true, types, toks)
	require.NoError(t, err)

	res, err := DecodeSequence(ctx, true, c, types)
	require.NoError(t, err)
	require.Len(t, res.Tokens, len(toks))
	assert.Equal(t, toks[0].Int, res.Tokens[0].Int)
	assert.Equal(t, toks[1].Int, res.Tokens[1].Int)
	assert.Equal(t, toks[2].Bool, res.Tokens[2].Bool)
	assert.Equal(t, toks[3].Address, res.Tokens[3].Address)
	assert.Equal(t, toks[4].Bytes, res.Tokens[4].Bytes)
	assert.Equal(t, toks[5].Str, res.Tokens[5].Str)
}

// Two wide addresses: spec.md §8 scenario 2 - the first cell carries the
// id-equivalent first value plus the first address, the second address
// spills into a continuation cell linked by exactly one reference.
func TestEncodeTwoAddressesSplitAcrossCells(t *testing.T) {
	ctx := context.Background()
	idTy := parseType(t, "uint32")
	addrTy := parseType(t, "address")

	types := []*abitype.Type{idTy, addrTy, addrTy}
	toks := []*token.Token{
		{Type: idTy, Int: big.NewInt(0x1234)},
		{Type: addrTy, Address: stdAddr(t, 0, 0xAA)},
		{Type: addrTy, Address: stdAddr(t, 0, 0xBB)},
	}

	root, err := EncodeSequence(ctx, true, types, toks)
	require.NoError(t, err)
	require.Len(t, root.Refs(), 1, "root links to exactly one continuation cell")

	res, err := DecodeSequence(ctx, true, root, types)
	require.NoError(t, err)
	assert.Equal(t, toks[0].Int, res.Tokens[0].Int)
	assert.Equal(t, toks[1].Address, res.Tokens[1].Address)
	assert.Equal(t, toks[2].Address, res.Tokens[2].Address)
}

// Four non-empty maps alongside a leading id fit the root cell's data
// budget and each contributes exactly one dictionary reference.
func TestEncodeFourMapsOneCell(t *testing.T) {
	ctx := context.Background()
	idTy := parseType(t, "uint32")
	keyTy := parseType(t, "uint32")
	valTy := parseType(t, "bool")
	mapTy := &abitype.Type{Kind: abitype.KindMap, KeyType: keyTy, Elem: valTy}

	oneEntry := func(k uint64, v bool) *token.Token {
		return &token.Token{Type: mapTy, Map: []token.MapEntry{{
			Key:   &token.Token{Type: keyTy, Int: new(big.Int).SetUint64(k)},
			Value: &token.Token{Type: valTy, Bool: v},
		}}}
	}

	types := []*abitype.Type{idTy, mapTy, mapTy, mapTy, mapTy}
	toks := []*token.Token{
		{Type: idTy, Int: big.NewInt(1)},
		oneEntry(1, true),
		oneEntry(2, false),
		oneEntry(3, true),
		oneEntry(4, false),
	}

	root, err := EncodeSequence(ctx, true, types, toks)
	require.NoError(t, err)
	assert.Len(t, root.Refs(), 4, "one dictionary reference per populated map")

	res, err := DecodeSequence(ctx, true, root, types)
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		require.Len(t, res.Tokens[i].Map, 1)
	}
}

func TestWideValuesSpanMultipleCells(t *testing.T) {
	ctx := context.Background()
	wideTy := parseType(t, "uint256")

	n := 8
	types := make([]*abitype.Type, n)
	toks := make([]*token.Token, n)
	for i := range types {
		types[i] = wideTy
		toks[i] = &token.Token{Type: wideTy, Int: big.NewInt(int64(i + 1))}
	}

	root, err := EncodeSequence(ctx, true, types, toks)
	require.NoError(t, err)

	// 8 * 256 bits exceeds one cell's 1023-bit budget, so the chain must
	// continue via at least one reference.
	assert.NotEmpty(t, root.Refs())

	res, err := DecodeSequence(ctx, true, root, types)
	require.NoError(t, err)
	for i, tok := range toks {
		assert.Equal(t, tok.Int, res.Tokens[i].Int)
	}
}

// Small optionals inline their payload; large ones (too big to fit beside
// the flag bit) are stored behind a reference (spec.md §8 scenario 5).
func TestOptionalSmallVsLarge(t *testing.T) {
	ctx := context.Background()
	smallTy := parseType(t, "optional(uint8)")
	largeTy := parseType(t, "optional(bytes[4])")

	set, err := EncodeSequence(ctx, true, []*abitype.Type{smallTy}, []*token.Token{
		{Type: smallTy, OptionalSet: true, OptionalValue: &token.Token{Type: smallTy.Elem, Int: big.NewInt(5)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1+8, set.BitLen())
	assert.Empty(t, set.Refs())

	unset, err := EncodeSequence(ctx, true, []*abitype.Type{smallTy}, []*token.Token{{Type: smallTy}})
	require.NoError(t, err)
	assert.Equal(t, 1, unset.BitLen())

	elems := make([]*token.Token, 4)
	for i := range elems {
		elems[i] = &token.Token{Type: largeTy.Elem.Elem, Bytes: []byte{byte(i)}}
	}
	largeSet, err := EncodeSequence(ctx, true, []*abitype.Type{largeTy}, []*token.Token{
		{Type: largeTy, OptionalSet: true, OptionalValue: &token.Token{Type: largeTy.Elem, Array: elems}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, largeSet.BitLen())
	require.Len(t, largeSet.Refs(), 1)

	res, err := DecodeSequence(ctx, true, largeSet, []*abitype.Type{largeTy})
	require.NoError(t, err)
	require.True(t, res.Tokens[0].OptionalSet)
	require.Len(t, res.Tokens[0].OptionalValue.Array, 4)
	assert.Equal(t, []byte{2}, res.Tokens[0].OptionalValue.Array[2].Bytes)
}

func TestLegacyOverflowEncoderRoundTrip(t *testing.T) {
	ctx := context.Background()
	wideTy := parseType(t, "uint256")
	n := 6
	types := make([]*abitype.Type, n)
	toks := make([]*token.Token, n)
	for i := range types {
		types[i] = wideTy
		toks[i] = &token.Token{Type: wideTy, Int: big.NewInt(int64(i))}
	}

	root, err := EncodeSequence(ctx, false, types, toks)
	require.NoError(t, err)
	res, err := DecodeSequence(ctx, false, root, types)
	require.NoError(t, err)
	for i, tok := range toks {
		assert.Equal(t, tok.Int, res.Tokens[i].Int)
	}
}

func TestEncodeSequenceReservedSplicing(t *testing.T) {
	ctx := context.Background()
	idTy := parseType(t, "uint32")
	types := []*abitype.Type{idTy}
	toks := []*token.Token{{Type: idTy, Int: big.NewInt(77)}}

	c, err := EncodeSequenceReserved(ctx, true, 8, types, toks)
	require.NoError(t, err)
	assert.Equal(t, 8+32, c.BitLen())

	s := c.NewSlice()
	reserved, err := s.ReadUint(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), reserved, "reserved bits are zero placeholders")
	v, err := s.ReadUint(ctx, 32)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), v)
}

func TestCursorResumesDecodeAcrossStages(t *testing.T) {
	ctx := context.Background()
	idTy := parseType(t, "uint32")
	argTy := parseType(t, "bool")

	types := []*abitype.Type{idTy, argTy}
	toks := []*token.Token{
		{Type: idTy, Int: big.NewInt(9)},
		{Type: argTy, Bool: true},
	}
	c, err := EncodeSequence(ctx, true, types, toks)
	require.NoError(t, err)

	cur := NewCursor(c)
	idToks, err := cur.Decode(ctx, true, []*abitype.Type{idTy})
	require.NoError(t, err)
	assert.Equal(t, int64(9), idToks[0].Int.Int64())

	rest, err := cur.Decode(ctx, true, []*abitype.Type{argTy})
	require.NoError(t, err)
	assert.True(t, rest[0].Bool)
}
