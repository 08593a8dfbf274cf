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

package token

import (
	"context"
	"testing"

	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseType(t *testing.T, desc string, components ...*abitype.ComponentSpec) *abitype.Type {
	t.Helper()
	ty, err := abitype.Parse(context.Background(), &abitype.ComponentSpec{Type: desc, Components: components})
	require.NoError(t, err)
	return ty
}

func TestTokenizeIntegerLenient(t *testing.T) {
	ctx := context.Background()
	ty := parseType(t, "uint32")

	for _, v := range []interface{}{"42", 42, int32(42), float64(42), uint(42)} {
		tok, err := Tokenize(ctx, ty, v, "$")
		require.NoError(t, err, "%T", v)
		assert.Equal(t, int64(42), tok.Int.Int64())
	}

	_, err := Tokenize(ctx, ty, "not a number", "$")
	assert.Error(t, err)

	_, err = Tokenize(ctx, ty, -1, "$")
	assert.Error(t, err, "uint32 rejects negative values")
}

func TestTokenizeIntRange(t *testing.T) {
	ctx := context.Background()
	ty := parseType(t, "int8")

	_, err := Tokenize(ctx, ty, 127, "$")
	assert.NoError(t, err)
	_, err = Tokenize(ctx, ty, 128, "$")
	assert.Error(t, err)
	_, err = Tokenize(ctx, ty, -129, "$")
	assert.Error(t, err)
}

func TestTokenizeBoolLenient(t *testing.T) {
	ctx := context.Background()
	ty := parseType(t, "bool")

	for _, v := range []interface{}{true, "true", "1", float64(1)} {
		tok, err := Tokenize(ctx, ty, v, "$")
		require.NoError(t, err)
		assert.True(t, tok.Bool)
	}
	tok, err := Tokenize(ctx, ty, "false", "$")
	require.NoError(t, err)
	assert.False(t, tok.Bool)
}

func TestTokenizeAddress(t *testing.T) {
	ctx := context.Background()
	ty := parseType(t, "address")

	tok, err := Tokenize(ctx, ty, "0:0000000000000000000000000000000000000000000000000000000000000001", "$")
	require.NoError(t, err)
	assert.Equal(t, AddrStd, tok.Address.Kind)
	assert.Equal(t, int32(0), tok.Address.Workchain)

	none, err := Tokenize(ctx, ty, "", "$")
	require.NoError(t, err)
	assert.Equal(t, AddrNone, none.Address.Kind)
}

func TestTokenizeBytesAndFixedBytes(t *testing.T) {
	ctx := context.Background()
	bytesTy := parseType(t, "bytes")
	tok, err := Tokenize(ctx, bytesTy, "deadbeef", "$")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, tok.Bytes)

	fbTy := parseType(t, "fixedbytes2")
	_, err = Tokenize(ctx, fbTy, "deadbeef", "$")
	assert.Error(t, err, "length mismatch should be rejected")

	ok, err := Tokenize(ctx, fbTy, "dead", "$")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, ok.Bytes)
}

func TestTokenizeStringRejectsInvalidUTF8(t *testing.T) {
	ctx := context.Background()
	ty := parseType(t, "string")
	_, err := Tokenize(ctx, ty, string([]byte{0xff, 0xfe}), "$")
	assert.Error(t, err)
}

func TestTokenizeArrayAndFixedArray(t *testing.T) {
	ctx := context.Background()
	arrTy := parseType(t, "uint8[]")
	tok, err := Tokenize(ctx, arrTy, []interface{}{1, 2, 3}, "$")
	require.NoError(t, err)
	assert.Len(t, tok.Array, 3)

	fixedTy := parseType(t, "uint8[2]")
	_, err = Tokenize(ctx, fixedTy, []interface{}{1, 2, 3}, "$")
	assert.Error(t, err, "length mismatch rejected")
}

func TestTokenizeOptionalNilVsValue(t *testing.T) {
	ctx := context.Background()
	ty := parseType(t, "optional(uint8)")

	unset, err := Tokenize(ctx, ty, nil, "$")
	require.NoError(t, err)
	assert.False(t, unset.OptionalSet)

	set, err := Tokenize(ctx, ty, 7, "$")
	require.NoError(t, err)
	assert.True(t, set.OptionalSet)
	assert.Equal(t, int64(7), set.OptionalValue.Int.Int64())
}

func TestTokenizeTupleFromMapAndArray(t *testing.T) {
	ctx := context.Background()
	ty := parseType(t, "tuple", &abitype.ComponentSpec{Name: "a", Type: "uint8"}, &abitype.ComponentSpec{Name: "b", Type: "bool"})

	fromMap, err := Tokenize(ctx, ty, map[string]interface{}{"a": 1, "b": true}, "$")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fromMap.Tuple[0].Int.Int64())
	assert.True(t, fromMap.Tuple[1].Bool)

	fromArr, err := Tokenize(ctx, ty, []interface{}{1, true}, "$")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fromArr.Tuple[0].Int.Int64())

	_, err = Tokenize(ctx, ty, map[string]interface{}{"a": 1}, "$")
	assert.Error(t, err, "missing field b")
}

func TestDetokenizeRoundTrip(t *testing.T) {
	ctx := context.Background()
	ty := parseType(t, "tuple",
		&abitype.ComponentSpec{Name: "a", Type: "uint32"},
		&abitype.ComponentSpec{Name: "b", Type: "bytes"},
		&abitype.ComponentSpec{Name: "c", Type: "optional(bool)"},
	)
	in := map[string]interface{}{"a": "99", "b": "cafe", "c": true}
	tok, err := Tokenize(ctx, ty, in, "$")
	require.NoError(t, err)

	out := Detokenize(tok).(map[string]interface{})
	assert.Equal(t, "99", out["a"])
	assert.Equal(t, "cafe", out["b"])
	assert.Equal(t, true, out["c"])
}
