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

package cell

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderWriteAndSliceRead(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()
	require.NoError(t, b.WriteBit(ctx, true))
	require.NoError(t, b.WriteUint(ctx, 0x2A, 8))
	require.NoError(t, b.WriteBigInt(ctx, big.NewInt(-5), 16))
	c := b.Build()

	s := c.NewSlice()
	bit, err := s.ReadBit(ctx)
	require.NoError(t, err)
	assert.True(t, bit)

	v, err := s.ReadUint(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2A), v)

	iv, err := s.ReadBigInt(ctx, 16)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), iv.Int64())

	assert.Equal(t, 0, s.RemainingBits())
}

func TestBuilderOverflow(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()
	require.NoError(t, b.WriteUint(ctx, 0, MaxBits))
	assert.Error(t, b.WriteBit(ctx, true))
}

func TestBuilderRefOverflow(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()
	leaf := NewBuilder().Build()
	for i := 0; i < MaxRefs; i++ {
		require.NoError(t, b.AddRef(ctx, leaf))
	}
	assert.Error(t, b.AddRef(ctx, leaf))
}

func TestSliceUnexpectedEOF(t *testing.T) {
	ctx := context.Background()
	c := NewBuilder().Build()
	s := c.NewSlice()
	_, err := s.ReadBit(ctx)
	assert.Error(t, err)
	_, err = s.NextRef(ctx)
	assert.Error(t, err)
}

func TestBuildIsNotDestructive(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()
	require.NoError(t, b.WriteUint(ctx, 1, 1))
	first := b.Build()
	require.NoError(t, b.WriteUint(ctx, 0, 1))
	second := b.Build()

	assert.Equal(t, 1, first.BitLen())
	assert.Equal(t, 2, second.BitLen())
}

func TestRepresentationHashDeterministicAndSensitive(t *testing.T) {
	ctx := context.Background()
	build := func(v uint64) *Cell {
		b := NewBuilder()
		require.NoError(t, b.WriteUint(ctx, v, 32))
		return b.Build()
	}
	h1 := build(1).RepresentationHash()
	h1again := build(1).RepresentationHash()
	h2 := build(2).RepresentationHash()

	assert.Equal(t, h1, h1again)
	assert.NotEqual(t, h1, h2)
}

func TestRepresentationHashCoversRefs(t *testing.T) {
	ctx := context.Background()
	leafA := func() *Cell {
		b := NewBuilder()
		require.NoError(t, b.WriteUint(ctx, 0xAA, 8))
		return b.Build()
	}()
	leafB := func() *Cell {
		b := NewBuilder()
		require.NoError(t, b.WriteUint(ctx, 0xBB, 8))
		return b.Build()
	}()

	withA := NewBuilder()
	require.NoError(t, withA.AddRef(ctx, leafA))
	withB := NewBuilder()
	require.NoError(t, withB.AddRef(ctx, leafB))

	assert.NotEqual(t, withA.Build().RepresentationHash(), withB.Build().RepresentationHash())
}

func TestToBoCRoundTrip(t *testing.T) {
	ctx := context.Background()
	leaf := NewBuilder()
	require.NoError(t, leaf.WriteUint(ctx, 0x7, 4))
	leafCell := leaf.Build()

	root := NewBuilder()
	require.NoError(t, root.WriteBit(ctx, true))
	require.NoError(t, root.AddRef(ctx, leafCell))
	rootCell := root.Build()

	data := rootCell.ToBoC()
	back, err := FromBoC(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, rootCell.BitLen(), back.BitLen())
	require.Len(t, back.Refs(), 1)
	assert.Equal(t, leafCell.RawBits(), back.Refs()[0].RawBits())
	assert.Equal(t, rootCell.RepresentationHash(), back.RepresentationHash())
}

func TestFromBase64BoCRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := NewBuilder()
	require.NoError(t, b.WriteBytes(ctx, []byte("hello")))
	c := b.Build()

	s := c.ToBase64BoC()
	back, err := FromBase64BoC(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, c.RawBits(), back.RawBits())
}

func TestFromBoCRejectsTrailingData(t *testing.T) {
	ctx := context.Background()
	data := append(NewBuilder().Build().ToBoC(), 0x01)
	_, err := FromBoC(ctx, data)
	assert.Error(t, err)
}
