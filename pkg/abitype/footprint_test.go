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

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxBitsElementary(t *testing.T) {
	ctx := context.Background()

	u64, err := Parse(ctx, spec("uint64"))
	require.NoError(t, err)
	assert.Equal(t, 64, u64.MaxBits())
	assert.Equal(t, 0, u64.MaxRefs())

	addr, err := Parse(ctx, spec("address"))
	require.NoError(t, err)
	assert.Equal(t, 591, addr.MaxBits())

	str, err := Parse(ctx, spec("string"))
	require.NoError(t, err)
	assert.Equal(t, 0, str.MaxBits())
	assert.Equal(t, 1, str.MaxRefs())
}

func TestIsSmallOptional(t *testing.T) {
	ctx := context.Background()

	small, err := Parse(ctx, spec("optional(uint8)"))
	require.NoError(t, err)
	assert.True(t, small.IsSmallOptional())
	assert.Equal(t, 1+8, small.MaxBits())

	large, err := Parse(ctx, spec("optional(bytes[4])"))
	require.NoError(t, err)
	// four bytes elements reserve four references, meeting the cell's
	// reference budget exactly, so the value must be stored behind a
	// reference of its own rather than sharing the parent cell's refs.
	assert.False(t, large.IsSmallOptional())
	assert.Equal(t, 1, large.MaxBits())
	assert.Equal(t, 1, large.MaxRefs())
}

func TestMaxBitsFixedArrayAndTuple(t *testing.T) {
	ctx := context.Background()

	arr, err := Parse(ctx, spec("uint8[4]"))
	require.NoError(t, err)
	assert.Equal(t, 32, arr.MaxBits())

	tup, err := Parse(ctx, spec("tuple",
		&ComponentSpec{Name: "a", Type: "uint8"},
		&ComponentSpec{Name: "b", Type: "bool"},
	))
	require.NoError(t, err)
	assert.Equal(t, 9, tup.MaxBits())
}
