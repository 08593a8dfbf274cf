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

package signer

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNoneErrors(t *testing.T) {
	ctx := context.Background()
	_, err := None().Resolve(ctx, [32]byte{})
	assert.Error(t, err)
}

func TestResolvePrecomputed(t *testing.T) {
	ctx := context.Background()
	var sig [64]byte
	sig[0] = 0xAB
	out, err := Precomputed(sig).Resolve(ctx, [32]byte{})
	require.NoError(t, err)
	assert.Equal(t, sig, out)
}

func TestResolveCallback(t *testing.T) {
	ctx := context.Background()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	var hash [32]byte
	hash[0] = 0x01

	sig, err := WithCallback(Ed25519(priv)).Resolve(ctx, hash)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, hash[:], sig[:]))
}

type erroringSigner struct{}

func (erroringSigner) Sign(ctx context.Context, hash [32]byte) ([64]byte, error) {
	return [64]byte{}, assert.AnError
}

func TestResolveCallbackPropagatesError(t *testing.T) {
	ctx := context.Background()
	_, err := WithCallback(erroringSigner{}).Resolve(ctx, [32]byte{})
	assert.Error(t, err)
}
