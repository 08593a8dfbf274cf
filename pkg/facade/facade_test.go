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

package facade

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/contract"
	"github.com/latticebound/tvmabi/pkg/funcid"
	"github.com/latticebound/tvmabi/pkg/layout"
	"github.com/latticebound/tvmabi/pkg/signer"
	"github.com/latticebound/tvmabi/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transferContract = `{
	"version": "2.2",
	"header": ["time", "expire", "pubkey"],
	"functions": [
		{
			"name": "transfer",
			"inputs": [
				{"name": "to", "type": "address"},
				{"name": "amount", "type": "uint128"}
			],
			"outputs": [
				{"name": "ok", "type": "bool"}
			]
		}
	],
	"events": [
		{"name": "Transferred", "inputs": [{"name": "amount", "type": "uint128"}]}
	],
	"data": [
		{"key": "1", "name": "owner", "type": "address"}
	]
}`

const destBoundContract = `{
	"version": "2.3",
	"header": [],
	"functions": [
		{"name": "ping", "inputs": [{"name": "nonce", "type": "uint32"}], "outputs": [{"name": "pong", "type": "uint32"}]}
	]
}`

func loadContract(t *testing.T, doc string) *contract.Contract {
	t.Helper()
	c, err := contract.Load(context.Background(), []byte(doc), contract.LoadOptions{})
	require.NoError(t, err)
	return c
}

func stdAddress(lastByte byte) token.Address {
	b := make([]byte, 32)
	b[31] = lastByte
	return token.Address{Kind: token.AddrStd, Workchain: 0, AddrBits: b, AddrBitLen: 256}
}

func zerosHex(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func TestEncodeDecodeInputUnsigned(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, transferContract)
	fn := c.FunctionByName("transfer")

	hv := HeaderValues{}
	args := map[string]interface{}{"to": "0:" + zerosHex(62) + "01", "amount": "1000"}

	body, err := EncodeInput(ctx, c, fn, hv, args, signer.None(), nil)
	require.NoError(t, err)

	gotHV, gotArgs, err := DecodeInput(ctx, c, fn, body)
	require.NoError(t, err)
	assert.Nil(t, gotHV.PubKey)
	assert.Equal(t, "1000", gotArgs["amount"])
}

func TestEncodeDecodeInputSignedPre23(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, transferContract)
	fn := c.FunctionByName("transfer")

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	args := map[string]interface{}{"to": "0:" + zerosHex(62) + "01", "amount": "7"}
	body, err := EncodeInput(ctx, c, fn, HeaderValues{}, args, signer.WithCallback(signer.Ed25519(priv)), nil)
	require.NoError(t, err)

	_, gotArgs, err := DecodeInput(ctx, c, fn, body)
	require.NoError(t, err)
	assert.Equal(t, "7", gotArgs["amount"])

	skip, sig, err := readBodyPrefix(ctx, body)
	require.NoError(t, err)
	assert.Equal(t, 513, skip)
	require.NotNil(t, sig)

	tail, err := cellTail(ctx, body, skip)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, tail.RepresentationHash()[:], sig[:]))
}

// spec.md §8 scenario 6: a destination-bound (>= 2.3) preimage changes when
// the destination address changes, so a signature collected for one
// destination does not verify against another.
func TestDestinationBoundPreimageChangesWithDestination(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, destBoundContract)
	fn := c.FunctionByName("ping")

	destA := stdAddress(0x01)
	destB := stdAddress(0x02)

	bodyA, err := EncodeInput(ctx, c, fn, HeaderValues{}, map[string]interface{}{"nonce": "1"}, signer.Precomputed([64]byte{}), &destA)
	require.NoError(t, err)
	bodyB, err := EncodeInput(ctx, c, fn, HeaderValues{}, map[string]interface{}{"nonce": "1"}, signer.Precomputed([64]byte{}), &destB)
	require.NoError(t, err)

	// Both encodes reserve the same 591-bit prefix and write identical
	// (zero) signature bits, so any remaining difference in the wire
	// bodies comes only from how each destination would have hashed -
	// verified directly via buildPreimageHash below.
	assert.Equal(t, bodyA.BitLen(), bodyB.BitLen())

	fixed := c.Version.UsesFixedLayout()
	reserveBits := signatureReserveBits(signer.PolicyPrecomputed, c.Version)

	id, err := funcid.FunctionCallID(ctx, fn, c.Version)
	require.NoError(t, err)
	argTypes, argToks, err := tokenizeParams(ctx, fn.Inputs, map[string]interface{}{"nonce": "1"})
	require.NoError(t, err)
	types := append([]*abitype.Type{uint32Type}, argTypes...)
	toks := append([]*token.Token{uintToken(uint32Type, uint64(id))}, argToks...)
	unsigned, err := layout.EncodeSequenceReserved(ctx, fixed, reserveBits, types, toks)
	require.NoError(t, err)

	hashA, err := buildPreimageHash(ctx, fixed, c.Version, unsigned, reserveBits, &destA)
	require.NoError(t, err)
	hashB, err := buildPreimageHash(ctx, fixed, c.Version, unsigned, reserveBits, &destB)
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashB, "changing the destination must change the preimage hash")
}

func TestEncodeInputWithoutDestinationErrorsOnDestBoundSigning(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, destBoundContract)
	fn := c.FunctionByName("ping")

	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, err = EncodeInput(ctx, c, fn, HeaderValues{}, map[string]interface{}{"nonce": "1"}, signer.WithCallback(signer.Ed25519(priv)), nil)
	assert.Error(t, err)
}

func TestEncodeDecodeEvent(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, transferContract)
	ev := c.EventByName("Transferred")

	body, err := EncodeEvent(ctx, c, ev, map[string]interface{}{"amount": "42"})
	require.NoError(t, err)

	args, err := DecodeEvent(ctx, c, ev, body)
	require.NoError(t, err)
	assert.Equal(t, "42", args["amount"])
}

func TestEncodeDecodeData(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, transferContract)

	body, err := EncodeData(ctx, c, map[string]interface{}{"owner": "0:" + zerosHex(62) + "01"}, nil)
	require.NoError(t, err)

	out, err := DecodeData(ctx, c, body)
	require.NoError(t, err)
	assert.Equal(t, "0:"+zerosHex(62)+"01", out["owner"])
}

func TestEncodeDataPreservesExistingOnPartialUpdate(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, transferContract)

	first, err := EncodeData(ctx, c, map[string]interface{}{"owner": "0:" + zerosHex(62) + "01"}, nil)
	require.NoError(t, err)

	second, err := EncodeData(ctx, c, map[string]interface{}{}, first)
	require.NoError(t, err)

	out, err := DecodeData(ctx, c, second)
	require.NoError(t, err)
	assert.Equal(t, "0:"+zerosHex(62)+"01", out["owner"], "omitted field falls back to the existing value")
}

func TestDecodeUnknownFunctionResolvesCall(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, transferContract)
	fn := c.FunctionByName("transfer")

	body, err := EncodeInput(ctx, c, fn, HeaderValues{}, map[string]interface{}{
		"to": "0:" + zerosHex(62) + "01", "amount": "5",
	}, signer.None(), nil)
	require.NoError(t, err)

	name, args, err := DecodeUnknownFunction(ctx, c, body)
	require.NoError(t, err)
	assert.Equal(t, "transfer", name)
	assert.Equal(t, "5", args["amount"])
}

// DecodeUnknownFunction must also resolve a response body carrying the
// high-bit response form of a function's ID.
func TestDecodeUnknownFunctionResolvesResponse(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, destBoundContract)
	fn := c.FunctionByName("ping")
	fixed := c.Version.UsesFixedLayout()

	respID, err := funcid.FunctionResponseID(ctx, fn, c.Version)
	require.NoError(t, err)

	outTypes, err := paramTypes(ctx, fn.Outputs)
	require.NoError(t, err)
	types := append([]*abitype.Type{uint32Type}, outTypes...)
	toks := []*token.Token{uintToken(uint32Type, uint64(respID)), uintToken(outTypes[0], 99)}

	unsigned, err := layout.EncodeSequenceReserved(ctx, fixed, 1, types, toks)
	require.NoError(t, err)
	body, err := spliceFlagAndMaybeSignature(ctx, false, [64]byte{}, unsigned, 1)
	require.NoError(t, err)

	name, args, err := DecodeUnknownFunction(ctx, c, body)
	require.NoError(t, err)
	assert.Equal(t, "ping", name)
	assert.Equal(t, "99", args["pong"])
}

func TestFunctionAndEventStringDescribeSignature(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, transferContract)
	fn := c.FunctionByName("transfer")
	ev := c.EventByName("Transferred")

	assert.Equal(t, "transfer(address,uint128)(bool)v2", FunctionString(ctx, fn, c.Version))
	assert.Equal(t, "Transferred(uint128)v2", EventString(ctx, ev, c.Version))
}

func TestDecodeUnknownFunctionRejectsUnknownID(t *testing.T) {
	ctx := context.Background()
	c := loadContract(t, destBoundContract)
	fixed := c.Version.UsesFixedLayout()

	types := []*abitype.Type{uint32Type}
	toks := []*token.Token{uintToken(uint32Type, 0xFFFFFFFF)}
	unsigned, err := layout.EncodeSequenceReserved(ctx, fixed, 1, types, toks)
	require.NoError(t, err)
	body, err := spliceFlagAndMaybeSignature(ctx, false, [64]byte{}, unsigned, 1)
	require.NoError(t, err)

	_, _, err = DecodeUnknownFunction(ctx, c, body)
	assert.Error(t, err)
}
