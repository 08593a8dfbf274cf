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

package contract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContract = `{
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
	],
	"fields": [
		{"name": "balance", "type": "uint128", "init": true}
	]
}`

func TestLoadBasicContract(t *testing.T) {
	ctx := context.Background()
	c, err := Load(ctx, []byte(sampleContract), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, V2_2, c.Version)
	require.Len(t, c.Header, 3)
	assert.Equal(t, HeaderTime, c.Header[0].Kind)
	assert.Equal(t, HeaderExpire, c.Header[1].Kind)
	assert.Equal(t, HeaderPubKey, c.Header[2].Kind)

	fn := c.FunctionByName("transfer")
	require.NotNil(t, fn)
	assert.Len(t, fn.Inputs, 2)
	assert.Len(t, fn.Outputs, 1)

	ev := c.EventByName("Transferred")
	require.NotNil(t, ev)

	require.Len(t, c.Data, 1)
	assert.Equal(t, uint64(1), c.Data[0].Key)

	require.Len(t, c.Fields, 1)
	assert.True(t, c.Fields[0].Init)
}

func TestLoadLegacyVersionField(t *testing.T) {
	ctx := context.Background()
	doc := `{"ABI version": 2, "functions": []}`
	c, err := Load(ctx, []byte(doc), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, V2_0, c.Version)
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	ctx := context.Background()
	_, err := Load(ctx, []byte(`{"version": "9.9", "functions": []}`), LoadOptions{})
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateFunctionNames(t *testing.T) {
	ctx := context.Background()
	doc := `{"version": "2.2", "functions": [
		{"name": "f", "inputs": []},
		{"name": "f", "inputs": []}
	]}`
	_, err := Load(ctx, []byte(doc), LoadOptions{})
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateDataKeys(t *testing.T) {
	ctx := context.Background()
	doc := `{"version": "2.2", "functions": [], "data": [
		{"key": "1", "name": "a", "type": "bool"},
		{"key": "1", "name": "b", "type": "bool"}
	]}`
	_, err := Load(ctx, []byte(doc), LoadOptions{})
	assert.Error(t, err)
}

func TestLoadFieldsRequiresVersion21(t *testing.T) {
	ctx := context.Background()
	doc := `{"version": "2.0", "functions": [], "fields": [{"name": "a", "type": "bool"}]}`
	_, err := Load(ctx, []byte(doc), LoadOptions{})
	assert.Error(t, err)
}

func TestLoadInitAttributeRequiresVersion24(t *testing.T) {
	ctx := context.Background()
	doc := `{"version": "2.2", "functions": [
		{"name": "f", "inputs": [{"name": "a", "type": "bool", "init": true}]}
	]}`
	_, err := Load(ctx, []byte(doc), LoadOptions{})
	assert.Error(t, err)
}

func TestLoadSetTimeDefaults(t *testing.T) {
	ctx := context.Background()
	v1, err := Load(ctx, []byte(`{"version": "1.0", "functions": []}`), LoadOptions{})
	require.NoError(t, err)
	assert.False(t, v1.SetTime)

	v2, err := Load(ctx, []byte(`{"version": "2.0", "functions": []}`), LoadOptions{})
	require.NoError(t, err)
	assert.True(t, v2.SetTime)

	explicit, err := Load(ctx, []byte(`{"version": "2.0", "setTime": false, "functions": []}`), LoadOptions{})
	require.NoError(t, err)
	assert.False(t, explicit.SetTime)
}

func TestLoadStrictDeprecationsRejectsFixedBytes(t *testing.T) {
	ctx := context.Background()
	doc := `{"version": "2.4", "functions": [
		{"name": "f", "inputs": [{"name": "a", "type": "fixedbytes16"}]}
	]}`
	_, err := Load(ctx, []byte(doc), LoadOptions{StrictDeprecations: true})
	assert.Error(t, err)

	c, err := Load(ctx, []byte(doc), LoadOptions{StrictDeprecations: false})
	require.NoError(t, err)
	assert.NotNil(t, c.FunctionByName("f"))
}

func TestFunctionByID(t *testing.T) {
	ctx := context.Background()
	c, err := Load(ctx, []byte(sampleContract), LoadOptions{})
	require.NoError(t, err)

	fn := c.FunctionByName("transfer")
	idOf := func(f *Function) (uint32, uint32, error) {
		return 0x11, 0x91, nil
	}

	got, isResp, err := c.FunctionByID(0x11, idOf)
	require.NoError(t, err)
	assert.Same(t, fn, got)
	assert.False(t, isResp)

	got, isResp, err = c.FunctionByID(0x91, idOf)
	require.NoError(t, err)
	assert.Same(t, fn, got)
	assert.True(t, isResp)

	got, _, err = c.FunctionByID(0xFF, idOf)
	require.NoError(t, err)
	assert.Nil(t, got)
}
