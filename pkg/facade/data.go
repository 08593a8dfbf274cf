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

	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/cell"
	"github.com/latticebound/tvmabi/pkg/contract"
	"github.com/latticebound/tvmabi/pkg/layout"
	"github.com/latticebound/tvmabi/pkg/token"
)

// dataTypes returns the interleaved (key, value) type list for c.Data, in
// document order - the same shape on both the encode and decode side.
func dataTypes(ctx context.Context, c *contract.Contract) ([]*abitype.Type, error) {
	types := make([]*abitype.Type, 0, 2*len(c.Data))
	for _, item := range c.Data {
		t, err := item.Param.Type(ctx)
		if err != nil {
			return nil, err
		}
		types = append(types, uint64Type, t)
	}
	return types, nil
}

// EncodeData serializes the data[] section (spec.md §4.7 point 4, §6.2): a
// key:u64 -> value Hashmap, implemented (like pkg/layout's array and map
// dictionaries) as a sequential chain rather than a compressed trie. A
// value omitted from values falls back to existing's current value, if
// supplied, and otherwise to the type's zero value.
func EncodeData(ctx context.Context, c *contract.Contract, values map[string]interface{}, existing *cell.Cell) (*cell.Cell, error) {
	fixed := c.Version.UsesFixedLayout()

	var base map[string]interface{}
	if existing != nil {
		var err error
		base, err = DecodeData(ctx, c, existing)
		if err != nil {
			return nil, err
		}
	}

	types := make([]*abitype.Type, 0, 2*len(c.Data))
	toks := make([]*token.Token, 0, 2*len(c.Data))
	for _, item := range c.Data {
		t, err := item.Param.Type(ctx)
		if err != nil {
			return nil, err
		}
		var tok *token.Token
		if v, ok := values[item.Param.Name]; ok {
			tok, err = token.Tokenize(ctx, t, v, item.Param.Name)
			if err != nil {
				return nil, err
			}
		} else if v, ok := base[item.Param.Name]; ok {
			tok, err = token.Tokenize(ctx, t, v, item.Param.Name)
			if err != nil {
				return nil, err
			}
		} else {
			tok = zeroToken(t)
		}
		types = append(types, uint64Type, t)
		toks = append(toks, uintToken(uint64Type, item.Key), tok)
	}
	return layout.EncodeSequence(ctx, fixed, types, toks)
}

// DecodeData reverses EncodeData.
func DecodeData(ctx context.Context, c *contract.Contract, data *cell.Cell) (map[string]interface{}, error) {
	fixed := c.Version.UsesFixedLayout()
	types, err := dataTypes(ctx, c)
	if err != nil {
		return nil, err
	}
	res, err := layout.DecodeSequence(ctx, fixed, data, types)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(c.Data))
	for i, item := range c.Data {
		out[item.Param.Name] = token.Detokenize(res.Tokens[2*i+1])
	}
	return out, nil
}

// DecodeFields walks the fields[] storage layout (spec.md §4.7 point 5, ABI
// >= 2.1): a packed tuple with no dictionary, using the same serializer a
// function's argument list would under ABI >= 2.2.
func DecodeFields(ctx context.Context, c *contract.Contract, data *cell.Cell) (map[string]interface{}, error) {
	fixed := c.Version.UsesFixedLayout()
	types, err := paramTypes(ctx, c.Fields)
	if err != nil {
		return nil, err
	}
	res, err := layout.DecodeSequence(ctx, fixed, data, types)
	if err != nil {
		return nil, err
	}
	return detokenizeParams(c.Fields, res.Tokens), nil
}
