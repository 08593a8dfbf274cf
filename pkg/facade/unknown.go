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

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/cell"
	"github.com/latticebound/tvmabi/pkg/contract"
	"github.com/latticebound/tvmabi/pkg/funcid"
	"github.com/latticebound/tvmabi/pkg/layout"
)

// DecodeUnknownFunction reads the header and 32-bit function ID out of body
// without knowing fn in advance, resolves it against c (trying both the
// call and response ID forms of each candidate), and decodes the resolved
// function's inputs (for a call) or outputs (for a response) from the
// remaining cursor position (spec.md §4.7 point 6).
func DecodeUnknownFunction(ctx context.Context, c *contract.Contract, body *cell.Cell) (name string, args map[string]interface{}, err error) {
	fixed := c.Version.UsesFixedLayout()

	skip, sig, err := readBodyPrefix(ctx, body)
	if err != nil {
		return "", nil, err
	}
	tail, err := cellTail(ctx, body, skip)
	if err != nil {
		return "", nil, err
	}
	reserveBits := decodeReserveBits(sig != nil, c.Version)

	headerTypes, err := buildHeaderTypes(ctx, c)
	if err != nil {
		return "", nil, err
	}

	cur := layout.NewCursorReserved(tail, reserveBits)
	prefixToks, err := cur.Decode(ctx, fixed, append(append([]*abitype.Type{}, headerTypes...), uint32Type))
	if err != nil {
		return "", nil, err
	}
	id := uint32(prefixToks[len(headerTypes)].Int.Uint64())

	fn, isResponse, err := c.FunctionByID(id, func(f *contract.Function) (uint32, uint32, error) {
		callID, err := funcid.FunctionCallID(ctx, f, c.Version)
		if err != nil {
			return 0, 0, err
		}
		respID, err := funcid.FunctionResponseID(ctx, f, c.Version)
		if err != nil {
			return 0, 0, err
		}
		return callID, respID, nil
	})
	if err != nil {
		return "", nil, err
	}
	if fn == nil {
		return "", nil, i18n.NewError(ctx, abimsgs.MsgUnknownFunctionID, id)
	}

	params := fn.Inputs
	if isResponse {
		params = fn.Outputs
	}
	argTypes, err := paramTypes(ctx, params)
	if err != nil {
		return "", nil, err
	}
	argToks, err := cur.Decode(ctx, fixed, argTypes)
	if err != nil {
		return "", nil, err
	}
	return fn.Name, detokenizeParams(params, argToks), nil
}
