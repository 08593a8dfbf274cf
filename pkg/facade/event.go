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
	"github.com/latticebound/tvmabi/pkg/token"
)

// EncodeEvent builds the on-wire body of an emitted event (spec.md §4.7
// point 3): the event's ID followed by its tokenized fields. Events carry
// no header and are never signed.
func EncodeEvent(ctx context.Context, c *contract.Contract, ev *contract.Event, args map[string]interface{}) (*cell.Cell, error) {
	fixed := c.Version.UsesFixedLayout()
	id, err := funcid.EventID(ctx, ev, c.Version)
	if err != nil {
		return nil, err
	}
	argTypes, argToks, err := tokenizeParams(ctx, ev.Inputs, args)
	if err != nil {
		return nil, err
	}
	types := append([]*abitype.Type{uint32Type}, argTypes...)
	toks := append([]*token.Token{uintToken(uint32Type, uint64(id))}, argToks...)
	return layout.EncodeSequence(ctx, fixed, types, toks)
}

// DecodeEvent reverses EncodeEvent, verifying the decoded ID matches ev.
func DecodeEvent(ctx context.Context, c *contract.Contract, ev *contract.Event, body *cell.Cell) (map[string]interface{}, error) {
	fixed := c.Version.UsesFixedLayout()
	argTypes, err := paramTypes(ctx, ev.Inputs)
	if err != nil {
		return nil, err
	}
	types := append([]*abitype.Type{uint32Type}, argTypes...)
	res, err := layout.DecodeSequence(ctx, fixed, body, types)
	if err != nil {
		return nil, err
	}
	gotID := uint32(res.Tokens[0].Int.Uint64())
	wantID, err := funcid.EventID(ctx, ev, c.Version)
	if err != nil {
		return nil, err
	}
	if gotID != wantID {
		return nil, i18n.NewError(ctx, abimsgs.MsgWrongID, wantID, gotID)
	}
	return detokenizeParams(ev.Inputs, res.Tokens[1:]), nil
}
