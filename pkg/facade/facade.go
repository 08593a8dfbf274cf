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

// Package facade assembles pkg/contract, pkg/token, pkg/funcid, pkg/layout
// and pkg/signer into the public, JSON-facing message operations of
// spec.md §4.7: encoding/decoding function calls, events, persisted
// contract data and storage fields, plus the §4.8 signing dance. Grounded
// on the public Entry methods (EncodeCallDataCtx / DecodeABIInputsCtx) in
// pkg/abi/abi.go, generalized from a single fixed EVM dialect to the
// version-gated behavior pkg/contract.Version exposes.
package facade

import (
	"context"
	"math/big"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/cell"
	"github.com/latticebound/tvmabi/pkg/contract"
	"github.com/latticebound/tvmabi/pkg/token"
)

// HeaderValues is the Go-facing form of a message's header[] values
// (spec.md §6.1): the three recognized keyword fields plus any
// contract-declared custom header parameters.
type HeaderValues struct {
	Time   *uint64
	Expire *uint32
	PubKey *[32]byte
	Custom map[string]interface{}
}

var (
	uint32Type  = &abitype.Type{Kind: abitype.KindUint, Bits: 32}
	uint64Type  = &abitype.Type{Kind: abitype.KindUint, Bits: 64}
	pubKeyElem  = &abitype.Type{Kind: abitype.KindFixedBytes, Bits: 256}
	pubKeyType  = &abitype.Type{Kind: abitype.KindOptional, Elem: pubKeyElem}
	addressType = &abitype.Type{Kind: abitype.KindAddress}
)

func uintToken(t *abitype.Type, v uint64) *token.Token {
	return &token.Token{Type: t, Int: new(big.Int).SetUint64(v)}
}

// buildHeaderTypes returns the flat type list for c.Header, in document
// order - shared by both encode (paired with buildHeaderToks) and decode
// (where only the shape, not the values, is needed up front).
func buildHeaderTypes(ctx context.Context, c *contract.Contract) ([]*abitype.Type, error) {
	types := make([]*abitype.Type, 0, len(c.Header))
	for _, hi := range c.Header {
		switch hi.Kind {
		case contract.HeaderTime:
			types = append(types, uint64Type)
		case contract.HeaderExpire:
			types = append(types, uint32Type)
		case contract.HeaderPubKey:
			types = append(types, pubKeyType)
		case contract.HeaderCustom:
			t, err := hi.Param.Type(ctx)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
	}
	return types, nil
}

// buildHeaderToks tokenizes hv against c.Header, substituting the zero
// value of the declared type for any field the caller left unset.
func buildHeaderToks(ctx context.Context, c *contract.Contract, hv HeaderValues) ([]*token.Token, error) {
	toks := make([]*token.Token, 0, len(c.Header))
	for _, hi := range c.Header {
		switch hi.Kind {
		case contract.HeaderTime:
			var t uint64
			if hv.Time != nil {
				t = *hv.Time
			}
			toks = append(toks, uintToken(uint64Type, t))
		case contract.HeaderExpire:
			var e uint32
			if hv.Expire != nil {
				e = *hv.Expire
			}
			toks = append(toks, uintToken(uint32Type, uint64(e)))
		case contract.HeaderPubKey:
			tok := &token.Token{Type: pubKeyType}
			if hv.PubKey != nil {
				tok.OptionalSet = true
				tok.OptionalValue = &token.Token{Type: pubKeyElem, Bytes: hv.PubKey[:]}
			}
			toks = append(toks, tok)
		case contract.HeaderCustom:
			t, err := hi.Param.Type(ctx)
			if err != nil {
				return nil, err
			}
			if v, ok := hv.Custom[hi.Param.Name]; ok {
				tok, err := token.Tokenize(ctx, t, v, hi.Param.Name)
				if err != nil {
					return nil, err
				}
				toks = append(toks, tok)
			} else {
				toks = append(toks, zeroToken(t))
			}
		}
	}
	return toks, nil
}

// parseHeaderTokens reverses buildHeaderToks, given the decoded token list
// aligned one-for-one with buildHeaderTypes's output.
func parseHeaderTokens(c *contract.Contract, toks []*token.Token) HeaderValues {
	hv := HeaderValues{Custom: map[string]interface{}{}}
	for i, hi := range c.Header {
		switch hi.Kind {
		case contract.HeaderTime:
			t := toks[i].Int.Uint64()
			hv.Time = &t
		case contract.HeaderExpire:
			e := uint32(toks[i].Int.Uint64())
			hv.Expire = &e
		case contract.HeaderPubKey:
			if toks[i].OptionalSet {
				var pk [32]byte
				copy(pk[:], toks[i].OptionalValue.Bytes)
				hv.PubKey = &pk
			}
		case contract.HeaderCustom:
			hv.Custom[hi.Param.Name] = token.Detokenize(toks[i])
		}
	}
	return hv
}

// tokenizeParams tokenizes args against params in order, requiring every
// parameter to be present and rejecting any arg that names no parameter
// (spec.md §7 "tokenization rejects extra fields unconditionally" - the
// symmetric case, a missing required field, is an equally unconditional
// MissingField).
func tokenizeParams(ctx context.Context, params []*contract.Param, args map[string]interface{}) ([]*abitype.Type, []*token.Token, error) {
	for name := range args {
		known := false
		for _, p := range params {
			if p.Name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, nil, i18n.NewError(ctx, abimsgs.MsgUnknownField, name, "args")
		}
	}
	types := make([]*abitype.Type, len(params))
	toks := make([]*token.Token, len(params))
	for i, p := range params {
		t, err := p.Type(ctx)
		if err != nil {
			return nil, nil, err
		}
		v, ok := args[p.Name]
		if !ok {
			return nil, nil, i18n.NewError(ctx, abimsgs.MsgMissingField, p.Name, "args")
		}
		tok, err := token.Tokenize(ctx, t, v, p.Name)
		if err != nil {
			return nil, nil, err
		}
		types[i] = t
		toks[i] = tok
	}
	return types, toks, nil
}

func paramTypes(ctx context.Context, params []*contract.Param) ([]*abitype.Type, error) {
	types := make([]*abitype.Type, len(params))
	for i, p := range params {
		t, err := p.Type(ctx)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

func detokenizeParams(params []*contract.Param, toks []*token.Token) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for i, p := range params {
		out[p.Name] = token.Detokenize(toks[i])
	}
	return out
}

// zeroToken is the type default used when a value is omitted from an args
// or data map rather than being an error (spec.md §8 "missing keys decode
// to type defaults").
func zeroToken(t *abitype.Type) *token.Token {
	switch t.Kind {
	case abitype.KindUint, abitype.KindInt, abitype.KindVarUint, abitype.KindVarInt:
		return &token.Token{Type: t, Int: big.NewInt(0)}
	case abitype.KindBool:
		return &token.Token{Type: t}
	case abitype.KindAddress:
		return &token.Token{Type: t, Address: token.Address{Kind: token.AddrNone}}
	case abitype.KindBytes, abitype.KindString:
		return &token.Token{Type: t}
	case abitype.KindFixedBytes:
		return &token.Token{Type: t, Bytes: make([]byte, t.Bits/8)}
	case abitype.KindCell:
		return &token.Token{Type: t, CellValue: cell.NewBuilder().Build()}
	case abitype.KindTuple:
		fields := make([]*token.Token, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = zeroToken(f.Type)
		}
		return &token.Token{Type: t, Tuple: fields}
	case abitype.KindFixedArray:
		elems := make([]*token.Token, t.ArrayLen)
		for i := range elems {
			elems[i] = zeroToken(t.Elem)
		}
		return &token.Token{Type: t, Array: elems}
	case abitype.KindArray:
		return &token.Token{Type: t, Array: []*token.Token{}}
	case abitype.KindMap:
		return &token.Token{Type: t}
	case abitype.KindOptional:
		return &token.Token{Type: t}
	case abitype.KindRef:
		return &token.Token{Type: t, RefValue: zeroToken(t.Elem)}
	default:
		return &token.Token{Type: t}
	}
}

// spliceCell rebuilds a cell as prefix's bits and refs followed by tail's
// bits from skipBits onward and tail's refs - the mechanism behind both the
// destination-address preimage staging and the final signature splice of
// spec.md §4.8, built purely from the public Cell/Builder accessors so no
// change to pkg/cell is needed.
func spliceCell(ctx context.Context, prefix, tail *cell.Cell, skipBits int) (*cell.Cell, error) {
	b := cell.NewBuilder()
	for i := 0; i < prefix.BitLen(); i++ {
		if err := b.WriteBit(ctx, prefix.Bit(i) == 1); err != nil {
			return nil, err
		}
	}
	for i := skipBits; i < tail.BitLen(); i++ {
		if err := b.WriteBit(ctx, tail.Bit(i) == 1); err != nil {
			return nil, err
		}
	}
	for _, r := range prefix.Refs() {
		if err := b.AddRef(ctx, r); err != nil {
			return nil, err
		}
	}
	for _, r := range tail.Refs() {
		if err := b.AddRef(ctx, r); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func cellTail(ctx context.Context, c *cell.Cell, skipBits int) (*cell.Cell, error) {
	return spliceCell(ctx, cell.NewBuilder().Build(), c, skipBits)
}
