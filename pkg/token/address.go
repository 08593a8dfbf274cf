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
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
)

// AddressKind discriminates the four TL-B address variants (spec.md §3).
type AddressKind int

const (
	AddrNone AddressKind = iota
	AddrExtern
	AddrStd
	AddrVar
)

// Address is the parsed form of a TVM address, general enough to cover all
// four TL-B variants (addr_none$00, addr_extern$01, addr_std$10,
// addr_var$11), including the optional anycast rewrite prefix carried by
// addr_std and addr_var.
type Address struct {
	Kind AddressKind

	// AnycastDepth is the rewrite_pfx length in bits, 0 if no anycast.
	AnycastDepth  uint8
	AnycastPrefix []byte // ceil(AnycastDepth/8) bytes, MSB-first, high bits significant

	Workchain int32 // addr_std (int8 range) / addr_var (int32 range)

	// AddrBits is the address payload: 256 fixed bits for addr_std,
	// AddrBitLen bits (9-bit length-prefixed) for addr_var, and the external
	// address payload for addr_extern.
	AddrBits    []byte
	AddrBitLen  int
}

// ParseAddress parses the textual forms accepted by the tokenizer
// (spec.md §4.3): "" for addr_none, ":hex" for addr_extern, "wid:hex" (64
// hex digits) for addr_std, and "prefix:wid:hex" for an anycast-rewritten
// address of either std or var shape.
func ParseAddress(ctx context.Context, s, path string) (Address, error) {
	if s == "" {
		return Address{Kind: AddrNone}, nil
	}
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		if parts[0] == "" {
			// ":hex" - addr_extern
			b, err := decodeHex(ctx, parts[1], path)
			if err != nil {
				return Address{}, err
			}
			return Address{Kind: AddrExtern, AddrBits: b, AddrBitLen: len(b) * 8}, nil
		}
		wid, err := strconv.ParseInt(parts[0], 10, 32)
		if err != nil {
			return Address{}, i18n.NewError(ctx, abimsgs.MsgInvalidAddress, s, path)
		}
		b, err := decodeHex(ctx, parts[1], path)
		if err != nil {
			return Address{}, err
		}
		if len(b) != 32 {
			return Address{}, i18n.NewError(ctx, abimsgs.MsgLengthMismatch, 32, len(b), path)
		}
		return Address{Kind: AddrStd, Workchain: int32(wid), AddrBits: b, AddrBitLen: 256}, nil
	case 3:
		// "prefix:wid:hex" - anycast
		prefix, err := decodeHex(ctx, parts[0], path)
		if err != nil {
			return Address{}, err
		}
		wid, err := strconv.ParseInt(parts[1], 10, 32)
		if err != nil {
			return Address{}, i18n.NewError(ctx, abimsgs.MsgInvalidAddress, s, path)
		}
		b, err := decodeHex(ctx, parts[2], path)
		if err != nil {
			return Address{}, err
		}
		kind := AddrStd
		if len(b) != 32 || wid < -128 || wid > 127 {
			kind = AddrVar
		}
		return Address{
			Kind:          kind,
			AnycastDepth:  uint8(len(prefix) * 8),
			AnycastPrefix: prefix,
			Workchain:     int32(wid),
			AddrBits:      b,
			AddrBitLen:    len(b) * 8,
		}, nil
	default:
		return Address{}, i18n.NewError(ctx, abimsgs.MsgInvalidAddress, s, path)
	}
}

// String renders the canonical textual form of the address (spec.md §4.3
// "emitters produce the canonical form").
func (a Address) String() string {
	switch a.Kind {
	case AddrNone:
		return ""
	case AddrExtern:
		return ":" + hex.EncodeToString(a.AddrBits)
	default:
		body := fmt.Sprintf("%d:%s", a.Workchain, hex.EncodeToString(a.AddrBits))
		if a.AnycastDepth > 0 {
			return hex.EncodeToString(a.AnycastPrefix) + ":" + body
		}
		return body
	}
}

func decodeHex(ctx context.Context, s, path string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, abimsgs.MsgInvalidHex, s, path)
	}
	return b, nil
}
