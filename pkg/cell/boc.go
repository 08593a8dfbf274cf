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
	"encoding/base64"
	"encoding/binary"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
)

// ToBoC serializes the cell tree rooted at c to a "bag of cells" byte
// stream. As with RepresentationHash, this is a simplified, internally
// consistent stand-in for the real on-chain BoC format (out of scope per
// spec.md §1): each cell is written as (bitLen uint16, packed bits,
// refCount byte, each ref recursively).
func (c *Cell) ToBoC() []byte {
	var out []byte
	out = appendCell(out, c)
	return out
}

func appendCell(out []byte, c *Cell) []byte {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(c.bitLen))
	out = append(out, lenBuf[:]...)
	out = append(out, c.bits...)
	out = append(out, byte(len(c.refs)))
	for _, r := range c.refs {
		out = appendCell(out, r)
	}
	return out
}

// ToBase64BoC is a convenience wrapper producing the base64 form used for
// the JSON "cell" token type (spec.md §4.3).
func (c *Cell) ToBase64BoC() string {
	return base64.StdEncoding.EncodeToString(c.ToBoC())
}

// FromBoC parses a byte stream previously produced by ToBoC.
func FromBoC(ctx context.Context, data []byte) (*Cell, error) {
	c, rest, err := parseCell(ctx, data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, i18n.NewError(ctx, abimsgs.MsgInvalidBagOfCells, "trailing data")
	}
	return c, nil
}

// FromBase64BoC parses the base64 form used for the JSON "cell" token type.
func FromBase64BoC(ctx context.Context, s string) (*Cell, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, abimsgs.MsgInvalidBagOfCells, "invalid base64")
	}
	return FromBoC(ctx, data)
}

func parseCell(ctx context.Context, data []byte) (*Cell, []byte, error) {
	if len(data) < 2 {
		return nil, nil, i18n.NewError(ctx, abimsgs.MsgInvalidBagOfCells, "truncated cell header")
	}
	bitLen := int(binary.BigEndian.Uint16(data[0:2]))
	data = data[2:]
	numBytes := (bitLen + 7) / 8
	if len(data) < numBytes+1 {
		return nil, nil, i18n.NewError(ctx, abimsgs.MsgInvalidBagOfCells, "truncated cell body")
	}
	bits := make([]byte, numBytes)
	copy(bits, data[0:numBytes])
	data = data[numBytes:]
	refCount := int(data[0])
	data = data[1:]
	if refCount > MaxRefs {
		return nil, nil, i18n.NewError(ctx, abimsgs.MsgInvalidBagOfCells, "too many refs")
	}
	refs := make([]*Cell, refCount)
	for i := 0; i < refCount; i++ {
		var err error
		refs[i], data, err = parseCell(ctx, data)
		if err != nil {
			return nil, nil, err
		}
	}
	return &Cell{bits: bits, bitLen: bitLen, refs: refs}, data, nil
}
