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
	"math/big"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
)

// Builder accumulates data bits and references for a single cell, enforcing
// the MaxBits/MaxRefs capacity as it goes.
type Builder struct {
	bits   []byte
	bitLen int
	refs   []*Cell
}

// NewBuilder returns an empty cell builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BitsUsed returns the number of data bits written so far.
func (b *Builder) BitsUsed() int { return b.bitLen }

// RefsUsed returns the number of references added so far.
func (b *Builder) RefsUsed() int { return len(b.refs) }

// RemainingBits returns how many more data bits can be written.
func (b *Builder) RemainingBits() int { return MaxBits - b.bitLen }

// RemainingRefs returns how many more references can be added.
func (b *Builder) RemainingRefs() int { return MaxRefs - len(b.refs) }

// WriteBit appends a single bit.
func (b *Builder) WriteBit(ctx context.Context, bit bool) error {
	if b.bitLen >= MaxBits {
		return i18n.NewError(ctx, abimsgs.MsgCellBitOverflow, b.bitLen, 1, MaxBits)
	}
	byteIdx := b.bitLen / 8
	for len(b.bits) <= byteIdx {
		b.bits = append(b.bits, 0)
	}
	if bit {
		b.bits[byteIdx] |= 1 << uint(7-b.bitLen%8)
	}
	b.bitLen++
	return nil
}

// WriteUint writes the low `width` bits of v, MSB-first.
func (b *Builder) WriteUint(ctx context.Context, v uint64, width int) error {
	return b.WriteBigUint(ctx, new(big.Int).SetUint64(v), width)
}

// WriteBigUint writes v as an unsigned big-endian bitfield of exactly `width` bits.
// v must be non-negative and fit in width bits; callers are expected to have
// range-checked already (the fixed-layout planner reserves width before calling).
func (b *Builder) WriteBigUint(ctx context.Context, v *big.Int, width int) error {
	if width == 0 {
		return nil
	}
	if b.bitLen+width > MaxBits {
		return i18n.NewError(ctx, abimsgs.MsgCellBitOverflow, b.bitLen, width, MaxBits)
	}
	for i := width - 1; i >= 0; i-- {
		if v.Bit(i) == 1 {
			if err := b.WriteBit(ctx, true); err != nil {
				return err
			}
		} else {
			if err := b.WriteBit(ctx, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteBigInt writes v as a two's-complement big-endian bitfield of exactly `width` bits.
func (b *Builder) WriteBigInt(ctx context.Context, v *big.Int, width int) error {
	if v.Sign() >= 0 {
		return b.WriteBigUint(ctx, v, width)
	}
	// two's complement: (1<<width) + v
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	tc := new(big.Int).Add(mod, v)
	return b.WriteBigUint(ctx, tc, width)
}

// WriteBytes appends whole bytes (8*len(data) bits).
func (b *Builder) WriteBytes(ctx context.Context, data []byte) error {
	if b.bitLen+8*len(data) > MaxBits {
		return i18n.NewError(ctx, abimsgs.MsgCellBitOverflow, b.bitLen, 8*len(data), MaxBits)
	}
	for _, by := range data {
		if err := b.WriteUint(ctx, uint64(by), 8); err != nil {
			return err
		}
	}
	return nil
}

// AddRef appends a reference to a child cell.
func (b *Builder) AddRef(ctx context.Context, c *Cell) error {
	if len(b.refs) >= MaxRefs {
		return i18n.NewError(ctx, abimsgs.MsgCellRefOverflow, len(b.refs), 1, MaxRefs)
	}
	b.refs = append(b.refs, c)
	return nil
}

// Build finalizes the builder into an immutable Cell. The builder remains
// usable afterwards (it is not consumed), matching rlp.List's value-
// semantics rather than a destructive "take" API.
func (b *Builder) Build() *Cell {
	bits := make([]byte, len(b.bits))
	copy(bits, b.bits)
	refs := make([]*Cell, len(b.refs))
	copy(refs, b.refs)
	return &Cell{bits: bits, bitLen: b.bitLen, refs: refs}
}
