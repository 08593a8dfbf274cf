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

// Slice is a read cursor over a Cell's data bits and references.
type Slice struct {
	cell   *Cell
	bitPos int
	refPos int
}

// RemainingBits returns how many unread data bits remain.
func (s *Slice) RemainingBits() int { return s.cell.bitLen - s.bitPos }

// RemainingRefs returns how many unread references remain.
func (s *Slice) RemainingRefs() int { return len(s.cell.refs) - s.refPos }

// ReadBit reads and consumes a single bit.
func (s *Slice) ReadBit(ctx context.Context) (bool, error) {
	if s.RemainingBits() < 1 {
		return false, i18n.NewError(ctx, abimsgs.MsgUnexpectedEOF, "bit", 1, "bits")
	}
	bit := s.cell.Bit(s.bitPos) == 1
	s.bitPos++
	return bit, nil
}

// ReadBigUint reads `width` bits as an unsigned big-endian integer.
func (s *Slice) ReadBigUint(ctx context.Context, width int) (*big.Int, error) {
	if width == 0 {
		return big.NewInt(0), nil
	}
	if s.RemainingBits() < width {
		return nil, i18n.NewError(ctx, abimsgs.MsgUnexpectedEOF, "integer", width-s.RemainingBits(), "bits")
	}
	v := new(big.Int)
	for i := 0; i < width; i++ {
		v.Lsh(v, 1)
		if s.cell.Bit(s.bitPos) == 1 {
			v.SetBit(v, 0, 1)
		}
		s.bitPos++
	}
	return v, nil
}

// ReadUint reads `width` (<=64) bits as a uint64.
func (s *Slice) ReadUint(ctx context.Context, width int) (uint64, error) {
	v, err := s.ReadBigUint(ctx, width)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// ReadBigInt reads `width` bits as a two's-complement signed big-endian integer.
func (s *Slice) ReadBigInt(ctx context.Context, width int) (*big.Int, error) {
	v, err := s.ReadBigUint(ctx, width)
	if err != nil {
		return nil, err
	}
	if v.Bit(width-1) == 0 {
		return v, nil
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return new(big.Int).Sub(v, mod), nil
}

// ReadBytes reads n whole bytes.
func (s *Slice) ReadBytes(ctx context.Context, n int) ([]byte, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		v, err := s.ReadUint(ctx, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

// NextRef consumes and returns the next child reference.
func (s *Slice) NextRef(ctx context.Context) (*Cell, error) {
	if s.RemainingRefs() < 1 {
		return nil, i18n.NewError(ctx, abimsgs.MsgUnexpectedEOF, "reference", 1, "refs")
	}
	c := s.cell.refs[s.refPos]
	s.refPos++
	return c, nil
}
