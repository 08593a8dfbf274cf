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

package layout

import (
	"context"
	"math/big"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
	"github.com/latticebound/tvmabi/pkg/cell"
	"github.com/latticebound/tvmabi/pkg/token"
)

// writeAddress encodes a into b following the TL-B shapes addr_none$00,
// addr_extern$01, addr_std$10 and addr_var$11 (spec.md §4.8), writing each
// variant's natural (not maximum) width.
func writeAddress(ctx context.Context, b *cell.Builder, a token.Address) error {
	switch a.Kind {
	case token.AddrNone:
		return b.WriteUint(ctx, 0b00, 2)
	case token.AddrExtern:
		if err := b.WriteUint(ctx, 0b01, 2); err != nil {
			return err
		}
		if err := b.WriteUint(ctx, uint64(a.AddrBitLen), 9); err != nil {
			return err
		}
		return b.WriteBigUint(ctx, new(big.Int).SetBytes(a.AddrBits), a.AddrBitLen)
	case token.AddrStd:
		if err := b.WriteUint(ctx, 0b10, 2); err != nil {
			return err
		}
		if err := writeAnycast(ctx, b, a); err != nil {
			return err
		}
		if err := b.WriteBigInt(ctx, big.NewInt(int64(a.Workchain)), 8); err != nil {
			return err
		}
		return b.WriteBigUint(ctx, new(big.Int).SetBytes(a.AddrBits), 256)
	case token.AddrVar:
		if err := b.WriteUint(ctx, 0b11, 2); err != nil {
			return err
		}
		if err := writeAnycast(ctx, b, a); err != nil {
			return err
		}
		if err := b.WriteUint(ctx, uint64(a.AddrBitLen), 9); err != nil {
			return err
		}
		if err := b.WriteBigInt(ctx, big.NewInt(int64(a.Workchain)), 32); err != nil {
			return err
		}
		return b.WriteBigUint(ctx, new(big.Int).SetBytes(a.AddrBits), a.AddrBitLen)
	default:
		return i18n.NewError(ctx, abimsgs.MsgInvalidAddress, a.Kind, "address")
	}
}

func writeAnycast(ctx context.Context, b *cell.Builder, a token.Address) error {
	if a.AnycastDepth == 0 {
		return b.WriteBit(ctx, false)
	}
	if err := b.WriteBit(ctx, true); err != nil {
		return err
	}
	if err := b.WriteUint(ctx, uint64(a.AnycastDepth), 5); err != nil {
		return err
	}
	return b.WriteBigUint(ctx, new(big.Int).SetBytes(a.AnycastPrefix), int(a.AnycastDepth))
}

// readAddress mirrors writeAddress.
func readAddress(ctx context.Context, s *cell.Slice) (token.Address, error) {
	tag, err := s.ReadUint(ctx, 2)
	if err != nil {
		return token.Address{}, err
	}
	switch tag {
	case 0b00:
		return token.Address{Kind: token.AddrNone}, nil
	case 0b01:
		n, err := s.ReadUint(ctx, 9)
		if err != nil {
			return token.Address{}, err
		}
		v, err := s.ReadBigUint(ctx, int(n))
		if err != nil {
			return token.Address{}, err
		}
		return token.Address{Kind: token.AddrExtern, AddrBits: bigToBytes(v, int(n)), AddrBitLen: int(n)}, nil
	case 0b10:
		depth, prefix, err := readAnycast(ctx, s)
		if err != nil {
			return token.Address{}, err
		}
		wc, err := s.ReadBigInt(ctx, 8)
		if err != nil {
			return token.Address{}, err
		}
		v, err := s.ReadBigUint(ctx, 256)
		if err != nil {
			return token.Address{}, err
		}
		return token.Address{
			Kind: token.AddrStd, AnycastDepth: depth, AnycastPrefix: prefix,
			Workchain: int32(wc.Int64()), AddrBits: bigToBytes(v, 256), AddrBitLen: 256,
		}, nil
	case 0b11:
		depth, prefix, err := readAnycast(ctx, s)
		if err != nil {
			return token.Address{}, err
		}
		n, err := s.ReadUint(ctx, 9)
		if err != nil {
			return token.Address{}, err
		}
		wc, err := s.ReadBigInt(ctx, 32)
		if err != nil {
			return token.Address{}, err
		}
		v, err := s.ReadBigUint(ctx, int(n))
		if err != nil {
			return token.Address{}, err
		}
		return token.Address{
			Kind: token.AddrVar, AnycastDepth: depth, AnycastPrefix: prefix,
			Workchain: int32(wc.Int64()), AddrBits: bigToBytes(v, int(n)), AddrBitLen: int(n),
		}, nil
	default:
		return token.Address{}, i18n.NewError(ctx, abimsgs.MsgInvalidAddress, tag, "address")
	}
}

func readAnycast(ctx context.Context, s *cell.Slice) (depth uint8, prefix []byte, err error) {
	has, err := s.ReadBit(ctx)
	if err != nil {
		return 0, nil, err
	}
	if !has {
		return 0, nil, nil
	}
	d, err := s.ReadUint(ctx, 5)
	if err != nil {
		return 0, nil, err
	}
	v, err := s.ReadBigUint(ctx, int(d))
	if err != nil {
		return 0, nil, err
	}
	return uint8(d), bigToBytes(v, int(d)), nil
}

func bigToBytes(v *big.Int, bitLen int) []byte {
	out := make([]byte, (bitLen+7)/8)
	b := v.Bytes()
	copy(out[len(out)-len(b):], b)
	return out
}
