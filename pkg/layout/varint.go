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

import "math/big"

// varLenBits is the width of the length prefix for varuint16/varint16 (4,
// since 15 bytes needs 4 bits to count) versus varuint32/varint32 (5).
func varLenBits(varN int) int {
	if varN == 16 {
		return 4
	}
	return 5
}

// minUnsignedBytes is the fewest bytes needed to hold v as an unsigned
// big-endian integer (0 for v == 0).
func minUnsignedBytes(v *big.Int) int {
	if v.Sign() == 0 {
		return 0
	}
	return (v.BitLen() + 7) / 8
}

// minSignedBytes is the fewest bytes needed to hold v as a two's-complement
// big-endian integer (0 for v == 0), i.e. the smallest n such that v fits in
// the signed range [-(1<<(8n-1)), 1<<(8n-1)-1].
func minSignedBytes(v *big.Int) int {
	if v.Sign() == 0 {
		return 0
	}
	if v.Sign() > 0 {
		return (v.BitLen() + 1 + 7) / 8
	}
	for n := 1; ; n++ {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(8*n-1))
		if v.Cmp(new(big.Int).Neg(limit)) >= 0 {
			return n
		}
	}
}
