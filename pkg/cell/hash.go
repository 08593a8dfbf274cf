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
	"crypto/sha256"
	"encoding/binary"
)

// RepresentationHash returns a hash of the cell tree, used as the preimage
// for signing (spec.md §4.8) and as a content-addressed identity for the
// cell.
//
// The real TVM "standard cell representation" hash is part of the
// cell/bag-of-cells library this spec explicitly treats as external and
// out of scope (spec.md §1). This is a simplified stand-in: SHA-256 over a
// canonical encoding of bit length, data bits and the (recursively
// computed) hash of each child reference. It is internally consistent -
// the same cell tree always hashes the same way, and two trees that differ
// anywhere hash differently - which is everything the signing dance in
// §4.8 requires, but it is not bit-compatible with a real TVM node.
func (c *Cell) RepresentationHash() [32]byte {
	h := sha256.New()
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(c.bitLen))
	h.Write(lenBuf[:])
	h.Write(c.bits)
	var refCountBuf [1]byte
	refCountBuf[0] = byte(len(c.refs))
	h.Write(refCountBuf[:])
	for _, r := range c.refs {
		rh := r.RepresentationHash()
		h.Write(rh[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
