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

// Package layout implements the fixed-layout serializer/deserializer of
// spec.md §4.5-§4.6 - the heart of the codec - grounded on the builder/
// cursor pair and the head/tail chaining idiom of hyperledger-firefly-
// signer's pkg/rlp, adapted from RLP's byte-oriented list encoding to a
// bit- and reference-budgeted cell chain.
//
// The dictionary structure backing array/map values (spec.md §4.5 "Array
// and map encoding") is, like pkg/cell, a deliberate simplification: real
// TVM Hashmaps are label-compressed Patricia tries, which is squarely the
// cell/BoC library complexity spec.md §1 places out of scope. Here a
// dictionary is a sequential chain built with exactly the same
// budget-reservation algorithm as a parameter list: a map stores each key
// explicitly alongside its value rather than as compressed trie edges, and
// an array stores its elements in index order with no keys at all.
// It is internally consistent (round-trips through Encode/Decode in this
// package) but is not wire-compatible with a real Hashmap.
package layout

import (
	"context"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
	"github.com/latticebound/tvmabi/pkg/cell"
)

// item is one entry of a budget-reserving sequence: a parameter, a tuple
// member after flattening, or a dictionary entry. maxBits/maxRefs are the
// reserved footprint (spec.md §3); write performs the actual, natural-size
// encoding into the supplied builder once capacity has been secured.
type item struct {
	maxBits int
	maxRefs int
	write   func(ctx context.Context, b *cell.Builder) error
}

// chainBuilder is the builder stack of spec.md §4.5: a sequence of cells,
// each linked to the next via its last reference, with the tail "current".
// reservedBits/reservedRefs track the fixed-layout budget already committed
// to cur - the sum of every item's maxBits/maxRefs placed there so far, not
// the builder's actual bit/ref count - so the spill decision depends only
// on the type sequence, never on any item's actual encoded size.
type chainBuilder struct {
	cells        []*cell.Builder
	cur          *cell.Builder
	reservedBits int
	reservedRefs int
}

func newChainBuilder() *chainBuilder {
	b := cell.NewBuilder()
	return &chainBuilder{cells: []*cell.Builder{b}, cur: b}
}

func (cb *chainBuilder) spill() {
	next := cell.NewBuilder()
	cb.cells = append(cb.cells, next)
	cb.cur = next
	cb.reservedBits = 0
	cb.reservedRefs = 0
}

// finish builds the chain root-first, linking each builder to the next
// via AddRef (the chain's final structural reference, added after all of
// a cell's value references).
func (cb *chainBuilder) finish(ctx context.Context) (*cell.Cell, error) {
	var built *cell.Cell
	for i := len(cb.cells) - 1; i >= 0; i-- {
		b := cb.cells[i]
		if built != nil {
			if err := b.AddRef(ctx, built); err != nil {
				return nil, i18n.WrapError(ctx, err, abimsgs.MsgNotFitInCell, "chain continuation")
			}
		}
		built = b.Build()
	}
	return built, nil
}

// encodeSequenceFixed implements spec.md §4.5's per-token decision: reserve
// each item's max footprint, spilling to a new cell whenever the current
// one cannot hold it (plus one reserved ref for the chain link, unless
// this is the last item), then write the item's actual encoding. The
// decision itself is taken against the cell's reserved (max-footprint)
// budget rather than its actual bit/ref count, so that two sequences of
// the same types always split into the same cells regardless of the
// values being encoded (spec.md §4.5, §8.2).
func encodeSequenceFixed(ctx context.Context, items []item) (*cell.Cell, error) {
	return encodeSequenceFixedInto(ctx, newChainBuilder(), items)
}

func encodeSequenceFixedInto(ctx context.Context, cb *chainBuilder, items []item) (*cell.Cell, error) {
	for i, it := range items {
		reserve := 0
		if i < len(items)-1 {
			reserve = 1
		}
		for {
			rb := cell.MaxBits - cb.reservedBits - it.maxBits
			rr := cell.MaxRefs - cb.reservedRefs - it.maxRefs
			if rb < 0 || rr < reserve {
				cb.spill()
				continue
			}
			break
		}
		if err := it.write(ctx, cb.cur); err != nil {
			return nil, err
		}
		cb.reservedBits += it.maxBits
		cb.reservedRefs += it.maxRefs
	}
	return cb.finish(ctx)
}

// encodeSequenceLegacy implements the pre-2.2 "overflow only" encoder:
// measure the item's actual encoding in a scratch builder; if it does not
// fit in the current cell, spill once, then write it. An item made of
// several builder writes (an address, a varint, an optional) is therefore
// never left half-written in cur.
func encodeSequenceLegacy(ctx context.Context, items []item) (*cell.Cell, error) {
	return encodeSequenceLegacyInto(ctx, newChainBuilder(), items)
}

func encodeSequenceLegacyInto(ctx context.Context, cb *chainBuilder, items []item) (*cell.Cell, error) {
	for _, it := range items {
		probe := cell.NewBuilder()
		if err := it.write(ctx, probe); err != nil {
			return nil, i18n.WrapError(ctx, err, abimsgs.MsgNotFitInCell, "legacy overflow encoder")
		}
		if probe.BitsUsed() > cb.cur.RemainingBits() || probe.RefsUsed() > cb.cur.RemainingRefs() {
			cb.spill()
		}
		if err := it.write(ctx, cb.cur); err != nil {
			return nil, i18n.WrapError(ctx, err, abimsgs.MsgNotFitInCell, "legacy overflow encoder")
		}
	}
	return cb.finish(ctx)
}

// encodeSequence dispatches to the fixed-layout or legacy encoder.
func encodeSequence(ctx context.Context, fixed bool, items []item) (*cell.Cell, error) {
	if fixed {
		return encodeSequenceFixed(ctx, items)
	}
	return encodeSequenceLegacy(ctx, items)
}

// chainSlice mirrors chainBuilder for reading: a root slice, spilling onto
// the last reference of the current cell when exhausted (spec.md §4.6).
// reservedBits/reservedRefs mirror chainBuilder's budget bookkeeping so the
// decode spill decision lands on exactly the cell boundaries the encoder
// chose, without reference to how many bits each item actually occupies.
type chainSlice struct {
	cur          *cell.Slice
	reservedBits int
	reservedRefs int
}

func newChainSlice(c *cell.Cell) *chainSlice {
	return &chainSlice{cur: c.NewSlice()}
}

// newChainSliceReserved seeds the decode-side budget to reserveBits,
// mirroring a chain whose first cell was produced with that many bits
// already committed before the first item (see EncodeSequenceReserved).
func newChainSliceReserved(c *cell.Cell, reserveBits int) *chainSlice {
	return &chainSlice{cur: c.NewSlice(), reservedBits: reserveBits}
}

func (cs *chainSlice) spill(ctx context.Context) error {
	ref, err := cs.cur.NextRef(ctx)
	if err != nil {
		return err
	}
	cs.cur = ref.NewSlice()
	cs.reservedBits = 0
	cs.reservedRefs = 0
	return nil
}

// decodeItem is one entry of a sequence read: maxBits/maxRefs determine
// the spill decision; read performs the actual, variable-size decode.
type decodeItem struct {
	maxBits int
	maxRefs int
	read    func(ctx context.Context, s *cell.Slice) error
}

func decodeSequenceFixed(ctx context.Context, cs *chainSlice, items []decodeItem) error {
	for i, it := range items {
		reserve := 0
		if i < len(items)-1 {
			reserve = 1
		}
		for {
			rb := cell.MaxBits - cs.reservedBits - it.maxBits
			rr := cell.MaxRefs - cs.reservedRefs - it.maxRefs
			if rb < 0 || rr < reserve {
				if err := cs.spill(ctx); err != nil {
					return err
				}
				continue
			}
			break
		}
		if err := it.read(ctx, cs.cur); err != nil {
			return err
		}
		cs.reservedBits += it.maxBits
		cs.reservedRefs += it.maxRefs
	}
	return nil
}

func decodeSequenceLegacy(ctx context.Context, cs *chainSlice, items []decodeItem) error {
	for _, it := range items {
		if err := it.read(ctx, cs.cur); err != nil {
			if serr := cs.spill(ctx); serr != nil {
				return err
			}
			if err := it.read(ctx, cs.cur); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeSequence(ctx context.Context, fixed bool, cs *chainSlice, items []decodeItem) error {
	if fixed {
		return decodeSequenceFixed(ctx, cs, items)
	}
	return decodeSequenceLegacy(ctx, cs, items)
}
