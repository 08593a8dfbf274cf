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

	"github.com/latticebound/tvmabi/pkg/cell"
)

const bytesPerChainCell = cell.MaxBits / 8 // 127

// bytesChainCell packs data into a chain of cells (bytesPerChainCell bytes
// each) linked tail-first via a single reference, the storage form used for
// bytes/string values (spec.md §4.5 "bytes and string storage").
func bytesChainCell(ctx context.Context, data []byte) (*cell.Cell, error) {
	if len(data) == 0 {
		return cell.NewBuilder().Build(), nil
	}
	var chunks [][]byte
	for off := 0; off < len(data); off += bytesPerChainCell {
		end := off + bytesPerChainCell
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[off:end])
	}
	var built *cell.Cell
	for i := len(chunks) - 1; i >= 0; i-- {
		b := cell.NewBuilder()
		if err := b.WriteBytes(ctx, chunks[i]); err != nil {
			return nil, err
		}
		if built != nil {
			if err := b.AddRef(ctx, built); err != nil {
				return nil, err
			}
		}
		built = b.Build()
	}
	return built, nil
}

// readBytesChain reverses bytesChainCell.
func readBytesChain(ctx context.Context, c *cell.Cell) ([]byte, error) {
	s := c.NewSlice()
	data, err := s.ReadBytes(ctx, c.BitLen()/8)
	if err != nil {
		return nil, err
	}
	if s.RemainingRefs() == 0 {
		return data, nil
	}
	ref, err := s.NextRef(ctx)
	if err != nil {
		return nil, err
	}
	rest, err := readBytesChain(ctx, ref)
	if err != nil {
		return nil, err
	}
	return append(data, rest...), nil
}
