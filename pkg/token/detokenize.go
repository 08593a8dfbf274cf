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
	"encoding/hex"

	"github.com/latticebound/tvmabi/pkg/abitype"
)

// Detokenize reverses Tokenize, always emitting the canonical JSON-shaped
// form documented in spec.md §4.3 (decimal strings for int/uint, hex
// strings for bytes/fixedbytes, booleans for bool, and so on).
func Detokenize(tok *Token) interface{} {
	switch tok.Type.Kind {
	case abitype.KindUint, abitype.KindInt, abitype.KindVarUint, abitype.KindVarInt:
		return tok.Int.String()

	case abitype.KindBool:
		return tok.Bool

	case abitype.KindAddress:
		return tok.Address.String()

	case abitype.KindBytes, abitype.KindFixedBytes:
		return hex.EncodeToString(tok.Bytes)

	case abitype.KindCell:
		return tok.CellValue.ToBase64BoC()

	case abitype.KindString:
		return tok.Str

	case abitype.KindTuple:
		out := make(map[string]interface{}, len(tok.Tuple))
		for i, f := range tok.Type.Fields {
			out[f.Name] = Detokenize(tok.Tuple[i])
		}
		return out

	case abitype.KindArray, abitype.KindFixedArray:
		out := make([]interface{}, len(tok.Array))
		for i, el := range tok.Array {
			out[i] = Detokenize(el)
		}
		return out

	case abitype.KindMap:
		out := make(map[string]interface{}, len(tok.Map))
		for _, e := range tok.Map {
			out[jsonKeyString(e.Key)] = Detokenize(e.Value)
		}
		return out

	case abitype.KindOptional:
		if !tok.OptionalSet {
			return nil
		}
		return Detokenize(tok.OptionalValue)

	case abitype.KindRef:
		return Detokenize(tok.RefValue)

	default:
		return nil
	}
}

// jsonKeyString renders a map key token as the string JSON requires object
// keys to be.
func jsonKeyString(k *Token) string {
	switch k.Type.Kind {
	case abitype.KindUint, abitype.KindInt:
		return k.Int.String()
	case abitype.KindAddress:
		return k.Address.String()
	default:
		return ""
	}
}
