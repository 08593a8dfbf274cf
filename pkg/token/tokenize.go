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
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
	"github.com/latticebound/tvmabi/pkg/abitype"
	"github.com/latticebound/tvmabi/pkg/cell"
)

var (
	int64Type    = reflect.TypeOf(int64(0))
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// Tokenize converts external JSON-shaped data (the output of
// encoding/json.Unmarshal into interface{}, or hand-built Go values) into a
// Token matching t, following the lenient accept-rules of spec.md §4.3.
func Tokenize(ctx context.Context, t *abitype.Type, v interface{}, path string) (*Token, error) {
	switch t.Kind {
	case abitype.KindUint, abitype.KindInt:
		i, err := getInteger(ctx, v, path)
		if err != nil {
			return nil, err
		}
		if err := checkIntRange(ctx, i, t.Kind == abitype.KindInt, t.Bits, path); err != nil {
			return nil, err
		}
		return &Token{Type: t, Int: i}, nil

	case abitype.KindVarUint, abitype.KindVarInt:
		i, err := getInteger(ctx, v, path)
		if err != nil {
			return nil, err
		}
		limit := new(big.Int).Lsh(big.NewInt(1), uint(8*(t.VarN-1)))
		if i.CmpAbs(limit) >= 0 {
			return nil, i18n.NewError(ctx, abimsgs.MsgIntOverflow, i.String(), t.String(), path)
		}
		if t.Kind == abitype.KindVarUint && i.Sign() < 0 {
			return nil, i18n.NewError(ctx, abimsgs.MsgIntOverflow, i.String(), t.String(), path)
		}
		return &Token{Type: t, Int: i}, nil

	case abitype.KindBool:
		b, err := getBool(ctx, v, path)
		if err != nil {
			return nil, err
		}
		return &Token{Type: t, Bool: b}, nil

	case abitype.KindAddress:
		s, err := getString(ctx, v, path)
		if err != nil {
			return nil, err
		}
		a, err := ParseAddress(ctx, s, path)
		if err != nil {
			return nil, err
		}
		return &Token{Type: t, Address: a}, nil

	case abitype.KindBytes:
		b, err := getBytes(ctx, v, path)
		if err != nil {
			return nil, err
		}
		return &Token{Type: t, Bytes: b}, nil

	case abitype.KindFixedBytes:
		b, err := getBytes(ctx, v, path)
		if err != nil {
			return nil, err
		}
		n := t.Bits / 8
		if len(b) != n {
			return nil, i18n.NewError(ctx, abimsgs.MsgLengthMismatch, n, len(b), path)
		}
		return &Token{Type: t, Bytes: b}, nil

	case abitype.KindCell:
		s, err := getString(ctx, v, path)
		if err != nil {
			return nil, err
		}
		c, err := cell.FromBase64BoC(ctx, s)
		if err != nil {
			return nil, err
		}
		return &Token{Type: t, CellValue: c}, nil

	case abitype.KindString:
		s, err := getString(ctx, v, path)
		if err != nil {
			return nil, err
		}
		if !utf8.ValidString(s) {
			return nil, i18n.NewError(ctx, abimsgs.MsgUtf8Error, path)
		}
		return &Token{Type: t, Str: s}, nil

	case abitype.KindTuple:
		return tokenizeTuple(ctx, t, v, path)

	case abitype.KindArray:
		arr, err := getInterfaceSlice(ctx, v, path)
		if err != nil {
			return nil, err
		}
		elems := make([]*Token, len(arr))
		for i, ev := range arr {
			el, err := Tokenize(ctx, t.Elem, ev, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			elems[i] = el
		}
		return &Token{Type: t, Array: elems}, nil

	case abitype.KindFixedArray:
		arr, err := getInterfaceSlice(ctx, v, path)
		if err != nil {
			return nil, err
		}
		if len(arr) != t.ArrayLen {
			return nil, i18n.NewError(ctx, abimsgs.MsgArrayLenMismatch, t.ArrayLen, path, len(arr))
		}
		elems := make([]*Token, len(arr))
		for i, ev := range arr {
			el, err := Tokenize(ctx, t.Elem, ev, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			elems[i] = el
		}
		return &Token{Type: t, Array: elems}, nil

	case abitype.KindMap:
		m, err := getInterfaceMap(ctx, v, path)
		if err != nil {
			return nil, err
		}
		entries := make([]MapEntry, 0, len(m.keys))
		for _, k := range m.keys {
			kt, err := Tokenize(ctx, t.KeyType, k, path+".keys")
			if err != nil {
				return nil, err
			}
			vt, err := Tokenize(ctx, t.Elem, m.values[k], fmt.Sprintf("%s[%s]", path, k))
			if err != nil {
				return nil, err
			}
			entries = append(entries, MapEntry{Key: kt, Value: vt})
		}
		return &Token{Type: t, Map: entries}, nil

	case abitype.KindOptional:
		if v == nil {
			return &Token{Type: t, OptionalSet: false}, nil
		}
		inner, err := Tokenize(ctx, t.Elem, v, path)
		if err != nil {
			return nil, err
		}
		return &Token{Type: t, OptionalSet: true, OptionalValue: inner}, nil

	case abitype.KindRef:
		inner, err := Tokenize(ctx, t.Elem, v, path)
		if err != nil {
			return nil, err
		}
		return &Token{Type: t, RefValue: inner}, nil

	default:
		return nil, i18n.NewError(ctx, abimsgs.MsgWrongDataFormat, t.String(), path, v)
	}
}

func tokenizeTuple(ctx context.Context, t *abitype.Type, v interface{}, path string) (*Token, error) {
	if arr, ok := v.([]interface{}); ok {
		if len(arr) != len(t.Fields) {
			return nil, i18n.NewError(ctx, abimsgs.MsgArrayLenMismatch, len(t.Fields), path, len(arr))
		}
		children := make([]*Token, len(arr))
		for i, f := range t.Fields {
			c, err := Tokenize(ctx, f.Type, arr[i], fmt.Sprintf("%s.%s", path, f.Name))
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		return &Token{Type: t, Tuple: children}, nil
	}
	m, err := getInterfaceMap(ctx, v, path)
	if err != nil {
		return nil, err
	}
	children := make([]*Token, len(t.Fields))
	for i, f := range t.Fields {
		fv, ok := m.values[f.Name]
		if !ok {
			return nil, i18n.NewError(ctx, abimsgs.MsgMissingField, f.Name, path)
		}
		c, err := Tokenize(ctx, f.Type, fv, fmt.Sprintf("%s.%s", path, f.Name))
		if err != nil {
			return nil, err
		}
		children[i] = c
	}
	return &Token{Type: t, Tuple: children}, nil
}

// --- lenient coercion helpers, grounded on pkg/abi/inputparsing.go ---

func getPtrValOrNil(v interface{}) interface{} {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr && !val.IsNil() {
		return val.Elem().Interface()
	}
	return nil
}

func getStringIfConvertible(v interface{}) (string, bool) {
	vt := reflect.TypeOf(v)
	if vt == nil {
		return "", false
	}
	if vt.Kind() == reflect.String {
		return reflect.ValueOf(v).String(), true
	}
	if vt.Implements(stringerType) {
		return v.(fmt.Stringer).String(), true
	}
	return "", false
}

func getBytesIfConvertible(v interface{}) []byte {
	vt := reflect.TypeOf(v)
	if vt == nil {
		return nil
	}
	if vt.Kind() == reflect.Slice && vt.Elem().Kind() == reflect.Uint8 {
		return reflect.ValueOf(v).Bytes()
	}
	return nil
}

func getInt64IfConvertible(v interface{}) (int64, bool) {
	vt := reflect.TypeOf(v)
	if vt == nil {
		return 0, false
	}
	if vt.ConvertibleTo(int64Type) {
		return reflect.ValueOf(v).Convert(int64Type).Interface().(int64), true
	}
	return 0, false
}

func getInteger(ctx context.Context, v interface{}, path string) (*big.Int, error) {
	switch vt := v.(type) {
	case string:
		i, ok := new(big.Int).SetString(vt, 0)
		if !ok {
			return nil, i18n.NewError(ctx, abimsgs.MsgWrongDataFormat, "integer", path, vt)
		}
		return i, nil
	case *big.Int:
		return vt, nil
	case float64:
		return big.NewInt(int64(vt)), nil
	case float32:
		return big.NewInt(int64(vt)), nil
	case int64:
		return big.NewInt(vt), nil
	case int32:
		return big.NewInt(int64(vt)), nil
	case int16:
		return big.NewInt(int64(vt)), nil
	case int8:
		return big.NewInt(int64(vt)), nil
	case int:
		return big.NewInt(int64(vt)), nil
	case uint64:
		return new(big.Int).SetUint64(vt), nil
	case uint32:
		return big.NewInt(int64(vt)), nil
	case uint16:
		return big.NewInt(int64(vt)), nil
	case uint8:
		return big.NewInt(int64(vt)), nil
	case uint:
		return new(big.Int).SetUint64(uint64(vt)), nil
	default:
		if str, ok := getStringIfConvertible(v); ok {
			return getInteger(ctx, str, path)
		}
		if vi := getPtrValOrNil(v); vi != nil {
			return getInteger(ctx, vi, path)
		}
		if i64, ok := getInt64IfConvertible(v); ok {
			return getInteger(ctx, i64, path)
		}
		return nil, i18n.NewError(ctx, abimsgs.MsgWrongDataFormat, "integer", path, v)
	}
}

func checkIntRange(ctx context.Context, i *big.Int, signed bool, bits int, path string) error {
	if signed {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		neg := new(big.Int).Neg(limit)
		if i.Cmp(neg) < 0 || i.Cmp(new(big.Int).Sub(limit, big.NewInt(1))) > 0 {
			return i18n.NewError(ctx, abimsgs.MsgIntOverflow, i.String(), fmt.Sprintf("int%d", bits), path)
		}
		return nil
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	if i.Sign() < 0 || i.Cmp(limit) >= 0 {
		return i18n.NewError(ctx, abimsgs.MsgIntOverflow, i.String(), fmt.Sprintf("uint%d", bits), path)
	}
	return nil
}

func getBool(ctx context.Context, v interface{}, path string) (bool, error) {
	switch vt := v.(type) {
	case bool:
		return vt, nil
	case string:
		switch vt {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, i18n.NewError(ctx, abimsgs.MsgWrongDataFormat, "bool", path, v)
	case float64:
		return vt != 0, nil
	default:
		if vi := getPtrValOrNil(v); vi != nil {
			return getBool(ctx, vi, path)
		}
		return false, i18n.NewError(ctx, abimsgs.MsgWrongDataFormat, "bool", path, v)
	}
}

func getString(ctx context.Context, v interface{}, path string) (string, error) {
	switch vt := v.(type) {
	case string:
		return vt, nil
	default:
		if str, ok := getStringIfConvertible(v); ok {
			return str, nil
		}
		if vi := getPtrValOrNil(v); vi != nil {
			return getString(ctx, vi, path)
		}
		return "", i18n.NewError(ctx, abimsgs.MsgWrongDataFormat, "string", path, v)
	}
}

func getBytes(ctx context.Context, v interface{}, path string) ([]byte, error) {
	switch vt := v.(type) {
	case []byte:
		return vt, nil
	case string:
		b, err := hex.DecodeString(vt)
		if err != nil {
			return nil, i18n.WrapError(ctx, err, abimsgs.MsgInvalidHex, vt, path)
		}
		return b, nil
	default:
		if ba := getBytesIfConvertible(v); ba != nil {
			return ba, nil
		}
		if str, ok := getStringIfConvertible(v); ok {
			return getBytes(ctx, str, path)
		}
		if vi := getPtrValOrNil(v); vi != nil {
			return getBytes(ctx, vi, path)
		}
		return nil, i18n.NewError(ctx, abimsgs.MsgWrongDataFormat, "bytes", path, v)
	}
}

func getInterfaceSlice(ctx context.Context, v interface{}, path string) ([]interface{}, error) {
	if arr, ok := v.([]interface{}); ok {
		return arr, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, i18n.NewError(ctx, abimsgs.MsgNotASlice, path, v)
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// orderedMap preserves the insertion/iteration order of a JSON object or Go
// map, so map/tuple tokenization is deterministic.
type orderedMap struct {
	keys   []string
	values map[string]interface{}
}

func getInterfaceMap(ctx context.Context, v interface{}, path string) (*orderedMap, error) {
	if m, ok := v.(map[string]interface{}); ok {
		om := &orderedMap{values: m}
		for k := range m {
			om.keys = append(om.keys, k)
		}
		return om, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, i18n.NewError(ctx, abimsgs.MsgNotAMapOrObject, path, v)
	}
	om := &orderedMap{values: make(map[string]interface{}, rv.Len())}
	iter := rv.MapRange()
	for iter.Next() {
		k, err := getString(ctx, iter.Key().Interface(), path)
		if err != nil {
			return nil, err
		}
		om.keys = append(om.keys, k)
		om.values[k] = iter.Value().Interface()
	}
	return om, nil
}
