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

// Package abitype parses ABI type descriptor strings ("int64",
// "map(uint32,address)", "optional(T)", "T[]", "T[k]", "ref(T)", "tuple")
// into a typed descriptor tree (spec.md §4.1), grounded on the elementary
// type registry / suffix-rule idiom of pkg/abi/typecomponents.go in the
// teacher repository.
package abitype

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
)

// Kind discriminates the shape of a Type node.
type Kind int

const (
	KindUint Kind = iota
	KindInt
	KindVarUint
	KindVarInt
	KindBool
	KindTuple
	KindArray      // dynamic length
	KindFixedArray // fixed length k
	KindCell
	KindMap
	KindAddress
	KindBytes
	KindFixedBytes
	KindString
	KindOptional
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindVarUint:
		return "varuint"
	case KindVarInt:
		return "varint"
	case KindBool:
		return "bool"
	case KindTuple:
		return "tuple"
	case KindArray:
		return "array"
	case KindFixedArray:
		return "fixedarray"
	case KindCell:
		return "cell"
	case KindMap:
		return "map"
	case KindAddress:
		return "address"
	case KindBytes:
		return "bytes"
	case KindFixedBytes:
		return "fixedbytes"
	case KindString:
		return "string"
	case KindOptional:
		return "optional"
	case KindRef:
		return "ref"
	default:
		return "?"
	}
}

// Field is one named member of a tuple - the Go analog of ParameterArray
// entries in hyperledger-firefly-signer's ABI model.
type Field struct {
	Name string
	Type *Type
	Init bool // ABI >= 2.4: whether the field is present at first deployment
}

// Type is the parsed representation of an ABI type descriptor.
type Type struct {
	Kind Kind

	Bits int // int<N>/uint<N>/fixedbytes<N>*8 width
	VarN int // 16 or 32, for varint/varuint

	ArrayLen int   // KindFixedArray length k
	Elem     *Type // array element / optional inner / ref inner / map value

	KeyType *Type // KindMap key type

	Fields []*Field // KindTuple members

	memoSmallOptional *bool // memoized per spec.md §9 "decide once per type descriptor"
}

// String renders the canonical type descriptor, used both for re-emission
// and as a component of the function/event signature (spec.md §4.4).
func (t *Type) String() string {
	switch t.Kind {
	case KindUint:
		return fmt.Sprintf("uint%d", t.Bits)
	case KindInt:
		return fmt.Sprintf("int%d", t.Bits)
	case KindVarUint:
		return fmt.Sprintf("varuint%d", t.VarN)
	case KindVarInt:
		return fmt.Sprintf("varint%d", t.VarN)
	case KindBool:
		return "bool"
	case KindCell:
		return "cell"
	case KindAddress:
		return "address"
	case KindBytes:
		return "bytes"
	case KindFixedBytes:
		return fmt.Sprintf("fixedbytes%d", t.Bits/8)
	case KindString:
		return "string"
	case KindOptional:
		return fmt.Sprintf("optional(%s)", t.Elem.String())
	case KindRef:
		return fmt.Sprintf("ref(%s)", t.Elem.String())
	case KindMap:
		return fmt.Sprintf("map(%s,%s)", t.KeyType.String(), t.Elem.String())
	case KindArray:
		return t.Elem.String() + "[]"
	case KindFixedArray:
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.ArrayLen)
	case KindTuple:
		buf := new(strings.Builder)
		buf.WriteByte('(')
		for i, f := range t.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(f.Type.String())
		}
		buf.WriteByte(')')
		return buf.String()
	default:
		return "?"
	}
}

// ComponentSpec is the minimal shape this package needs from a JSON Param
// in order to parse "tuple" leaves: a type descriptor string, plus the
// (possibly absent) nested field list used wherever that string contains a
// "tuple" occurrence, at any nesting depth (spec.md §4.1).
type ComponentSpec struct {
	Name       string
	Type       string
	Components []*ComponentSpec
	Init       bool
}

// Parse parses a type descriptor string against its ComponentSpec (for the
// components of any tuple it contains, directly or nested in
// map/array/optional/ref).
func Parse(ctx context.Context, spec *ComponentSpec) (*Type, error) {
	return parseTypeString(ctx, spec.Type, spec.Components, spec.Type)
}

func parseTypeString(ctx context.Context, s string, components []*ComponentSpec, fullDesc string) (*Type, error) {
	base, arraySuffix := splitArraySuffix(s)

	var t *Type
	var err error
	switch {
	case base == "tuple":
		if components == nil {
			return nil, i18n.NewError(ctx, abimsgs.MsgMissingComponents, fullDesc)
		}
		t = &Type{Kind: KindTuple, Fields: make([]*Field, len(components))}
		for i, c := range components {
			ft, ferr := Parse(ctx, c)
			if ferr != nil {
				return nil, ferr
			}
			t.Fields[i] = &Field{Name: c.Name, Type: ft, Init: c.Init}
		}
	case base == "bool":
		t = &Type{Kind: KindBool}
	case base == "cell":
		t = &Type{Kind: KindCell}
	case base == "address":
		t = &Type{Kind: KindAddress}
	case base == "bytes":
		t = &Type{Kind: KindBytes}
	case base == "string":
		t = &Type{Kind: KindString}
	case base == "int":
		t = &Type{Kind: KindInt, Bits: 256}
	case base == "uint":
		t = &Type{Kind: KindUint, Bits: 256}
	case base == "byte":
		t = &Type{Kind: KindUint, Bits: 8}
	case base == "gram":
		t = &Type{Kind: KindVarUint, VarN: 16}
	case base == "time" || base == "expire" || base == "pubkey":
		return nil, i18n.NewError(ctx, abimsgs.MsgInvalidType, base, fullDesc)
	case strings.HasPrefix(base, "optional(") && strings.HasSuffix(base, ")"):
		inner := base[len("optional(") : len(base)-1]
		elem, ierr := parseTypeString(ctx, inner, components, fullDesc)
		if ierr != nil {
			return nil, ierr
		}
		t = &Type{Kind: KindOptional, Elem: elem}
	case strings.HasPrefix(base, "ref(") && strings.HasSuffix(base, ")"):
		inner := base[len("ref(") : len(base)-1]
		elem, ierr := parseTypeString(ctx, inner, components, fullDesc)
		if ierr != nil {
			return nil, ierr
		}
		t = &Type{Kind: KindRef, Elem: elem}
	case strings.HasPrefix(base, "map(") && strings.HasSuffix(base, ")"):
		inner := base[len("map(") : len(base)-1]
		k, v, serr := splitTopLevelComma(ctx, inner, fullDesc)
		if serr != nil {
			return nil, serr
		}
		kt, kerr := parseTypeString(ctx, k, nil, fullDesc)
		if kerr != nil {
			return nil, kerr
		}
		if !isValidMapKey(kt) {
			return nil, i18n.NewError(ctx, abimsgs.MsgInvalidType, "map key must be int<N>/uint<N>/address", fullDesc)
		}
		vt, verr := parseTypeString(ctx, v, components, fullDesc)
		if verr != nil {
			return nil, verr
		}
		t = &Type{Kind: KindMap, KeyType: kt, Elem: vt}
	default:
		t, err = parseElementaryWithSuffix(ctx, base, fullDesc)
	}
	if err != nil {
		return nil, err
	}

	if arraySuffix != "" {
		return parseArrayWrapping(ctx, t, arraySuffix, fullDesc)
	}
	return t, nil
}

// parseElementaryWithSuffix handles the common "name<digits>" forms:
// intN, uintN, varintN, varuintN, fixedbytesN.
func parseElementaryWithSuffix(ctx context.Context, base, fullDesc string) (*Type, error) {
	for _, e := range []struct {
		prefix string
		kind   Kind
	}{
		{"varuint", KindVarUint},
		{"varint", KindVarInt},
		{"uint", KindUint},
		{"int", KindInt},
		{"fixedbytes", KindFixedBytes},
	} {
		if strings.HasPrefix(base, e.prefix) {
			suffix := base[len(e.prefix):]
			n, err := strconv.ParseUint(suffix, 10, 16)
			if err != nil || suffix == "" {
				return nil, i18n.NewError(ctx, abimsgs.MsgInvalidABISuffix, suffix, e.prefix, fullDesc)
			}
			switch e.kind {
			case KindVarUint, KindVarInt:
				if n != 16 && n != 32 {
					return nil, i18n.NewError(ctx, abimsgs.MsgInvalidABISuffix, suffix, e.prefix, fullDesc)
				}
				return &Type{Kind: e.kind, VarN: int(n)}, nil
			case KindFixedBytes:
				if n < 1 || n > 32 {
					return nil, i18n.NewError(ctx, abimsgs.MsgInvalidABISuffix, suffix, e.prefix, fullDesc)
				}
				return &Type{Kind: KindFixedBytes, Bits: int(n) * 8}, nil
			default:
				if n < 1 || n > 256 {
					return nil, i18n.NewError(ctx, abimsgs.MsgInvalidABISuffix, suffix, e.prefix, fullDesc)
				}
				return &Type{Kind: e.kind, Bits: int(n)}, nil
			}
		}
	}
	return nil, i18n.NewError(ctx, abimsgs.MsgInvalidType, base, fullDesc)
}

func parseArrayWrapping(ctx context.Context, elem *Type, suffix, fullDesc string) (*Type, error) {
	// suffix is one or more "[...]" groups; wrap from the innermost (leftmost) outward.
	groups, err := splitBracketGroups(ctx, suffix, fullDesc)
	if err != nil {
		return nil, err
	}
	cur := elem
	for _, g := range groups {
		if g == "" {
			cur = &Type{Kind: KindArray, Elem: cur}
		} else {
			n, err := strconv.ParseUint(g, 10, 32)
			if err != nil {
				return nil, i18n.NewError(ctx, abimsgs.MsgInvalidABIArraySpec, fullDesc)
			}
			cur = &Type{Kind: KindFixedArray, Elem: cur, ArrayLen: int(n)}
		}
	}
	return cur, nil
}

func splitBracketGroups(ctx context.Context, s, fullDesc string) ([]string, error) {
	var groups []string
	for len(s) > 0 {
		if s[0] != '[' {
			return nil, i18n.NewError(ctx, abimsgs.MsgInvalidABIArraySpec, fullDesc)
		}
		idx := strings.IndexByte(s, ']')
		if idx < 0 {
			return nil, i18n.NewError(ctx, abimsgs.MsgInvalidABIArraySpec, fullDesc)
		}
		groups = append(groups, s[1:idx])
		s = s[idx+1:]
	}
	return groups, nil
}

// splitArraySuffix separates a base type from its trailing "[]"/"[k]" groups,
// and the parenthesised form of map/optional/ref from their own nested
// array suffixes - so "map(uint32,address)[][3]" splits into
// "map(uint32,address)" and "[][3]".
func splitArraySuffix(s string) (base, arraySuffix string) {
	if strings.HasPrefix(s, "map(") || strings.HasPrefix(s, "optional(") || strings.HasPrefix(s, "ref(") {
		depth := 0
		for i, r := range s {
			switch r {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return s[:i+1], s[i+1:]
				}
			}
		}
		return s, ""
	}
	idx := strings.IndexByte(s, '[')
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx:]
}

// splitTopLevelComma splits "K,V" respecting nested parens in V (e.g.
// "uint32,map(uint8,address)").
func splitTopLevelComma(ctx context.Context, s, fullDesc string) (k, v string, err error) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", "", i18n.NewError(ctx, abimsgs.MsgInvalidType, "map requires key,value", fullDesc)
}

func isValidMapKey(t *Type) bool {
	switch t.Kind {
	case KindInt, KindUint, KindAddress:
		return true
	default:
		return false
	}
}
