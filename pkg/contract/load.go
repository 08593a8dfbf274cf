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

package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/latticebound/tvmabi/internal/abimsgs"
)

// rawParam mirrors the on-the-wire shape of a Param - and, for data[]
// entries, the extra "key" field (spec.md §6.1).
type rawParam struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Components []*rawParam `json:"components,omitempty"`
	Init       *bool       `json:"init,omitempty"`
	Key        *string     `json:"key,omitempty"` // decimal or hex u64, data[] only
}

type rawEntry struct {
	Name    string      `json:"name"`
	Inputs  []*rawParam `json:"inputs"`
	Outputs []*rawParam `json:"outputs,omitempty"`
	ID      *string     `json:"id,omitempty"`
}

type rawDocument struct {
	ABIVersionLegacy *int        `json:"ABI version,omitempty"`
	Version          *string     `json:"version,omitempty"`
	SetTime          *bool       `json:"setTime,omitempty"`
	Header           []json.RawMessage `json:"header,omitempty"`
	Functions        []*rawEntry `json:"functions"`
	Events           []*rawEntry `json:"events,omitempty"`
	Data             []*rawParam `json:"data,omitempty"`
	Fields           []*rawParam `json:"fields,omitempty"`
}

// LoadOptions controls loader behavior not carried in the JSON document
// itself.
type LoadOptions struct {
	// StrictDeprecations, if true, makes Load fail with MsgDeprecatedType
	// when an ABI >= 2.4 document has a parameter whose type contains
	// fixedbytes<N> (spec.md §4.2, §7). The check runs at load time, so
	// there is no Contract left to decode with either.
	StrictDeprecations bool
}

// Load parses a contract JSON document (spec.md §4.2, §6.1).
func Load(ctx context.Context, data []byte, opts LoadOptions) (*Contract, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, i18n.WrapError(ctx, err, abimsgs.MsgInvalidField, "document", "$", err.Error())
	}

	version, err := resolveVersion(ctx, &raw)
	if err != nil {
		return nil, err
	}

	c := &Contract{
		Version:            version,
		StrictDeprecations: opts.StrictDeprecations,
	}

	if raw.SetTime != nil {
		c.SetTime = *raw.SetTime
	} else {
		c.SetTime = version.DefaultSetTime()
	}

	if c.Header, err = loadHeader(ctx, raw.Header, version, c.StrictDeprecations); err != nil {
		return nil, err
	}

	seenNames := map[string]bool{}
	for _, rf := range raw.Functions {
		f, err := loadFunction(ctx, rf, version, c.StrictDeprecations)
		if err != nil {
			return nil, err
		}
		if seenNames[f.Name] {
			return nil, i18n.NewError(ctx, abimsgs.MsgDuplicateName, f.Name, "functions")
		}
		seenNames[f.Name] = true
		c.Functions = append(c.Functions, f)
	}

	seenEventNames := map[string]bool{}
	for _, re := range raw.Events {
		e, err := loadEvent(ctx, re, version, c.StrictDeprecations)
		if err != nil {
			return nil, err
		}
		if seenEventNames[e.Name] {
			return nil, i18n.NewError(ctx, abimsgs.MsgDuplicateName, e.Name, "events")
		}
		seenEventNames[e.Name] = true
		c.Events = append(c.Events, e)
	}

	seenKeys := map[uint64]bool{}
	for _, rd := range raw.Data {
		if rd.Key == nil {
			return nil, i18n.NewError(ctx, abimsgs.MsgMissingField, "key", "data[]")
		}
		key, err := parseU64(ctx, *rd.Key, "data[].key")
		if err != nil {
			return nil, err
		}
		if seenKeys[key] {
			return nil, i18n.NewError(ctx, abimsgs.MsgDuplicateKey, key)
		}
		seenKeys[key] = true
		p, err := loadParam(ctx, rd, version, c.StrictDeprecations, fmt.Sprintf("data[%d]", key))
		if err != nil {
			return nil, err
		}
		c.Data = append(c.Data, &DataItem{Key: key, Param: p})
	}

	if len(raw.Fields) > 0 && !version.HasFieldsSection() {
		return nil, i18n.NewError(ctx, abimsgs.MsgUnsupportedType, "fields[]", "$", "2.1", version.String())
	}
	for i, rf := range raw.Fields {
		p, err := loadParam(ctx, rf, version, c.StrictDeprecations, fmt.Sprintf("fields[%d]", i))
		if err != nil {
			return nil, err
		}
		c.Fields = append(c.Fields, p)
	}

	return c, nil
}

func resolveVersion(ctx context.Context, raw *rawDocument) (Version, error) {
	switch {
	case raw.Version != nil:
		parts := strings.SplitN(*raw.Version, ".", 2)
		major, err := strconv.Atoi(parts[0])
		if err != nil {
			return Version{}, i18n.NewError(ctx, abimsgs.MsgUnsupportedAbiVersion, *raw.Version)
		}
		minor := 0
		if len(parts) == 2 {
			if minor, err = strconv.Atoi(parts[1]); err != nil {
				return Version{}, i18n.NewError(ctx, abimsgs.MsgUnsupportedAbiVersion, *raw.Version)
			}
		}
		v := Version{Major: major, Minor: minor}
		if !isSupportedVersion(v) {
			return Version{}, i18n.NewError(ctx, abimsgs.MsgUnsupportedAbiVersion, *raw.Version)
		}
		return v, nil
	case raw.ABIVersionLegacy != nil:
		v := Version{Major: *raw.ABIVersionLegacy, Minor: 0}
		if !isSupportedVersion(v) {
			return Version{}, i18n.NewError(ctx, abimsgs.MsgUnsupportedAbiVersion, strconv.Itoa(*raw.ABIVersionLegacy))
		}
		return v, nil
	default:
		return Version{}, i18n.NewError(ctx, abimsgs.MsgMissingField, "version", "$")
	}
}

func loadHeader(ctx context.Context, items []json.RawMessage, version Version, strict bool) ([]*HeaderItem, error) {
	out := make([]*HeaderItem, 0, len(items))
	for i, raw := range items {
		var kw string
		if err := json.Unmarshal(raw, &kw); err == nil {
			hi, ok := headerKeyword(kw)
			if !ok {
				return nil, i18n.NewError(ctx, abimsgs.MsgInvalidField, "header", fmt.Sprintf("header[%d]", i), kw)
			}
			out = append(out, hi)
			continue
		}
		var rp rawParam
		if err := json.Unmarshal(raw, &rp); err != nil {
			return nil, i18n.WrapError(ctx, err, abimsgs.MsgInvalidField, "header", fmt.Sprintf("header[%d]", i), err.Error())
		}
		p, err := loadParam(ctx, &rp, version, strict, fmt.Sprintf("header[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, &HeaderItem{Kind: HeaderCustom, Param: p})
	}
	return out, nil
}

func headerKeyword(s string) (*HeaderItem, bool) {
	switch s {
	case "time":
		return &HeaderItem{Kind: HeaderTime}, true
	case "expire":
		return &HeaderItem{Kind: HeaderExpire}, true
	case "pubkey":
		return &HeaderItem{Kind: HeaderPubKey}, true
	default:
		return nil, false
	}
}

func loadFunction(ctx context.Context, re *rawEntry, version Version, strict bool) (*Function, error) {
	if re.Name == "" {
		return nil, i18n.NewError(ctx, abimsgs.MsgMissingField, "name", "functions[]")
	}
	f := &Function{Name: re.Name}
	var err error
	if f.Inputs, err = loadParams(ctx, re.Inputs, version, strict, re.Name+".inputs"); err != nil {
		return nil, err
	}
	if f.Outputs, err = loadParams(ctx, re.Outputs, version, strict, re.Name+".outputs"); err != nil {
		return nil, err
	}
	if re.ID != nil {
		id, err := parseU32(ctx, *re.ID, re.Name+".id")
		if err != nil {
			return nil, err
		}
		f.ID = &id
	}
	return f, nil
}

func loadEvent(ctx context.Context, re *rawEntry, version Version, strict bool) (*Event, error) {
	if re.Name == "" {
		return nil, i18n.NewError(ctx, abimsgs.MsgMissingField, "name", "events[]")
	}
	e := &Event{Name: re.Name}
	var err error
	if e.Inputs, err = loadParams(ctx, re.Inputs, version, strict, re.Name+".inputs"); err != nil {
		return nil, err
	}
	if re.ID != nil {
		id, err := parseU32(ctx, *re.ID, re.Name+".id")
		if err != nil {
			return nil, err
		}
		e.ID = &id
	}
	return e, nil
}

func loadParams(ctx context.Context, raws []*rawParam, version Version, strict bool, path string) ([]*Param, error) {
	out := make([]*Param, 0, len(raws))
	seen := map[string]bool{}
	for i, r := range raws {
		p, err := loadParam(ctx, r, version, strict, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if p.Name != "" {
			if seen[p.Name] {
				return nil, i18n.NewError(ctx, abimsgs.MsgDuplicateName, p.Name, path)
			}
			seen[p.Name] = true
		}
		out = append(out, p)
	}
	return out, nil
}

func loadParam(ctx context.Context, r *rawParam, version Version, strict bool, path string) (*Param, error) {
	if r.Type == "" {
		return nil, i18n.NewError(ctx, abimsgs.MsgMissingField, "type", path)
	}
	p := &Param{Name: r.Name, TypeDesc: r.Type}
	if r.Init != nil {
		if !version.SupportsInitAttribute() {
			return nil, i18n.NewError(ctx, abimsgs.MsgUnsupportedType, "init", path, "2.4", version.String())
		}
		p.Init = *r.Init
	}
	if strings.Contains(r.Type, "ref(") && !version.SupportsRefType() {
		return nil, i18n.NewError(ctx, abimsgs.MsgUnsupportedType, "ref(T)", path, "2.4", version.String())
	}
	if strict && strings.Contains(r.Type, "fixedbytes") && version.FixedBytesDeprecated() {
		return nil, i18n.NewError(ctx, abimsgs.MsgDeprecatedType, r.Type, path, version.String())
	}
	if len(r.Components) > 0 {
		p.Components = make([]*Param, 0, len(r.Components))
		for i, c := range r.Components {
			cp, err := loadParam(ctx, c, version, strict, fmt.Sprintf("%s.components[%d]", path, i))
			if err != nil {
				return nil, err
			}
			p.Components = append(p.Components, cp)
		}
	}
	// Validate the type descriptor parses, surfacing grammar errors at load
	// time rather than at first use.
	if _, err := p.Type(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func parseU64(ctx context.Context, s, path string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, i18n.WrapError(ctx, err, abimsgs.MsgInvalidField, "key", path, s)
	}
	return v, nil
}

func parseU32(ctx context.Context, s, path string) (uint32, error) {
	v, err := parseU64(ctx, s, path)
	if err != nil {
		return 0, err
	}
	if v > 0xFFFFFFFF {
		return 0, i18n.NewError(ctx, abimsgs.MsgIntOverflow, s, "id", path)
	}
	return uint32(v), nil
}
